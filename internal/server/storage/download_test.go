package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	orig := getObject
	defer func() { getObject = orig }()

	getObject = func(ctx context.Context, c *s3.Client, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		assert.Equal(t, "test-bucket", aws.ToString(in.Bucket))
		assert.Equal(t, "files/abc/movie.mp4", aws.ToString(in.Key))
		return &s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("hello world")),
		}, nil
	}

	var progress []int64
	path := filepath.Join(t.TempDir(), "out.bin")
	err := testClient().Download(context.Background(), "files/abc/movie.mp4", path, func(n int64) {
		progress = append(progress, n)
	})

	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	require.NotEmpty(t, progress)
	assert.Equal(t, int64(len("hello world")), progress[len(progress)-1])
}

func TestDownload_GetObjectError(t *testing.T) {
	orig := getObject
	defer func() { getObject = orig }()

	getObject = func(ctx context.Context, c *s3.Client, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return nil, errors.New("access denied")
	}

	path := filepath.Join(t.TempDir(), "out.bin")
	err := testClient().Download(context.Background(), "k", path, nil)

	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestOpenObject(t *testing.T) {
	orig := getObject
	defer func() { getObject = orig }()

	getObject = func(ctx context.Context, c *s3.Client, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return &s3.GetObjectOutput{
			Body: io.NopCloser(strings.NewReader("streamed")),
		}, nil
	}

	rc, err := testClient().OpenObject(context.Background(), "k")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "streamed", string(data))
}
