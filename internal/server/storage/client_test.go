package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestConnection(t *testing.T) {
	orig := headBucket
	defer func() { headBucket = orig }()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "reachable", err: nil, want: true},
		{name: "unreachable", err: errors.New("dial timeout"), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headBucket = func(ctx context.Context, c *s3.Client, in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
				assert.Equal(t, "test-bucket", aws.ToString(in.Bucket))
				return &s3.HeadBucketOutput{}, tt.err
			}
			assert.Equal(t, tt.want, testClient().TestConnection(context.Background()))
		})
	}
}

func TestStatObject(t *testing.T) {
	orig := headObject
	defer func() { headObject = orig }()

	modified := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	headObject = func(ctx context.Context, c *s3.Client, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return &s3.HeadObjectOutput{
			ContentLength: aws.Int64(1234),
			ContentType:   aws.String("video/mp4"),
			ETag:          aws.String(`"abc"`),
			LastModified:  &modified,
		}, nil
	}

	info, ok := testClient().StatObject(context.Background(), "files/abc/movie.mp4")

	require.True(t, ok)
	assert.Equal(t, int64(1234), info.Size)
	assert.Equal(t, "video/mp4", info.ContentType)
	assert.Equal(t, modified, info.LastModified)
}

func TestStatObject_Missing(t *testing.T) {
	orig := headObject
	defer func() { headObject = orig }()

	headObject = func(ctx context.Context, c *s3.Client, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return nil, errors.New("NotFound")
	}

	info, ok := testClient().StatObject(context.Background(), "missing")
	assert.False(t, ok)
	assert.Nil(t, info)
}

func TestDeleteObject(t *testing.T) {
	orig := deleteObject
	defer func() { deleteObject = orig }()

	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		assert.Equal(t, "files/abc/x", aws.ToString(in.Key))
		return &s3.DeleteObjectOutput{}, nil
	}
	assert.True(t, testClient().DeleteObject(context.Background(), "files/abc/x"))

	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("boom")
	}
	assert.False(t, testClient().DeleteObject(context.Background(), "files/abc/x"))
}
