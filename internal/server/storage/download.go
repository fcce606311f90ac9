package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Download fetches key into localPath. onProgress, when non-nil, receives
// cumulative downloaded bytes.
func (c *Client) Download(ctx context.Context, key string, localPath string, onProgress ProgressFunc) error {
	out, err := c.getObjectBody(ctx, key)
	if err != nil {
		return err
	}
	defer out.Close()

	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create download target: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, newProgressReader(out, onProgress)); err != nil {
		return fmt.Errorf("copy object body: %w", err)
	}
	return nil
}

// OpenObject returns a streaming reader over key. The caller owns closing it.
func (c *Client) OpenObject(ctx context.Context, key string) (io.ReadCloser, error) {
	return c.getObjectBody(ctx, key)
}

func (c *Client) getObjectBody(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := getObject(ctx, c.cli, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	return out.Body, nil
}
