package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/fileport/internal/filex"
)

// Upload stores the file at localPath under key, choosing between a single
// PutObject and a sequential multipart upload based on the file size.
// onProgress, when non-nil, receives cumulative uploaded bytes.
func (c *Client) Upload(ctx context.Context, localPath string, key string, contentType string, onProgress ProgressFunc) error {
	size, err := filex.FileSize(localPath)
	if err != nil {
		return fmt.Errorf("stat upload source: %w", err)
	}

	if size > multipartThreshold {
		return c.multipartUpload(ctx, localPath, key, size, contentType, onProgress)
	}
	return c.singleUpload(ctx, localPath, key, size, contentType, onProgress)
}

func (c *Client) singleUpload(ctx context.Context, localPath string, key string, size int64, contentType string, onProgress ProgressFunc) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	in := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          newProgressReader(f, onProgress),
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := putObject(ctx, c.cli, in); err != nil {
		return fmt.Errorf("put object: %w", err)
	}

	c.log.Info(ctx, "object uploaded", "key", key, "size", size)
	return nil
}

// multipartUpload splits the file into fixed-size parts uploaded sequentially
// with 1-based ascending part numbers. On any part failure the upload is
// aborted so the store does not accumulate orphaned part data.
func (c *Client) multipartUpload(ctx context.Context, localPath string, key string, size int64, contentType string, onProgress ProgressFunc) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open upload source: %w", err)
	}
	defer f.Close()

	createIn := &s3.CreateMultipartUploadInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		createIn.ContentType = aws.String(contentType)
	}

	created, err := createMultipartUpload(ctx, c.cli, createIn)
	if err != nil {
		return fmt.Errorf("create multipart upload: %w", err)
	}
	uploadID := created.UploadId

	abort := func() {
		_, aerr := abortMultipartUpload(ctx, c.cli, &s3.AbortMultipartUploadInput{
			Bucket:   aws.String(c.bucket),
			Key:      aws.String(key),
			UploadId: uploadID,
		})
		if aerr != nil {
			c.log.Warn(ctx, "abort multipart upload failed", "key", key, "error", aerr)
		}
	}

	var (
		completed []types.CompletedPart
		uploaded  int64
	)
	for partNumber := int32(1); uploaded < size; partNumber++ {
		chunk := size - uploaded
		if chunk > partSize {
			chunk = partSize
		}

		out, err := uploadPart(ctx, c.cli, &s3.UploadPartInput{
			Bucket:        aws.String(c.bucket),
			Key:           aws.String(key),
			UploadId:      uploadID,
			PartNumber:    aws.Int32(partNumber),
			Body:          io.NewSectionReader(f, uploaded, chunk),
			ContentLength: aws.Int64(chunk),
		})
		if err != nil {
			abort()
			return fmt.Errorf("upload part %d: %w", partNumber, err)
		}

		completed = append(completed, types.CompletedPart{
			ETag:       out.ETag,
			PartNumber: aws.Int32(partNumber),
		})
		uploaded += chunk
		if onProgress != nil {
			onProgress(uploaded)
		}
	}

	// The completion list must be ascending by part number.
	sort.Slice(completed, func(i, j int) bool {
		return aws.ToInt32(completed[i].PartNumber) < aws.ToInt32(completed[j].PartNumber)
	})

	_, err = completeMultipartUpload(ctx, c.cli, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(key),
		UploadId: uploadID,
		MultipartUpload: &types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		abort()
		return fmt.Errorf("complete multipart upload: %w", err)
	}

	c.log.Info(ctx, "object uploaded", "key", key, "size", size, "parts", len(completed))
	return nil
}

// UploadStream stores data read from r under key. Size must be known up
// front; the whole stream goes through a single PutObject.
func (c *Client) UploadStream(ctx context.Context, r io.Reader, size int64, key string, contentType string) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := putObject(ctx, c.cli, in); err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}
