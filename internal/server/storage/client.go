// Package storage wraps an S3-compatible object store: uploads (single-shot
// and multipart), downloads, presigned URL generation and housekeeping.
// Operations that probe the store (TestConnection, StatObject, DeleteObject)
// report success flags instead of raising; transfer operations return errors
// for the orchestrator to classify.
package storage

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/fileport/internal/logging"
	sc "github.com/dmitrijs2005/fileport/internal/server/config"
)

const (
	// multipartThreshold is the size above which uploads switch to the
	// multipart strategy. partSize is the fixed chunk size; the last part
	// may be smaller.
	multipartThreshold = 100 * 1024 * 1024
	partSize           = 100 * 1024 * 1024

	// Timeouts sized for multi-gigabyte transfers.
	connectTimeout = 60 * time.Second
	readTimeout    = 300 * time.Second

	defaultDownloadTTL  = time.Hour
	defaultStreamingTTL = 24 * time.Hour
)

// SDK entry points as package-level vars so tests can stub the network.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	headBucket = func(ctx context.Context, c *s3.Client, in *s3.HeadBucketInput) (*s3.HeadBucketOutput, error) {
		return c.HeadBucket(ctx, in)
	}
	headObject = func(ctx context.Context, c *s3.Client, in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
		return c.HeadObject(ctx, in)
	}
	deleteObject = func(ctx context.Context, c *s3.Client, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
	putObject = func(ctx context.Context, c *s3.Client, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	getObject = func(ctx context.Context, c *s3.Client, in *s3.GetObjectInput) (*s3.GetObjectOutput, error) {
		return c.GetObject(ctx, in)
	}
	createMultipartUpload = func(ctx context.Context, c *s3.Client, in *s3.CreateMultipartUploadInput) (*s3.CreateMultipartUploadOutput, error) {
		return c.CreateMultipartUpload(ctx, in)
	}
	uploadPart = func(ctx context.Context, c *s3.Client, in *s3.UploadPartInput) (*s3.UploadPartOutput, error) {
		return c.UploadPart(ctx, in)
	}
	completeMultipartUpload = func(ctx context.Context, c *s3.Client, in *s3.CompleteMultipartUploadInput) (*s3.CompleteMultipartUploadOutput, error) {
		return c.CompleteMultipartUpload(ctx, in)
	}
	abortMultipartUpload = func(ctx context.Context, c *s3.Client, in *s3.AbortMultipartUploadInput) (*s3.AbortMultipartUploadOutput, error) {
		return c.AbortMultipartUpload(ctx, in)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// Client is a process-wide, concurrency-safe handle to one bucket.
type Client struct {
	bucket  string
	cli     *s3.Client
	presign *s3.PresignClient
	log     logging.Logger
}

// New builds a Client from server configuration. The underlying SDK client
// applies its own transparent retry policy; no extra retry loop is added here.
func New(ctx context.Context, cfg *sc.Config, log logging.Logger) (*Client, error) {
	httpClient := &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   connectTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConnsPerHost: 100,
		},
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)),
		awsconfig.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, err
	}

	cli := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return &Client{
		bucket:  cfg.S3Bucket,
		cli:     cli,
		presign: newS3PresignClient(cli),
		log:     log.With("component", "storage"),
	}, nil
}

// TestConnection issues a lightweight existence check against the configured
// bucket. Any transport or auth failure yields false, never an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := headBucket(ctx, c.cli, &s3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		c.log.Warn(ctx, "bucket connection test failed", "error", err)
		return false
	}
	return true
}

// ObjectInfo is the subset of object metadata surfaced by StatObject.
type ObjectInfo struct {
	Size         int64
	LastModified time.Time
	ContentType  string
	ETag         string
}

// StatObject returns metadata for key, or ok=false when the object is absent
// or the store is unreachable.
func (c *Client) StatObject(ctx context.Context, key string) (*ObjectInfo, bool) {
	out, err := headObject(ctx, c.cli, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.log.Debug(ctx, "stat object failed", "key", key, "error", err)
		return nil, false
	}

	info := &ObjectInfo{
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}
	if out.LastModified != nil {
		info.LastModified = *out.LastModified
	}
	return info, true
}

// DeleteObject removes key from the bucket, best effort.
func (c *Client) DeleteObject(ctx context.Context, key string) bool {
	_, err := deleteObject(ctx, c.cli, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		c.log.Warn(ctx, "delete object failed", "key", key, "error", err)
		return false
	}
	return true
}
