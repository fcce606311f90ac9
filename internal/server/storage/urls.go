package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	// Objects are immutable once written, so download responses may be
	// cached for up to a year.
	downloadCacheControl  = "max-age=31536000"
	streamingCacheControl = "max-age=86400"

	streamingContentType = "application/octet-stream"

	mxPlayerPackage = "com.mxtech.videoplayer.ad"
)

// PresignedDownloadURL returns a time-limited URL that forces an attachment
// download of key. A non-positive ttl falls back to one hour. fileName, when
// set, becomes the suggested save-as name.
func (c *Client) PresignedDownloadURL(ctx context.Context, key string, fileName string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultDownloadTTL
	}

	in := &s3.GetObjectInput{
		Bucket:               aws.String(c.bucket),
		Key:                  aws.String(key),
		ResponseCacheControl: aws.String(downloadCacheControl),
	}
	if fileName != "" {
		in.ResponseContentDisposition = aws.String(fmt.Sprintf("attachment; filename=%q", fileName))
	} else {
		in.ResponseContentDisposition = aws.String("attachment")
	}

	req, err := presignGetObject(c.presign, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign download url: %w", err)
	}
	return req.URL, nil
}

// PresignedStreamingURL returns a time-limited URL tuned for media players:
// inline delivery with a generic binary content type so players probe the
// container themselves. When presigning with response overrides fails, it
// falls back to a plain download URL rather than returning nothing.
func (c *Client) PresignedStreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultStreamingTTL
	}

	in := &s3.GetObjectInput{
		Bucket:               aws.String(c.bucket),
		Key:                  aws.String(key),
		ResponseCacheControl: aws.String(streamingCacheControl),
		ResponseContentType:  aws.String(streamingContentType),
	}

	req, err := presignGetObject(c.presign, ctx, in, s3.WithPresignExpires(ttl))
	if err != nil {
		c.log.Warn(ctx, "streaming presign failed, falling back to download url", "key", key, "error", err)
		return c.PresignedDownloadURL(ctx, key, "", ttl)
	}
	return req.URL, nil
}

// MXPlayerURL wraps a streaming URL in an Android intent that opens MX Player
// directly.
func (c *Client) MXPlayerURL(ctx context.Context, key string) (string, error) {
	u, err := c.PresignedStreamingURL(ctx, key, defaultStreamingTTL)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("intent:%s#Intent;package=%s;end", u, mxPlayerPackage), nil
}

// VLCURL wraps a streaming URL in the vlc:// scheme handled by the VLC
// mobile apps.
func (c *Client) VLCURL(ctx context.Context, key string) (string, error) {
	u, err := c.PresignedStreamingURL(ctx, key, defaultStreamingTTL)
	if err != nil {
		return "", err
	}
	return "vlc://" + u, nil
}
