// Package services implements the application's use cases on top of the
// repositories and the object store: upload orchestration, link generation,
// share management and the temporary-link capability flow.
package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fileport/internal/server/storage"
)

// ObjectStorage is the slice of the storage client the services depend on.
// Declared here so tests can substitute a fake.
type ObjectStorage interface {
	Upload(ctx context.Context, localPath string, key string, contentType string, onProgress storage.ProgressFunc) error
	DeleteObject(ctx context.Context, key string) bool
	PresignedDownloadURL(ctx context.Context, key string, fileName string, ttl time.Duration) (string, error)
	PresignedStreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	MXPlayerURL(ctx context.Context, key string) (string, error)
	VLCURL(ctx context.Context, key string) (string, error)
}

// throttleProgress wraps fn so it fires at most once per interval. The final
// byte count is not guaranteed to be reported; progress here is informational.
func throttleProgress(interval time.Duration, fn storage.ProgressFunc) storage.ProgressFunc {
	var last time.Time
	return func(n int64) {
		now := time.Now()
		if now.Sub(last) < interval {
			return
		}
		last = now
		fn(n)
	}
}
