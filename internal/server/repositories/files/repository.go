// Package files persists file metadata records.
package files

import (
	"context"

	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// Repository is the persistence contract for file records. Implementations
// map a missing row to common.ErrNotFound and never raise for absence.
type Repository interface {
	// Create inserts a new record and returns its file id. A file-id
	// collision surfaces as a constraint-violation error.
	Create(ctx context.Context, file *models.FileRecord) (string, error)

	// GetByFileID returns the record for fileID or common.ErrNotFound.
	GetByFileID(ctx context.Context, fileID string) (*models.FileRecord, error)

	// ListByUploader returns the uploader's files, newest upload first.
	ListByUploader(ctx context.Context, uploaderID int64, limit, offset int) ([]*models.FileRecord, error)

	// Search matches records visible to userID (their own or public; public
	// only when userID is nil) whose name contains the query as a
	// case-insensitive substring or whose tag set contains the query exactly.
	Search(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error)

	// IncrementDownloadCount atomically bumps the download counter. A missing
	// file is a silent no-op, not an error.
	IncrementDownloadCount(ctx context.Context, fileID string) error
}
