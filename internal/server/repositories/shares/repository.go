// Package shares persists per-user file share grants.
package shares

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// Repository is the persistence contract for share records.
type Repository interface {
	// Create records a share grant and returns its id. Ownership is checked
	// by the service layer; the repository only persists.
	Create(ctx context.Context, fileID string, sharedWith, sharedBy int64, permission string, expiresAt *time.Time) (int64, error)

	// ListSharedWith returns non-expired shares for userID joined with their
	// files, newest share first. Expired shares are treated as absent.
	ListSharedWith(ctx context.Context, userID int64) ([]*models.SharedFile, error)
}
