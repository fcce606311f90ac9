// Package links persists temporary download-link capability tokens.
package links

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// Repository is the persistence contract for download links.
type Repository interface {
	// Create generates a fresh random link id, persists the record and
	// returns the id. maxAccess of models.UnlimitedAccess disables the cap.
	Create(ctx context.Context, fileID string, createdBy int64, expiresAt *time.Time, maxAccess int64) (string, error)

	// Resolve returns the link joined with its file while the link is still
	// eligible: not expired and below its access cap. Expired, exhausted and
	// never-existed links are all common.ErrNotFound so callers cannot
	// distinguish them.
	Resolve(ctx context.Context, linkID string) (*models.ResolvedLink, error)

	// IncrementAccess bumps the link's access counter while it is still
	// below the cap. A link that is missing or already at its cap yields
	// common.ErrNotFound.
	IncrementAccess(ctx context.Context, linkID string) error
}
