// Package users persists chat identities seen by the service.
package users

import (
	"context"

	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// Repository is the persistence contract for user records.
type Repository interface {
	// Upsert inserts the user or, on conflict, refreshes display fields and
	// last-active time. Counters and quota fields are left untouched on update.
	Upsert(ctx context.Context, user *models.UserRecord) error

	// GetByUserID returns the record for userID or common.ErrNotFound.
	GetByUserID(ctx context.Context, userID int64) (*models.UserRecord, error)
}
