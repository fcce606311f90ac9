package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// PostgresRepository implements user storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, user *models.UserRecord) error {
	query := `
		INSERT INTO users (user_id, username, first_name, last_name)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			last_active = now()
	`
	_, err := r.db.ExecContext(ctx, query,
		user.UserID, user.Username, user.FirstName, user.LastName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID int64) (*models.UserRecord, error) {
	query := `
		SELECT user_id, username, first_name, last_name, is_premium,
			storage_used, storage_limit, joined_date, last_active
		FROM users
		WHERE user_id = $1
	`
	user := &models.UserRecord{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.UserID, &user.Username, &user.FirstName, &user.LastName, &user.IsPremium,
		&user.StorageUsed, &user.StorageLimit, &user.JoinedDate, &user.LastActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}
