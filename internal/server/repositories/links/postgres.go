package links

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/models"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/files"
)

// PostgresRepository implements download-link storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, fileID string, createdBy int64, expiresAt *time.Time, maxAccess int64) (string, error) {
	linkID := uuid.New().String()

	query := `
		INSERT INTO download_links (link_id, file_id, created_by, expires_at, max_access)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query, linkID, fileID, createdBy, expiresAt, maxAccess)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return linkID, nil
}

func (r *PostgresRepository) Resolve(ctx context.Context, linkID string) (*models.ResolvedLink, error) {
	// Eligibility is part of the query: an expired or exhausted link is
	// indistinguishable from one that never existed.
	query := `
		SELECT f.file_id, f.source_file_id, f.storage_key, f.original_name, f.file_size, f.mime_type,
			f.description, f.tags, f.uploader_id, f.uploader_username, f.is_public, f.upload_date,
			f.download_count, f.media_width, f.media_height, f.media_duration,
			dl.link_id, dl.access_count, dl.max_access, dl.expires_at
		FROM files f
		JOIN download_links dl ON f.file_id = dl.file_id
		WHERE dl.link_id = $1
		AND (dl.expires_at IS NULL OR dl.expires_at > now())
		AND (dl.max_access = -1 OR dl.access_count < dl.max_access)
	`
	var (
		item          models.ResolvedLink
		tags          string
		width, height sql.NullInt64
		duration      sql.NullInt64
		linkExpires   sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, linkID).Scan(
		&item.FileID, &item.SourceFileID, &item.StorageKey, &item.OriginalName, &item.FileSize, &item.MimeType,
		&item.Description, &tags, &item.UploaderID, &item.UploaderUsername, &item.IsPublic, &item.UploadDate,
		&item.DownloadCount, &width, &height, &duration,
		&item.LinkID, &item.AccessCount, &item.MaxAccess, &linkExpires,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	item.Tags = files.SplitTags(tags)
	item.Width = intPtr(width)
	item.Height = intPtr(height)
	item.Duration = intPtr(duration)
	if linkExpires.Valid {
		t := linkExpires.Time
		item.LinkExpiresAt = &t
	}
	return &item, nil
}

func (r *PostgresRepository) IncrementAccess(ctx context.Context, linkID string) error {
	// The cap predicate is repeated here: under READ COMMITTED two
	// concurrent redemptions can both pass Resolve, but the one that loses
	// the row lock re-evaluates this WHERE clause and updates zero rows, so
	// access_count never exceeds max_access.
	query := `
		UPDATE download_links SET access_count = access_count + 1
		WHERE link_id = $1
		AND (max_access = -1 OR access_count < max_access)
	`
	res, err := r.db.ExecContext(ctx, query, linkID)
	if err != nil {
		return fmt.Errorf("failed to increment link access: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to increment link access: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
