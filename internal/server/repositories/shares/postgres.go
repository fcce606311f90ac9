package shares

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/models"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/files"
)

// PostgresRepository implements share storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, fileID string, sharedWith, sharedBy int64, permission string, expiresAt *time.Time) (int64, error) {
	query := `
		INSERT INTO shared_files (file_id, shared_with_user_id, shared_by_user_id, permission_level, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query, fileID, sharedWith, sharedBy, permission, expiresAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) ListSharedWith(ctx context.Context, userID int64) ([]*models.SharedFile, error) {
	query := `
		SELECT f.file_id, f.source_file_id, f.storage_key, f.original_name, f.file_size, f.mime_type,
			f.description, f.tags, f.uploader_id, f.uploader_username, f.is_public, f.upload_date,
			f.download_count, f.media_width, f.media_height, f.media_duration,
			sf.permission_level, sf.shared_date, sf.shared_by_user_id
		FROM files f
		JOIN shared_files sf ON f.file_id = sf.file_id
		WHERE sf.shared_with_user_id = $1
		AND (sf.expires_at IS NULL OR sf.expires_at > now())
		ORDER BY sf.shared_date DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select shared files: %w", err)
	}
	defer rows.Close()

	var result []*models.SharedFile
	for rows.Next() {
		var (
			item          models.SharedFile
			tags          string
			width, height sql.NullInt64
			duration      sql.NullInt64
		)
		err := rows.Scan(
			&item.FileID, &item.SourceFileID, &item.StorageKey, &item.OriginalName, &item.FileSize, &item.MimeType,
			&item.Description, &tags, &item.UploaderID, &item.UploaderUsername, &item.IsPublic, &item.UploadDate,
			&item.DownloadCount, &width, &height, &duration,
			&item.PermissionLevel, &item.SharedDate, &item.SharedByUserID,
		)
		if err != nil {
			return nil, err
		}
		item.Tags = files.SplitTags(tags)
		item.Width = intPtr(width)
		item.Height = intPtr(height)
		item.Duration = intPtr(duration)
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
