package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/models"
)

// fileColumns is the full column list in scan order. Tags are stored as a
// comma-joined string; string_to_array reconstructs the set on the SQL side
// for exact-tag matching.
const fileColumns = `file_id, source_file_id, storage_key, original_name, file_size, mime_type,
	description, tags, uploader_id, uploader_username, is_public, upload_date,
	download_count, media_width, media_height, media_duration`

// PostgresRepository implements file metadata storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, file *models.FileRecord) (string, error) {
	query := `
		INSERT INTO files (file_id, source_file_id, storage_key, original_name, file_size,
			mime_type, description, tags, uploader_id, uploader_username, is_public,
			media_width, media_height, media_duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING file_id
	`
	var fileID string
	err := r.db.QueryRowContext(ctx, query,
		file.FileID, file.SourceFileID, file.StorageKey, file.OriginalName, file.FileSize,
		file.MimeType, file.Description, joinTags(file.Tags), file.UploaderID,
		file.UploaderUsername, file.IsPublic,
		nullableInt(file.Width), nullableInt(file.Height), nullableInt(file.Duration),
	).Scan(&fileID)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return fileID, nil
}

func (r *PostgresRepository) GetByFileID(ctx context.Context, fileID string) (*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE file_id = $1`

	file, err := scanFile(r.db.QueryRowContext(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

func (r *PostgresRepository) ListByUploader(ctx context.Context, uploaderID int64, limit, offset int) ([]*models.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files
		WHERE uploader_id = $1
		ORDER BY upload_date DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, uploaderID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func (r *PostgresRepository) Search(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error) {
	pattern := "%" + query + "%"

	var (
		rows *sql.Rows
		err  error
	)
	if userID != nil {
		q := `SELECT ` + fileColumns + ` FROM files
			WHERE (uploader_id = $1 OR is_public = TRUE)
			AND (original_name ILIKE $2 OR $3 = ANY(string_to_array(tags, ',')))
			ORDER BY upload_date DESC
			LIMIT $4`
		rows, err = r.db.QueryContext(ctx, q, *userID, pattern, query, limit)
	} else {
		q := `SELECT ` + fileColumns + ` FROM files
			WHERE is_public = TRUE
			AND (original_name ILIKE $1 OR $2 = ANY(string_to_array(tags, ',')))
			ORDER BY upload_date DESC
			LIMIT $3`
		rows, err = r.db.QueryContext(ctx, q, pattern, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search files: %w", err)
	}
	defer rows.Close()

	return collectFiles(rows)
}

func (r *PostgresRepository) IncrementDownloadCount(ctx context.Context, fileID string) error {
	query := `UPDATE files SET download_count = download_count + 1 WHERE file_id = $1`

	// Zero rows affected means the file vanished between resolution and
	// increment; the counter race is tolerated silently.
	if _, err := r.db.ExecContext(ctx, query, fileID); err != nil {
		return fmt.Errorf("failed to increment download count: %w", err)
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanFile(row rowScanner) (*models.FileRecord, error) {
	var (
		f             models.FileRecord
		tags          string
		width, height sql.NullInt64
		duration      sql.NullInt64
	)
	err := row.Scan(
		&f.FileID, &f.SourceFileID, &f.StorageKey, &f.OriginalName, &f.FileSize, &f.MimeType,
		&f.Description, &tags, &f.UploaderID, &f.UploaderUsername, &f.IsPublic, &f.UploadDate,
		&f.DownloadCount, &width, &height, &duration,
	)
	if err != nil {
		return nil, err
	}
	f.Tags = SplitTags(tags)
	f.Width = intPtr(width)
	f.Height = intPtr(height)
	f.Duration = intPtr(duration)
	return &f, nil
}

func collectFiles(rows *sql.Rows) ([]*models.FileRecord, error) {
	var result []*models.FileRecord
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

// SplitTags decodes the stored comma-joined tag set. Exported because the
// share and link repositories reuse it when scanning joined file rows.
func SplitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func nullableInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
