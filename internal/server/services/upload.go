package services

import (
	"context"
	"database/sql"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/filex"
	"github.com/dmitrijs2005/fileport/internal/logging"
	"github.com/dmitrijs2005/fileport/internal/server/models"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/repomanager"
)

const (
	// MaxUploadSize is the hard per-file cap. Checked before any network call.
	MaxUploadSize = 4 * 1024 * 1024 * 1024

	// unnamedFile substitutes for an empty original name in the storage key.
	unnamedFile = "unnamed"

	fallbackMimeType = "application/octet-stream"

	progressInterval = 2 * time.Second
)

// Uploader identifies who is sending a file.
type Uploader struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// InboundFile describes a file staged on local disk awaiting relay to the
// object store. LocalPath is consumed: it is removed when Upload returns,
// whatever the outcome.
type InboundFile struct {
	LocalPath    string
	SourceFileID string
	DeclaredSize int64
	OriginalName string
	MimeType     string
	Description  string
	Tags         []string
	IsPublic     bool

	Uploader Uploader

	Width    *int
	Height   *int
	Duration *int
}

// UploadService relays staged files into the object store and records their
// metadata.
type UploadService struct {
	db    *sql.DB
	repo  repomanager.RepositoryManager
	store ObjectStorage
	log   logging.Logger
}

func NewUploadService(db *sql.DB, repo repomanager.RepositoryManager, store ObjectStorage, log logging.Logger) *UploadService {
	return &UploadService{
		db:    db,
		repo:  repo,
		store: store,
		log:   log.With("component", "upload"),
	}
}

// Upload relays the staged file to the object store and, once the bytes are
// durable, persists its metadata record. The record is written only after a
// fully successful upload; if the insert then fails, the stored object is
// deleted best effort so no unreferenced object survives.
func (s *UploadService) Upload(ctx context.Context, in *InboundFile) (*models.FileRecord, error) {
	defer filex.RemoveQuietly(in.LocalPath)

	size := in.DeclaredSize
	if size <= 0 {
		var err error
		size, err = filex.FileSize(in.LocalPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrInvalid, err)
		}
	}
	if size > MaxUploadSize {
		return nil, fmt.Errorf("%w: file size %d exceeds %d byte limit", common.ErrInvalid, size, int64(MaxUploadSize))
	}

	s.recordUploader(ctx, in.Uploader)

	fileID := uuid.New().String()
	name := in.OriginalName
	if name == "" {
		name = unnamedFile
	}
	key := fmt.Sprintf("files/%s/%s", fileID, name)

	mimeType := in.MimeType
	if mimeType == "" {
		mimeType = mime.TypeByExtension(filepath.Ext(name))
	}
	if mimeType == "" {
		mimeType = fallbackMimeType
	}

	onProgress := throttleProgress(progressInterval, func(n int64) {
		s.log.Info(ctx, "upload progress", "file_id", fileID, "bytes", n, "total", size)
	})

	if err := s.store.Upload(ctx, in.LocalPath, key, mimeType, onProgress); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	rec := &models.FileRecord{
		FileID:           fileID,
		SourceFileID:     in.SourceFileID,
		StorageKey:       key,
		OriginalName:     in.OriginalName,
		FileSize:         size,
		MimeType:         mimeType,
		Description:      in.Description,
		Tags:             in.Tags,
		UploaderID:       in.Uploader.ID,
		UploaderUsername: in.Uploader.Username,
		IsPublic:         in.IsPublic,
		Width:            in.Width,
		Height:           in.Height,
		Duration:         in.Duration,
	}

	if _, err := s.repo.Files(s.db).Create(ctx, rec); err != nil {
		if !s.store.DeleteObject(ctx, key) {
			s.log.Error(ctx, "orphaned object left in storage", "key", key)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrPersistenceUnavailable, err)
	}

	s.log.Info(ctx, "file uploaded", "file_id", fileID, "key", key, "size", size, "uploader_id", in.Uploader.ID)
	return rec, nil
}

// recordUploader refreshes the uploader's user row. Failures are logged and
// do not block the upload.
func (s *UploadService) recordUploader(ctx context.Context, u Uploader) {
	err := s.repo.Users(s.db).Upsert(ctx, &models.UserRecord{
		UserID:       u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		StorageLimit: models.DefaultStorageLimit,
	})
	if err != nil {
		s.log.Warn(ctx, "user upsert failed", "user_id", u.ID, "error", err)
	}
}
