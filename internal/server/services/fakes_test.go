package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/server/models"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/files"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/links"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/shares"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/users"
	"github.com/dmitrijs2005/fileport/internal/server/storage"
)

// fakeStorage records calls and plays back canned results.
type fakeStorage struct {
	uploadErr     error
	uploadedKeys  []string
	uploadedTypes []string

	deletedKeys []string
	deleteOK    bool

	downloadURL  string
	downloadErr  error
	streamingURL string
	streamingErr error
	mxURL        string
	vlcURL       string
	playerErr    error
}

func (f *fakeStorage) Upload(ctx context.Context, localPath, key, contentType string, onProgress storage.ProgressFunc) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploadedKeys = append(f.uploadedKeys, key)
	f.uploadedTypes = append(f.uploadedTypes, contentType)
	if onProgress != nil {
		onProgress(1)
	}
	return nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) bool {
	f.deletedKeys = append(f.deletedKeys, key)
	return f.deleteOK
}

func (f *fakeStorage) PresignedDownloadURL(ctx context.Context, key, fileName string, ttl time.Duration) (string, error) {
	return f.downloadURL, f.downloadErr
}

func (f *fakeStorage) PresignedStreamingURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return f.streamingURL, f.streamingErr
}

func (f *fakeStorage) MXPlayerURL(ctx context.Context, key string) (string, error) {
	return f.mxURL, f.playerErr
}

func (f *fakeStorage) VLCURL(ctx context.Context, key string) (string, error) {
	return f.vlcURL, f.playerErr
}

type fakeFilesRepo struct {
	created   []*models.FileRecord
	createErr error

	byID   map[string]*models.FileRecord
	getErr error

	listed []*models.FileRecord
	found  []*models.FileRecord

	incremented []string
	incErr      error
}

func (f *fakeFilesRepo) Create(ctx context.Context, file *models.FileRecord) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, file)
	return file.FileID, nil
}

func (f *fakeFilesRepo) GetByFileID(ctx context.Context, fileID string) (*models.FileRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if rec, ok := f.byID[fileID]; ok {
		return rec, nil
	}
	return nil, common.ErrNotFound
}

func (f *fakeFilesRepo) ListByUploader(ctx context.Context, uploaderID int64, limit, offset int) ([]*models.FileRecord, error) {
	return f.listed, nil
}

func (f *fakeFilesRepo) Search(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error) {
	return f.found, nil
}

func (f *fakeFilesRepo) IncrementDownloadCount(ctx context.Context, fileID string) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.incremented = append(f.incremented, fileID)
	return nil
}

type fakeLinksRepo struct {
	createdLinkID string
	createErr     error
	lastExpiresAt *time.Time
	lastMaxAccess int64

	resolved   *models.ResolvedLink
	resolveErr error

	accessIncremented []string
	incrementErr      error
}

func (f *fakeLinksRepo) Create(ctx context.Context, fileID string, createdBy int64, expiresAt *time.Time, maxAccess int64) (string, error) {
	f.lastExpiresAt = expiresAt
	f.lastMaxAccess = maxAccess
	return f.createdLinkID, f.createErr
}

func (f *fakeLinksRepo) Resolve(ctx context.Context, linkID string) (*models.ResolvedLink, error) {
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.resolved, nil
}

func (f *fakeLinksRepo) IncrementAccess(ctx context.Context, linkID string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.accessIncremented = append(f.accessIncremented, linkID)
	return nil
}

type fakeSharesRepo struct {
	createdID int64
	createErr error
	lastWith  int64
	lastPerm  string

	sharedWith []*models.SharedFile
}

func (f *fakeSharesRepo) Create(ctx context.Context, fileID string, sharedWith, sharedBy int64, permission string, expiresAt *time.Time) (int64, error) {
	f.lastWith = sharedWith
	f.lastPerm = permission
	return f.createdID, f.createErr
}

func (f *fakeSharesRepo) ListSharedWith(ctx context.Context, userID int64) ([]*models.SharedFile, error) {
	return f.sharedWith, nil
}

type fakeUsersRepo struct {
	upserted  []*models.UserRecord
	upsertErr error
}

func (f *fakeUsersRepo) Upsert(ctx context.Context, user *models.UserRecord) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, user)
	return nil
}

func (f *fakeUsersRepo) GetByUserID(ctx context.Context, userID int64) (*models.UserRecord, error) {
	return nil, common.ErrNotFound
}

// fakeRepoManager hands out the same fakes regardless of the DBTX, so both
// pool-level and transactional paths hit the same state.
type fakeRepoManager struct {
	files  *fakeFilesRepo
	links  *fakeLinksRepo
	shares *fakeSharesRepo
	users  *fakeUsersRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		files:  &fakeFilesRepo{byID: map[string]*models.FileRecord{}},
		links:  &fakeLinksRepo{},
		shares: &fakeSharesRepo{},
		users:  &fakeUsersRepo{},
	}
}

func (m *fakeRepoManager) Files(db dbx.DBTX) files.Repository   { return m.files }
func (m *fakeRepoManager) Links(db dbx.DBTX) links.Repository   { return m.links }
func (m *fakeRepoManager) Shares(db dbx.DBTX) shares.Repository { return m.shares }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository   { return m.users }
func (m *fakeRepoManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
