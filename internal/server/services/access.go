package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/dbx"
	"github.com/dmitrijs2005/fileport/internal/logging"
	"github.com/dmitrijs2005/fileport/internal/server/models"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/repomanager"
)

// Player kinds accepted by PlayerLink.
const (
	PlayerMX  = "mx"
	PlayerVLC = "vlc"
)

const defaultLinkTTL = 24 * time.Hour

// TemporaryLink is a freshly minted capability URL for one file.
type TemporaryLink struct {
	LinkID    string
	URL       string
	ExpiresAt *time.Time
	MaxAccess int64
}

// AccessService turns stored files into URLs: direct downloads, streaming and
// player links, shares and temporary capability links.
type AccessService struct {
	db         *sql.DB
	repo       repomanager.RepositoryManager
	store      ObjectStorage
	publicHost string
	log        logging.Logger
}

func NewAccessService(db *sql.DB, repo repomanager.RepositoryManager, store ObjectStorage, publicHost string, log logging.Logger) *AccessService {
	return &AccessService{
		db:         db,
		repo:       repo,
		store:      store,
		publicHost: publicHost,
		log:        log.With("component", "access"),
	}
}

// canAccess reports whether requester may reach the file: its uploader
// always, anyone when the file is public.
func canAccess(f *models.FileRecord, requesterID *int64) bool {
	if f.IsPublic {
		return true
	}
	return requesterID != nil && *requesterID == f.UploaderID
}

// getAccessible loads the file and applies the visibility rule. A missing
// file is ErrNotFound; an existing private file requested by anyone but its
// uploader is ErrDenied, so callers can tell the two outcomes apart.
func (s *AccessService) getAccessible(ctx context.Context, fileID string, requesterID *int64) (*models.FileRecord, error) {
	f, err := s.repo.Files(s.db).GetByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !canAccess(f, requesterID) {
		return nil, common.ErrDenied
	}
	return f, nil
}

// FileInfo returns the metadata record if the requester may see it.
func (s *AccessService) FileInfo(ctx context.Context, fileID string, requesterID *int64) (*models.FileRecord, error) {
	return s.getAccessible(ctx, fileID, requesterID)
}

// DownloadLink returns a presigned attachment URL for the file and counts the
// download. The count reflects issued links, not completed transfers.
func (s *AccessService) DownloadLink(ctx context.Context, fileID string, requesterID *int64) (string, error) {
	f, err := s.getAccessible(ctx, fileID, requesterID)
	if err != nil {
		return "", err
	}

	u, err := s.store.PresignedDownloadURL(ctx, f.StorageKey, f.OriginalName, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}

	if err := s.repo.Files(s.db).IncrementDownloadCount(ctx, fileID); err != nil {
		s.log.Warn(ctx, "download count increment failed", "file_id", fileID, "error", err)
	}
	return u, nil
}

// StreamingLink returns a presigned inline URL for audio and video files.
func (s *AccessService) StreamingLink(ctx context.Context, fileID string, requesterID *int64) (string, error) {
	f, err := s.getAccessible(ctx, fileID, requesterID)
	if err != nil {
		return "", err
	}
	if !f.Streamable() {
		return "", fmt.Errorf("%w: mime type %s", common.ErrNotStreamable, f.MimeType)
	}

	u, err := s.store.PresignedStreamingURL(ctx, f.StorageKey, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return u, nil
}

// PlayerLink returns a deep link opening the file in an external mobile
// player. kind is PlayerMX or PlayerVLC.
func (s *AccessService) PlayerLink(ctx context.Context, kind string, fileID string, requesterID *int64) (string, error) {
	f, err := s.getAccessible(ctx, fileID, requesterID)
	if err != nil {
		return "", err
	}
	if !f.Streamable() {
		return "", fmt.Errorf("%w: mime type %s", common.ErrNotStreamable, f.MimeType)
	}

	var u string
	switch kind {
	case PlayerMX:
		u, err = s.store.MXPlayerURL(ctx, f.StorageKey)
	case PlayerVLC:
		u, err = s.store.VLCURL(ctx, f.StorageKey)
	default:
		return "", fmt.Errorf("%w: unknown player %q", common.ErrInvalid, kind)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return u, nil
}

// CreateTemporaryLink mints a capability link for the file. Only the uploader
// may create one. A non-positive ttl defaults to 24h; maxAccess of zero means
// unlimited.
func (s *AccessService) CreateTemporaryLink(ctx context.Context, fileID string, requesterID int64, ttl time.Duration, maxAccess int64) (*TemporaryLink, error) {
	f, err := s.repo.Files(s.db).GetByFileID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if f.UploaderID != requesterID {
		return nil, common.ErrDenied
	}

	if ttl <= 0 {
		ttl = defaultLinkTTL
	}
	expiresAt := time.Now().Add(ttl)

	if maxAccess == 0 {
		maxAccess = models.UnlimitedAccess
	}

	linkID, err := s.repo.Links(s.db).Create(ctx, fileID, requesterID, &expiresAt, maxAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistenceUnavailable, err)
	}

	return &TemporaryLink{
		LinkID:    linkID,
		URL:       fmt.Sprintf("https://%s/d/%s", s.publicHost, linkID),
		ExpiresAt: &expiresAt,
		MaxAccess: maxAccess,
	}, nil
}

// ResolveTemporaryLink redeems a capability link: while the link is eligible
// it yields a presigned download URL and counts one access against the link
// and one download against the file. Eligibility check and counter updates
// run in a single transaction so concurrent redemptions cannot overshoot the
// access cap unnoticed.
func (s *AccessService) ResolveTemporaryLink(ctx context.Context, linkID string) (string, error) {
	var resolved *models.ResolvedLink

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r, err := s.repo.Links(tx).Resolve(ctx, linkID)
		if err != nil {
			return err
		}
		if err := s.repo.Links(tx).IncrementAccess(ctx, r.LinkID); err != nil {
			return err
		}
		if err := s.repo.Files(tx).IncrementDownloadCount(ctx, r.FileID); err != nil {
			return err
		}
		resolved = r
		return nil
	})
	if err != nil {
		return "", err
	}

	u, err := s.store.PresignedDownloadURL(ctx, resolved.StorageKey, resolved.OriginalName, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrStorageUnavailable, err)
	}
	return u, nil
}

// ShareFile grants another user visibility into the file. Only the uploader
// may share.
func (s *AccessService) ShareFile(ctx context.Context, fileID string, requesterID, withUserID int64, expiresAt *time.Time) (int64, error) {
	f, err := s.repo.Files(s.db).GetByFileID(ctx, fileID)
	if err != nil {
		return 0, err
	}
	if f.UploaderID != requesterID {
		return 0, common.ErrDenied
	}

	id, err := s.repo.Shares(s.db).Create(ctx, fileID, withUserID, requesterID, "read", expiresAt)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrPersistenceUnavailable, err)
	}
	return id, nil
}

// ListUserFiles returns the user's own uploads, newest first.
func (s *AccessService) ListUserFiles(ctx context.Context, userID int64, limit, offset int) ([]*models.FileRecord, error) {
	return s.repo.Files(s.db).ListByUploader(ctx, userID, limit, offset)
}

// SearchFiles matches files visible to userID by name substring or exact tag.
// A nil userID searches public files only.
func (s *AccessService) SearchFiles(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error) {
	return s.repo.Files(s.db).Search(ctx, query, userID, limit)
}

// ListSharedWith returns files other users shared with userID.
func (s *AccessService) ListSharedWith(ctx context.Context, userID int64) ([]*models.SharedFile, error) {
	return s.repo.Shares(s.db).ListSharedWith(ctx, userID)
}

// RecordUser refreshes the user row for an inbound chat interaction.
func (s *AccessService) RecordUser(ctx context.Context, user *models.UserRecord) error {
	if user.StorageLimit == 0 {
		user.StorageLimit = models.DefaultStorageLimit
	}
	return s.repo.Users(s.db).Upsert(ctx, user)
}
