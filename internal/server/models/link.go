package models

import "time"

// UnlimitedAccess is the max-access sentinel meaning a download link may be
// resolved any number of times.
const UnlimitedAccess = -1

// DownloadLinkRecord is a single-purpose capability token: the unguessable
// link identifier itself is the authorization. A link resolves only while
// it is not expired and its access count is below the maximum.
type DownloadLinkRecord struct {
	ID          int64
	LinkID      string
	FileID      string
	CreatedBy   int64
	CreatedAt   time.Time
	ExpiresAt   *time.Time
	AccessCount int64
	MaxAccess   int64
}

// ResolvedLink is a download link joined with its target file, as returned by
// link resolution.
type ResolvedLink struct {
	FileRecord
	LinkID        string
	AccessCount   int64
	MaxAccess     int64
	LinkExpiresAt *time.Time
}
