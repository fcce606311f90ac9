package models

import "time"

// ShareRecord grants a second user visibility into a FileRecord. Only the
// uploader of a file may create one. A record with a past expiration is
// invisible to all queries.
type ShareRecord struct {
	ID               int64
	FileID           string
	SharedWithUserID int64
	SharedByUserID   int64
	// PermissionLevel is "read"; no other level is produced.
	PermissionLevel string
	SharedDate      time.Time
	ExpiresAt       *time.Time
	AccessCount     int64
}

// SharedFile is the join of a share with the file it refers to, as returned
// by the shared-with listing.
type SharedFile struct {
	FileRecord
	PermissionLevel string
	SharedDate      time.Time
	SharedByUserID  int64
}
