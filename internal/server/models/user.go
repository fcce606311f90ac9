package models

import "time"

// DefaultStorageLimit is the informational per-user storage quota (2 GiB).
// It is recorded but not enforced by any access path.
const DefaultStorageLimit = 2 << 30

// UserRecord is one row per distinct chat identity seen. It is upserted on
// every inbound interaction; updates touch only display fields and
// last-active time.
type UserRecord struct {
	UserID    int64
	Username  string
	FirstName string
	LastName  string

	IsPremium    bool
	StorageUsed  int64
	StorageLimit int64

	JoinedDate time.Time
	LastActive time.Time
}
