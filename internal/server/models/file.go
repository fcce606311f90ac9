// Package models defines server-side data models persisted in the database.
package models

import (
	"strings"
	"time"
)

// FileRecord describes one stored object: its storage pointer, descriptive
// metadata, ownership and the download counter. Rows are created once on
// successful upload completion and never updated except for the counter.
type FileRecord struct {
	// FileID is the opaque, stable identifier generated at upload time.
	FileID string
	// SourceFileID is the identifier the originating transport assigned to
	// the file. Kept for reference only; never used for lookup.
	SourceFileID string

	// StorageKey is the object-storage key ("files/<file-id>/<name>").
	// It is the only pointer to the stored bytes.
	StorageKey string

	OriginalName string
	FileSize     int64
	MimeType     string
	Description  string
	Tags         []string

	UploaderID       int64
	UploaderUsername string
	// IsPublic gates anonymous access; defaults to true.
	IsPublic bool

	UploadDate    time.Time
	DownloadCount int64

	// Media hints, populated only for video/photo/audio sources.
	Width    *int
	Height   *int
	Duration *int
}

// Streamable reports whether the record's MIME type allows a streaming link.
func (f *FileRecord) Streamable() bool {
	return strings.HasPrefix(f.MimeType, "video/") || strings.HasPrefix(f.MimeType, "audio/")
}
