package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/logging"
	"github.com/dmitrijs2005/fileport/internal/server/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// AccessProvider is the slice of the access service the web surface uses.
type AccessProvider interface {
	FileInfo(ctx context.Context, fileID string, requesterID *int64) (*models.FileRecord, error)
	StreamingLink(ctx context.Context, fileID string, requesterID *int64) (string, error)
	PlayerLink(ctx context.Context, kind string, fileID string, requesterID *int64) (string, error)
	ResolveTemporaryLink(ctx context.Context, linkID string) (string, error)
	SearchFiles(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error)
}

// Handler carries the dependencies shared by all route handlers.
type Handler struct {
	access AccessProvider
	log    logging.Logger
}

// fileView is the JSON shape of a file record on the public API.
type fileView struct {
	FileID           string    `json:"file_id"`
	OriginalName     string    `json:"original_name"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	Description      string    `json:"description,omitempty"`
	Tags             []string  `json:"tags,omitempty"`
	UploaderUsername string    `json:"uploader_username,omitempty"`
	UploadDate       time.Time `json:"upload_date"`
	DownloadCount    int64     `json:"download_count"`
	Width            *int      `json:"width,omitempty"`
	Height           *int      `json:"height,omitempty"`
	Duration         *int      `json:"duration,omitempty"`
	Streamable       bool      `json:"streamable"`
}

func toFileView(f *models.FileRecord) *fileView {
	return &fileView{
		FileID:           f.FileID,
		OriginalName:     f.OriginalName,
		FileSize:         f.FileSize,
		MimeType:         f.MimeType,
		Description:      f.Description,
		Tags:             f.Tags,
		UploaderUsername: f.UploaderUsername,
		UploadDate:       f.UploadDate,
		DownloadCount:    f.DownloadCount,
		Width:            f.Width,
		Height:           f.Height,
		Duration:         f.Duration,
		Streamable:       f.Streamable(),
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error(context.Background(), "response encode failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	// The surface is anonymous, so a denied private file answers like a
	// missing one and does not reveal its existence.
	case errors.Is(err, common.ErrNotFound), errors.Is(err, common.ErrDenied):
		h.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, common.ErrNotStreamable):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is not streamable"})
	case errors.Is(err, common.ErrInvalid):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request"})
	case errors.Is(err, common.ErrStorageUnavailable):
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "storage unavailable"})
	default:
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// RedeemLink resolves a temporary download link and redirects the client to
// the presigned URL. Expired, exhausted and unknown links all answer 404.
func (h *Handler) RedeemLink(w http.ResponseWriter, r *http.Request) {
	linkID := chi.URLParam(r, "linkID")

	u, err := h.access.ResolveTemporaryLink(r.Context(), linkID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

// Stream redirects to a presigned streaming URL for a public media file.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	u, err := h.access.StreamingLink(r.Context(), fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}

// Player returns everything an external-player page needs in one payload.
func (h *Handler) Player(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")
	ctx := r.Context()

	f, err := h.access.FileInfo(ctx, fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}

	streamURL, err := h.access.StreamingLink(ctx, fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	mxURL, err := h.access.PlayerLink(ctx, "mx", fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	vlcURL, err := h.access.PlayerLink(ctx, "vlc", fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"file":          toFileView(f),
		"streaming_url": streamURL,
		"mx_url":        mxURL,
		"vlc_url":       vlcURL,
	})
}

// ListFiles searches public files by name substring or exact tag.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("search")

	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, common.ErrInvalid)
			return
		}
		limit = n
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	found, err := h.access.SearchFiles(r.Context(), query, nil, limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	views := make([]*fileView, 0, len(found))
	for _, f := range found {
		views = append(views, toFileView(f))
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"files": views, "count": len(views)})
}

// GetFile returns public metadata for one file.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileID")

	f, err := h.access.FileInfo(r.Context(), fileID, nil)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toFileView(f))
}
