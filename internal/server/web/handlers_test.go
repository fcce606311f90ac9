package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fileport/internal/common"
	"github.com/dmitrijs2005/fileport/internal/logging"
	"github.com/dmitrijs2005/fileport/internal/server/models"
)

type fakeAccess struct {
	file    *models.FileRecord
	fileErr error

	streamingURL string
	streamingErr error

	mxURL     string
	vlcURL    string
	playerErr error

	resolvedURL string
	resolveErr  error

	found       []*models.FileRecord
	searchErr   error
	lastQuery   string
	lastLimit   int
	lastUserNil bool
}

func (f *fakeAccess) FileInfo(ctx context.Context, fileID string, requesterID *int64) (*models.FileRecord, error) {
	return f.file, f.fileErr
}

func (f *fakeAccess) StreamingLink(ctx context.Context, fileID string, requesterID *int64) (string, error) {
	return f.streamingURL, f.streamingErr
}

func (f *fakeAccess) PlayerLink(ctx context.Context, kind string, fileID string, requesterID *int64) (string, error) {
	if f.playerErr != nil {
		return "", f.playerErr
	}
	if kind == "mx" {
		return f.mxURL, nil
	}
	return f.vlcURL, nil
}

func (f *fakeAccess) ResolveTemporaryLink(ctx context.Context, linkID string) (string, error) {
	return f.resolvedURL, f.resolveErr
}

func (f *fakeAccess) SearchFiles(ctx context.Context, query string, userID *int64, limit int) ([]*models.FileRecord, error) {
	f.lastQuery = query
	f.lastLimit = limit
	f.lastUserNil = userID == nil
	return f.found, f.searchErr
}

func newTestServer(access AccessProvider) *httptest.Server {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return httptest.NewServer(NewRouter(access, log))
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := client.Get(url)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeAccess{})
	defer srv.Close()

	resp := get(t, srv.URL+"/health")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"status": "healthy"}, decodeBody(t, resp))
}

func TestRedeemLink_Redirects(t *testing.T) {
	srv := newTestServer(&fakeAccess{resolvedURL: "https://s3.example.com/presigned"})
	defer srv.Close()

	resp := get(t, srv.URL+"/d/link-123")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://s3.example.com/presigned", resp.Header.Get("Location"))
}

func TestRedeemLink_NotFound(t *testing.T) {
	srv := newTestServer(&fakeAccess{resolveErr: common.ErrNotFound})
	defer srv.Close()

	resp := get(t, srv.URL+"/d/expired")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", decodeBody(t, resp)["error"])
}

func TestStream_Redirects(t *testing.T) {
	srv := newTestServer(&fakeAccess{streamingURL: "https://s3.example.com/stream"})
	defer srv.Close()

	resp := get(t, srv.URL+"/stream/f1")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://s3.example.com/stream", resp.Header.Get("Location"))
}

func TestStream_NotStreamable(t *testing.T) {
	srv := newTestServer(&fakeAccess{streamingErr: common.ErrNotStreamable})
	defer srv.Close()

	resp := get(t, srv.URL+"/stream/f1")

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "file is not streamable", decodeBody(t, resp)["error"])
}

func TestPlayer(t *testing.T) {
	srv := newTestServer(&fakeAccess{
		file:         &models.FileRecord{FileID: "f1", OriginalName: "movie.mp4", MimeType: "video/mp4"},
		streamingURL: "https://s3.example.com/stream",
		mxURL:        "intent:u#Intent;end",
		vlcURL:       "vlc://u",
	})
	defer srv.Close()

	resp := get(t, srv.URL+"/player/f1")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "https://s3.example.com/stream", body["streaming_url"])
	assert.Equal(t, "intent:u#Intent;end", body["mx_url"])
	assert.Equal(t, "vlc://u", body["vlc_url"])

	file, ok := body["file"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "f1", file["file_id"])
	assert.Equal(t, true, file["streamable"])
}

func TestListFiles(t *testing.T) {
	access := &fakeAccess{
		found: []*models.FileRecord{
			{FileID: "f1", OriginalName: "a.mp4", MimeType: "video/mp4"},
			{FileID: "f2", OriginalName: "b.pdf", MimeType: "application/pdf"},
		},
	}
	srv := newTestServer(access)
	defer srv.Close()

	resp := get(t, srv.URL+"/api/files?search=movie&limit=10")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, "movie", access.lastQuery)
	assert.Equal(t, 10, access.lastLimit)
	assert.True(t, access.lastUserNil)
}

func TestListFiles_LimitValidation(t *testing.T) {
	access := &fakeAccess{}
	srv := newTestServer(access)
	defer srv.Close()

	resp := get(t, srv.URL+"/api/files?limit=bogus")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = get(t, srv.URL+"/api/files?limit=5000")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, maxListLimit, access.lastLimit)
}

func TestGetFile(t *testing.T) {
	srv := newTestServer(&fakeAccess{
		file: &models.FileRecord{FileID: "f1", OriginalName: "a.mp4", MimeType: "video/mp4", FileSize: 123},
	})
	defer srv.Close()

	resp := get(t, srv.URL+"/api/file/f1")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "f1", body["file_id"])
	assert.Equal(t, float64(123), body["file_size"])
}

func TestGetFile_PrivateAnswersNotFound(t *testing.T) {
	srv := newTestServer(&fakeAccess{fileErr: common.ErrDenied})
	defer srv.Close()

	resp := get(t, srv.URL+"/api/file/private")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not found", decodeBody(t, resp)["error"])
}

func TestGetFile_NotFound(t *testing.T) {
	srv := newTestServer(&fakeAccess{fileErr: common.ErrNotFound})
	defer srv.Close()

	resp := get(t, srv.URL+"/api/file/missing")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decodeBody(t, resp)
}
