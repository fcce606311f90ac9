// Package web exposes the public HTTP surface: temporary-link redemption,
// streaming redirects, the external-player page payload and a small read-only
// JSON API over public files.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrijs2005/fileport/internal/logging"
)

// NewRouter wires the public routes. All endpoints are anonymous; visibility
// is enforced by the access service, which sees these requests as having no
// requester.
func NewRouter(access AccessProvider, log logging.Logger) http.Handler {
	h := &Handler{access: access, log: log.With("component", "web")}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(requestLogger(h.log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", h.Health)
	r.Get("/d/{linkID}", h.RedeemLink)
	r.Get("/stream/{fileID}", h.Stream)
	r.Get("/player/{fileID}", h.Player)
	r.Get("/api/files", h.ListFiles)
	r.Get("/api/file/{fileID}", h.GetFile)

	return r
}

func requestLogger(log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Info(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
			)
		})
	}
}
