// Package server initializes and runs the file relay server.
// It opens the database, applies migrations, connects the object storage
// client, wires the services and serves the public HTTP surface until the
// process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/fileport/internal/logging"
	"github.com/dmitrijs2005/fileport/internal/server/config"
	"github.com/dmitrijs2005/fileport/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fileport/internal/server/services"
	"github.com/dmitrijs2005/fileport/internal/server/storage"
	"github.com/dmitrijs2005/fileport/internal/server/web"
)

type App struct {
	config *config.Config
	logger logging.Logger

	db    *sql.DB
	store *storage.Client

	uploadService *services.UploadService
	accessService *services.AccessService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if !store.TestConnection(ctx) {
		logger.Warn(ctx, "object storage is not reachable, uploads will fail until it recovers")
	}

	us := services.NewUploadService(db, rm, store, logger)
	as := services.NewAccessService(db, rm, store, cfg.PublicHost, logger)

	return &App{
		config:        cfg,
		logger:        logger,
		db:            db,
		store:         store,
		uploadService: us,
		accessService: as,
	}, nil
}

// UploadService exposes the upload orchestrator to transports built on top of
// the app (chat front-ends and the like).
func (app *App) UploadService() *services.UploadService { return app.uploadService }

// AccessService exposes link generation and listings.
func (app *App) AccessService() *services.AccessService { return app.accessService }

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:              app.config.EndpointAddrHTTP,
		Handler:           web.NewRouter(app.accessService, app.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddrHTTP)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
