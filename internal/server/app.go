// Package server initializes and runs the recipeshare API server.
// It selects the storage and image backends, applies migrations, handles
// graceful shutdown and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/recipeshare/internal/logging"
	"github.com/dmitrijs2005/recipeshare/internal/server/config"
	"github.com/dmitrijs2005/recipeshare/internal/server/external"
	"github.com/dmitrijs2005/recipeshare/internal/server/httpapi"
	"github.com/dmitrijs2005/recipeshare/internal/server/images"
	"github.com/dmitrijs2005/recipeshare/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/recipeshare/internal/server/services"
)

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, c.LogFormat, c.Debug)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	switch c.StorageBackend {
	case config.StorageMemory:
		rm = repomanager.NewInMemoryRepositoryManager()
	case config.StoragePostgres:
		var err error
		if db, err = openDB(c.DatabaseDSN); err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newImageStore(ctx, c)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	us := services.NewUserService(db, rm, c)
	rs := services.NewRecipeService(db, rm, store, logger)
	ext := external.NewClient(c.ExternalAPIBaseURL, logger)

	srv := httpapi.NewHTTPServer(c, logger, us, rs, ext)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func newImageStore(ctx context.Context, c *config.Config) (images.Store, error) {
	switch c.ImageBackend {
	case config.ImagesS3:
		s, err := images.NewS3Store(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("s3 init error: %w", err)
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("s3 bucket error: %w", err)
		}
		return s, nil
	case config.ImagesDisk:
		s, err := images.NewDiskStore(c.UploadsDir, "/uploads")
		if err != nil {
			return nil, fmt.Errorf("uploads dir error: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown image backend %q", c.ImageBackend)
	}
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "images", app.config.ImageBackend)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	closeDB(app.db)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}
	return err
}
