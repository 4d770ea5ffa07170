// Package server wires the postmedia components together and runs the HTTP
// API, the gRPC health endpoint and the database health monitor until the
// process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/postmedia/internal/dbx"
	"github.com/dmitrijs2005/postmedia/internal/filex"
	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/blob"
	"github.com/dmitrijs2005/postmedia/internal/server/config"
	"github.com/dmitrijs2005/postmedia/internal/server/health"
	"github.com/dmitrijs2005/postmedia/internal/server/httpapi"
	"github.com/dmitrijs2005/postmedia/internal/server/identity"
	"github.com/dmitrijs2005/postmedia/internal/server/media"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/postmedia/internal/server/services"

	gs "github.com/dmitrijs2005/postmedia/internal/server/grpc"
)

// Objects of the filesystem backend live relative to the working directory,
// so UploadDir and DefaultAssetPath read as ordinary paths.
const fsRoot = "."

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
	monitor    *health.Monitor
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(logging.Config{Level: c.LogLevel, Format: c.LogFormat})

	dialect, err := dbx.ParseDialect(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := dbx.Open(ctx, dialect, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := newApp(ctx, c, logger, dialect, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, dialect dbx.Dialect, db *sql.DB) (*App, error) {
	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	if err != nil {
		return nil, err
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newBlobStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	us, err := services.NewUserService(db, rm, c)
	if err != nil {
		return nil, err
	}

	ident := identity.NewProvider(rm.Users(db))
	posts := rm.Posts(db)
	monitor := health.NewMonitor(db, c.HealthCheckInterval, logger)

	hs := httpapi.NewServer(c.EndpointAddrHTTP, c.ShutdownTimeout, httpapi.Deps{
		Uploader:      media.NewIngestor(ident, posts, store, c.UploadDir, logger),
		Fetcher:       media.NewRetriever(ident, posts, store, c.DefaultAssetPath, media.FetchPolicy(c.FetchPolicy), logger),
		Accounts:      us,
		Health:        monitor,
		Logger:        logger,
		SecretKey:     []byte(c.SecretKey),
		MaxUploadSize: c.MaxUploadSize,
	})

	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger)
	monitor.Subscribe(grpcServer.SetServing)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: hs,
		grpcServer: grpcServer,
		monitor:    monitor,
	}, nil
}

// media.BlobStore is satisfied by both backends.
func newBlobStore(ctx context.Context, c *config.Config) (media.BlobStore, error) {
	switch c.BlobBackend {
	case config.BlobBackendS3:
		return blob.NewS3Store(ctx, blob.S3Config{
			Bucket:       c.S3Bucket,
			Region:       c.S3Region,
			BaseEndpoint: c.S3BaseEndpoint,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
		})
	default:
		store, err := blob.NewFSStore(fsRoot)
		if err != nil {
			return nil, err
		}
		// The upload directory exists from startup, before the first upload.
		if _, err := filex.EnsureDir(filepath.Join(store.Root(), filepath.FromSlash(c.UploadDir))); err != nil {
			return nil, err
		}
		return store, nil
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// runComponent runs fn and cancels the whole app when it fails.
func (app *App) runComponent(ctx context.Context, cancelFunc context.CancelFunc, name string, fn func(context.Context) error) {
	if err := fn(ctx); err != nil {
		app.logger.Error(ctx, "component failed", "component", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a termination signal arrives or one of
// the servers fails, then waits for every component to stop.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.runComponent(ctx, cancelFunc, "health_monitor", app.monitor.Run)
	}()
	go func() {
		defer wg.Done()
		app.runComponent(ctx, cancelFunc, "grpc_server", app.grpcServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runComponent(ctx, cancelFunc, "http_server", app.httpServer.Run)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
