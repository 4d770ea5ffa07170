// Package httpapi is the public HTTP surface: account endpoints, media
// upload and retrieval, and a health probe.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/media"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/services"
)

type Uploader interface {
	Upload(ctx context.Context, req media.UploadRequest) (*models.Post, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, username string, postID int64, format media.Format) (*media.Asset, error)
}

type Accounts interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.AccessToken, error)
}

type HealthReporter interface {
	Healthy() bool
}

// Deps are the collaborators the handlers call into.
type Deps struct {
	Uploader      Uploader
	Fetcher       Fetcher
	Accounts      Accounts
	Health        HealthReporter
	Logger        logging.Logger
	SecretKey     []byte
	MaxUploadSize int64
}

type Server struct {
	address         string
	deps            Deps
	logger          logging.Logger
	handler         http.Handler
	shutdownTimeout time.Duration
}

func NewServer(address string, shutdownTimeout time.Duration, d Deps) *Server {
	s := &Server{
		address:         address,
		deps:            d,
		logger:          d.Logger.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}
	s.handler = s.routes()
	return s
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler { return s.handler }

// Run serves until ctx is done, then drains in-flight requests for up to
// the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
