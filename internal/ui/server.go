// Package ui provides the web dashboard for LeapDash.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/leapdash/internal/ui/router"
	"github.com/leapstack-labs/leapdash/internal/workspace"
	"golang.org/x/sync/errgroup"
)

// Server is the main UI server.
type Server struct {
	registry     *workspace.Registry
	sessionStore *sessions.CookieStore
	port         int
	isDev        bool
	logger       *slog.Logger
}

// Config holds configuration for the UI server.
type Config struct {
	Registry      *workspace.Registry
	Port          int
	SessionSecret string
	SessionMaxAge time.Duration
	IsDev         bool
	Logger        *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	maxAge := cfg.SessionMaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(int(maxAge.Seconds()))
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		registry:     cfg.Registry,
		sessionStore: sessionStore,
		port:         cfg.Port,
		isDev:        cfg.IsDev,
		logger:       logger,
	}
}

// Handler builds the HTTP handler with all routes and middleware.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	if err := router.SetupRoutes(r, s.registry, s.sessionStore, s.logger, s.isDev); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Addr returns the browser URL of the server.
func (s *Server) Addr() string {
	return fmt.Sprintf("http://localhost:%d", s.port)
}

// Serve starts the UI server and blocks until the context is cancelled.
// Workspaces are closed on the way out.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	s.logger.Info("starting UI server", "addr", s.Addr())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		// Ends open SSE streams so Shutdown does not wait on them.
		s.registry.Close()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether dev-only routes such as hot reload are enabled.
func (s *Server) IsDev() bool {
	return s.isDev
}
