// Package ui provides the local web console.
package ui

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/msdcl/nlq-console/internal/api"
	"github.com/msdcl/nlq-console/internal/session"
	"github.com/msdcl/nlq-console/internal/ui/notifier"
)

// Server serves the browser console.
type Server struct {
	client       *api.Client
	store        *session.Store
	sessionStore *sessions.CookieStore
	runner       *session.Runner
	port         int
	logger       *slog.Logger
	notifier     *notifier.Notifier
}

// Config holds configuration for the console server.
type Config struct {
	Client        *api.Client
	Store         *session.Store
	Port          int
	SessionSecret string
	Logger        *slog.Logger
}

// NewServer creates a console server. Store mutations trigger an SSE
// ping to every connected browser.
func NewServer(cfg Config) *Server {
	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &Server{
		client:       cfg.Client,
		store:        cfg.Store,
		sessionStore: sessionStore,
		runner:       session.NewRunner(cfg.Store, cfg.Client, logger),
		port:         cfg.Port,
		logger:       logger,
		notifier:     notifier.New(),
	}
	s.store.OnChange(s.notifier.Broadcast)
	return s
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting console server", "addr", fmt.Sprintf("http://localhost:%d", s.port))

	eg, egctx := errgroup.WithContext(ctx)

	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down console server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
