package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcogenualdo/taddoist/internal/auth"
	"github.com/marcogenualdo/taddoist/internal/auth/google"
	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/marcogenualdo/taddoist/internal/session"
	"github.com/marcogenualdo/taddoist/internal/store"
	"github.com/marcogenualdo/taddoist/internal/todoist"
)

// Deps are the collaborators built by the caller.
type Deps struct {
	Store      store.Store
	Google     *auth.Flow[*google.Token]
	Todoist    *auth.Flow[string]
	Sessions   *session.Manager
	TodoistAPI *todoist.Factory
}

type Server struct {
	cfg        config.Config
	deps       Deps
	logger     *slog.Logger
	httpServer *http.Server
}

func New(cfg config.Config, deps Deps, logger *slog.Logger) (*Server, error) {
	if deps.Store == nil || deps.Google == nil || deps.Todoist == nil || deps.Sessions == nil || deps.TodoistAPI == nil {
		return nil, errors.New("server dependencies are incomplete")
	}

	return &Server{
		cfg:    cfg,
		deps:   deps,
		logger: logger,
	}, nil
}

func (s *Server) Start() error {
	router, err := s.setupRoutes()
	if err != nil {
		return fmt.Errorf("failed to setup routes: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server",
			"host", s.cfg.Server.Host,
			"port", s.cfg.Server.Port,
			"base_url", s.cfg.Server.BaseURL,
			"version", s.cfg.Version,
		)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig)
		return s.Shutdown()
	}
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			return err
		}
	}

	if err := s.deps.Store.Close(); err != nil {
		s.logger.Error("error closing store", "error", err)
	}

	s.logger.Info("server shutdown complete")
	return nil
}
