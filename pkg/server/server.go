// Package server provides the public and management HTTP servers with
// graceful startup and shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/nimburion/correlation/pkg/observability/logger"
	"github.com/nimburion/correlation/pkg/server/router"
)

// DefaultShutdownTimeout bounds how long Shutdown waits for in-flight requests.
const DefaultShutdownTimeout = 30 * time.Second

// Server wraps http.Server with configurable timeouts and graceful lifecycle management.
type Server struct {
	router router.Router
	logger logger.Logger
	config Config

	mu         sync.Mutex
	httpServer *http.Server
	addr       string
	ready      chan struct{}
	started    bool
}

// ErrAlreadyStarted is returned by Start on a server that is running or
// has already run.
var ErrAlreadyStarted = errors.New("server already started")

// Config holds configuration for the HTTP server.
// Port 0 picks a free port; Addr reports it once the server is listening.
type Config struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// NewServer creates a new Server instance with the provided configuration.
func NewServer(cfg Config, r router.Router, log logger.Logger) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return &Server{
		router: r,
		logger: log,
		config: cfg,
		ready:  make(chan struct{}),
	}
}

// Start listens on the configured port and serves until ctx is cancelled,
// then shuts down gracefully. A listen failure is returned immediately.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.mu.Unlock()

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.config.Port))
	if err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return fmt.Errorf("server failed to start: %w", err)
	}

	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.mu.Lock()
	s.httpServer = srv
	s.addr = ln.Addr().String()
	close(s.ready)
	s.mu.Unlock()

	s.logger.Info("starting server", "addr", s.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Ready is closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the listening address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Router returns the router served by s.
func (s *Server) Router() router.Router {
	return s.router
}

// Shutdown stops accepting connections and waits for in-flight requests,
// at most ShutdownTimeout.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, addr := s.httpServer, s.addr
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("shutting down server", "addr", addr)

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server shutdown complete", "addr", addr)
	return nil
}
