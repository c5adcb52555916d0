// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/catalog"
)

// Server is the HTTP front of the hub. It owns the listener and wires the
// JSON-RPC handler, the SSE stream endpoint, card discovery and health.
type Server struct {
	addr    string
	manager *Manager
	catalog *catalog.Catalog
	card    *CardBuilder
	handler *Handler
	logger  *slog.Logger

	httpServer *http.Server

	readTimeout     time.Duration
	shutdownTimeout time.Duration
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCardBuilder sets the agent card metadata served at the well-known
// discovery path.
func WithCardBuilder(b *CardBuilder) ServerOption {
	return func(s *Server) {
		s.card = b
	}
}

// WithReadTimeout sets the HTTP read header timeout.
func WithReadTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.readTimeout = d
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = d
	}
}

// NewServer creates a Server listening on addr, dispatching to the given
// manager and advertising the catalog's agents.
func NewServer(addr string, manager *Manager, cat *catalog.Catalog, opts ...ServerOption) (*Server, error) {
	if manager == nil {
		return nil, fmt.Errorf("manager cannot be nil")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog cannot be nil")
	}

	s := &Server{
		addr:    addr,
		manager: manager,
		catalog: cat,
		card: &CardBuilder{
			Name:    "agenthub",
			URL:     fmt.Sprintf("http://%s%s", addr, agenthub.RPCPath),
			Version: "0.1.0",
		},
		logger:          slog.Default(),
		readTimeout:     10 * time.Second,
		shutdownTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.handler = NewHandler(manager, s.logger)

	mux := http.NewServeMux()
	mux.Handle(agenthub.RPCPath, s.handler)
	mux.HandleFunc(agenthub.StreamPath, s.handler.ServeStream)
	mux.HandleFunc(agenthub.AgentCardWellKnownPath, cardHandler(s.card, cat))
	mux.HandleFunc(agenthub.HealthPath, s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: s.readTimeout,
	}
	return s, nil
}

// Handler returns the root HTTP handler, for embedding in another mux or
// driving with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully. The task retention sweeper runs for the same lifetime.
func (s *Server) Start(ctx context.Context) error {
	s.manager.StartSweeper(ctx, 0)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", slog.String("addr", s.addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"status":"ok","agents":%d}`, s.catalog.Len())
}
