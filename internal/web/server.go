// Package web provides the kiosk HTTP server.
package web

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/attendance-kiosk/internal/config"
	"github.com/kozaktomas/attendance-kiosk/internal/kiosk"
	"github.com/kozaktomas/attendance-kiosk/internal/metrics"
	"github.com/kozaktomas/attendance-kiosk/internal/web/middleware"
)

// Server represents the kiosk web server.
type Server struct {
	config     *config.Config
	service    *kiosk.Service
	metrics    *metrics.Metrics
	router     *chi.Mux
	httpServer *http.Server

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a new web server around the orchestrator service.
func NewServer(cfg *config.Config, service *kiosk.Service, met *metrics.Metrics, port int, host string) *Server {
	r := chi.NewRouter()

	s := &Server{
		config:     cfg,
		service:    service,
		metrics:    met,
		router:     r,
		shutdownCh: make(chan struct{}),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS())
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Printf("Starting web server on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down web server...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// RequestShutdown signals the serve loop to terminate. Triggered by the
// authenticated shutdown endpoint.
func (s *Server) RequestShutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// ShutdownRequested returns a channel closed when an admin-initiated
// shutdown has been requested.
func (s *Server) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

// Router returns the chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
