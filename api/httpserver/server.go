// Package httpserver exposes the auction registry over HTTP. Callers identify
// themselves with the X-Auction-Caller header; the hosting environment in
// front of this server is responsible for authenticating that identity.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/atomic"
)

// Config contains the HTTP server parameters.
type Config struct {
	// ListenAddr is the address and port to listen on.
	ListenAddr string

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration
}

// Server wraps the chi router and the underlying http.Server.
type Server struct {
	cfg     Config
	srv     *http.Server
	isReady atomic.Bool
}

// New builds a Server routing to the given handler.
func New(cfg Config, handler *Handler) *Server {
	s := &Server{cfg: cfg}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type", CallerHeader},
	}))

	handler.RegisterRoutes(router)

	router.Get("/livez", s.handleLive)
	router.Get("/readyz", s.handleReady)

	s.srv = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	s.isReady.Store(true)
	return s
}

func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.isReady.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Printf("INFO: HTTP server listening on %s", s.cfg.ListenAddr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown marks the server not ready and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.isReady.Store(false)
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Printf("INFO: HTTP server stopped")
	return nil
}
