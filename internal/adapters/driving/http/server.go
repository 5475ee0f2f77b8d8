package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sievelabs/sieve-core/internal/core/ports/driving"
	"github.com/sievelabs/sieve-core/internal/metrics"
	"github.com/sievelabs/sieve-core/internal/runtime"
)

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	router          *http.ServeMux
	version         string
	logger          *slog.Logger
	shutdownTimeout time.Duration

	// Services
	searchService     driving.SearchService
	collectionService driving.CollectionService // nil when no queue is configured
	exporter          driving.MetadataExporter

	// Infrastructure
	backends *runtime.Backends
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	AllowedOrigins []string

	// WriteTimeout must outlast a full aggregation: paced catalog
	// sweeps legitimately hold a response open for minutes.
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		Version:         "dev",
		AllowedOrigins:  []string{"*"},
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    180 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	searchService driving.SearchService,
	collectionService driving.CollectionService, // can be nil
	exporter driving.MetadataExporter,
	backends *runtime.Backends,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 180 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		logger:            logger.With("component", "http"),
		shutdownTimeout:   cfg.ShutdownTimeout,
		searchService:     searchService,
		collectionService: collectionService,
		exporter:          exporter,
		backends:          backends,
	}

	s.setupRoutes()

	// Middleware wraps the whole mux: recovery outermost so panics in
	// the other layers are caught too.
	recovery := NewRecoveryMiddleware(s.logger)
	logging := NewRequestLogger(s.logger)
	cors := NewCORSMiddleware(cfg.AllowedOrigins)
	handler := recovery.Handler(metrics.Middleware(logging.Handler(cors.Handler(s.router))))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Prometheus metrics
	s.router.Handle("GET /metrics", promhttp.Handler())

	// Dataset search endpoints
	s.router.HandleFunc("GET /api/v1/datasets/search", s.handleSearchByKeyword)
	s.router.HandleFunc("POST /api/v1/datasets/search", s.handleSearch)
	s.router.HandleFunc("POST /api/v1/datasets/columns", s.handleSearchByColumns)

	// Dataset export and download endpoints
	s.router.HandleFunc("POST /api/v1/datasets/export", s.handleExport)
	s.router.HandleFunc("POST /api/v1/datasets/download", s.handleDownload)

	// Bulk collection endpoints
	s.router.HandleFunc("POST /api/v1/collections", s.handleEnqueueCollection)
	s.router.HandleFunc("GET /api/v1/collections/{id}", s.handleCollectionStatus)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	// Channel to listen for OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		s.logger.Info("starting server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	<-stop
	s.logger.Info("shutting down server")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
