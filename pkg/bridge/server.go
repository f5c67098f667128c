package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"testlab-hq/macrolink/pkg/config"
	"testlab-hq/macrolink/pkg/journal"
	"testlab-hq/macrolink/pkg/macromap"
	"testlab-hq/macrolink/pkg/telemetry/metrics"
)

// Server is the HTTP bridge server.
type Server struct {
	config       *config.BridgeConfig
	metricsCfg   *config.MetricsConfig
	handlers     *Handlers
	registry     *prometheus.Registry
	logger       *slog.Logger
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options bundles the dependencies of a bridge server. Manager is
// required; the rest may be nil.
type Options struct {
	// Manager provides the active document generation.
	Manager *macromap.Manager

	// Storage backs the journal query endpoint.
	Storage journal.Storage

	// Recorder records translation journal entries.
	Recorder *journal.Recorder

	// Metrics records translation metrics.
	Metrics *metrics.TranslationMetrics

	// Registry serves the /metrics endpoint when the metrics config
	// enables it.
	Registry *prometheus.Registry

	// Logger is the structured logger; nil uses slog.Default().
	Logger *slog.Logger
}

// NewServer creates a bridge server.
func NewServer(cfg *config.BridgeConfig, metricsCfg *config.MetricsConfig, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		config:       cfg,
		metricsCfg:   metricsCfg,
		handlers:     NewHandlers(opts.Manager, opts.Storage, opts.Recorder, opts.Metrics, logger),
		registry:     opts.Registry,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting bridge server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("bridge server stopped")
	})

	return shutdownErr
}

// Stop requests shutdown from another goroutine.
func (s *Server) Stop() {
	select {
	case <-s.shutdownChan:
	default:
		close(s.shutdownChan)
	}
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler with the full middleware
// chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/translate", s.handlers.Translate)
	mux.HandleFunc("/v1/parse", s.handlers.Parse)
	mux.HandleFunc("/v1/resolve", s.handlers.Resolve)
	mux.HandleFunc("/v1/reload", s.handlers.Reload)
	mux.HandleFunc("/v1/journal", s.handlers.Journal)
	mux.HandleFunc("/healthz", s.handlers.Health)
	mux.HandleFunc("/readyz", s.handlers.Ready)

	if s.metricsCfg != nil && s.metricsCfg.Enabled && s.registry != nil {
		mux.Handle(s.metricsCfg.Path, metrics.Handler(s.registry))
	}

	var handler http.Handler = mux
	handler = LoggingMiddleware(s.logger)(handler)
	handler = TraceIDMiddleware(handler)
	handler = RecoveryMiddleware(s.logger)(handler)

	return handler
}
