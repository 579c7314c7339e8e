// Package server exposes the extraction pipeline over HTTP: an upload
// endpoint returning voter records, Prometheus metrics, and a WebSocket
// progress feed.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rollscan/rollscan/internal/pipeline"
)

// Config holds the HTTP server settings.
type Config struct {
	Host        string `mapstructure:"host" yaml:"host" json:"host"`
	Port        int    `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`

	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig returns server defaults.
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		Port:            8080,
		MaxUploadMB:     64,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate checks the server settings.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MaxUploadMB <= 0 {
		return errors.New("max upload size must be positive")
	}
	return nil
}

// Server serves extraction requests over HTTP.
type Server struct {
	cfg      Config
	pipeline *pipeline.Pipeline
	progress *progressHub
	httpSrv  *http.Server
}

// New creates a server around an already-built pipeline. The server
// does not own the pipeline; the caller closes it after shutdown.
func New(cfg Config, p *pipeline.Pipeline) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server config: %w", err)
	}
	s := &Server{
		cfg:      cfg,
		pipeline: p,
		progress: newProgressHub(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.healthHandler)
	mux.HandleFunc("/v1/extract", s.withMetrics(s.extractHandler))
	mux.HandleFunc("/v1/progress", s.progressHandler)
	mux.Handle("/metrics", promhttp.Handler())

	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpSrv.Addr }

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", s.httpSrv.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.progress.closeAll()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
