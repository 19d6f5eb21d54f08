// Package server runs the hederad HTTP surface: JSON-RPC, health probes and
// Prometheus metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goHederad/internal/config"
	"github.com/LeJamon/goHederad/internal/observability"
)

// Server serves the HTTP endpoints until its context is cancelled.
type Server struct {
	cfg     config.ServerConfig
	addr    string
	handler http.Handler
	health  *observability.HealthChecker
	logger  zerolog.Logger
}

// New creates a server listening on addr. rpc is mounted on / and /rpc,
// metrics from gatherer on /metrics.
func New(addr string, cfg config.ServerConfig, rpc http.Handler, health *observability.HealthChecker, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/", rpc)
	mux.Handle("/rpc", rpc)
	mux.HandleFunc("/healthz", health.LivenessHandler)
	mux.HandleFunc("/readyz", health.ReadinessHandler)
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return &Server{
		cfg:     cfg,
		addr:    addr,
		handler: mux,
		health:  health,
		logger:  logger,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("Server listening")
		s.health.SetReady(true)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.health.SetReady(false)

		timeout := s.cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		s.logger.Info().Msg("Shutting down server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
