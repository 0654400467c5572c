package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/boatyardx/bitnami-helm-repo/internal/sync"
)

// NewServer creates a new metrics server instance
func NewServer(port int, logger *zap.Logger) *Server {
	return &Server{
		metrics:   newMetrics(),
		logger:    logger,
		startTime: time.Now(),
		server: &http.Server{
			Addr: fmt.Sprintf(":%d", port),
		},
	}
}

// Start runs the metrics HTTP server in the background
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", s.healthHandler)
	s.server.Handler = mux

	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("starting metrics server",
			zap.String("address", s.server.Addr))

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("metrics server error: %w", err)
		}
	}()

	// Monitor for errors
	go func() {
		select {
		case err := <-errChan:
			s.logger.Error("metrics server error", zap.Error(err))
		case <-ctx.Done():
			return
		}
	}()

	go s.trackUptime(ctx)

	return nil
}

// Shutdown gracefully stops the metrics server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}

// RecordRun updates the run metrics after one sync attempt. result may be
// nil when the run failed before producing one.
func (s *Server) RecordRun(result *sync.Result, runErr error) {
	if runErr != nil {
		s.metrics.recordRun("failure", 0)
		return
	}
	s.metrics.recordRun("success", result.Duration)
	s.metrics.recordCharts(len(result.Fetched), len(result.Skipped), len(result.Warned))
}

func (s *Server) trackUptime(ctx context.Context) {
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.metrics.updateUptimeMetric(s.startTime)
		}
	}
}

// healthHandler handles health check requests
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
