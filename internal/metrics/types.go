package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Server exposes mirror run metrics over HTTP in daemon mode
type Server struct {
	metrics   *Metrics
	logger    *zap.Logger
	server    *http.Server
	startTime time.Time
}

// Metrics represents all Prometheus metrics for the mirror
type Metrics struct {
	// Run metrics
	syncRuns     *prometheus.CounterVec
	syncDuration prometheus.Histogram
	lastSync     prometheus.Gauge

	// Per-run chart metrics
	chartsFetched prometheus.Counter
	chartsSkipped prometheus.Counter
	chartWarnings prometheus.Counter

	// Server metrics
	serverUptime prometheus.Gauge
}
