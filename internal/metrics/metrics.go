package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// newMetrics creates and registers all metrics
func newMetrics() *Metrics {
	return &Metrics{
		syncRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "chart_mirror",
				Name:      "sync_runs_total",
				Help:      "Total number of sync runs by outcome",
			},
			[]string{"status"},
		),

		syncDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "chart_mirror",
				Name:      "sync_duration_seconds",
				Help:      "Duration of sync runs in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),

		lastSync: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "chart_mirror",
				Name:      "last_sync_timestamp",
				Help:      "Timestamp of the last successful sync run",
			},
		),

		chartsFetched: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chart_mirror",
				Name:      "charts_fetched_total",
				Help:      "Total number of chart archives downloaded",
			},
		),

		chartsSkipped: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chart_mirror",
				Name:      "charts_skipped_total",
				Help:      "Total number of chart archives already present locally",
			},
		),

		chartWarnings: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: "chart_mirror",
				Name:      "chart_warnings_total",
				Help:      "Total number of charts skipped for having no usable versions",
			},
		),

		serverUptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "chart_mirror",
				Name:      "server_uptime_seconds",
				Help:      "Time since the server started in seconds",
			},
		),
	}
}

// Helper functions for recording metrics
func (m *Metrics) recordRun(status string, duration time.Duration) {
	m.syncRuns.WithLabelValues(status).Inc()
	if status == "success" {
		m.syncDuration.Observe(duration.Seconds())
		m.lastSync.SetToCurrentTime()
	}
}

func (m *Metrics) recordCharts(fetched, skipped, warned int) {
	m.chartsFetched.Add(float64(fetched))
	m.chartsSkipped.Add(float64(skipped))
	m.chartWarnings.Add(float64(warned))
}

func (m *Metrics) updateUptimeMetric(startTime time.Time) {
	m.serverUptime.Set(time.Since(startTime).Seconds())
}
