package scan

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for scan coordination.
type Metrics struct {
	ScansTotal   *prometheus.CounterVec
	ScanDuration prometheus.Histogram
	Repositories prometheus.Gauge
}

// NewMetrics creates and registers the scan metrics.
//
// Registration happens once per process via sync.Once to avoid duplicate
// collector registration panics when multiple coordinators are created
// (tests do this). All metrics are prefixed with "repodeck_".
//
// Metrics:
//   - repodeck_scans_total{mode,outcome} - scans by mode and outcome
//   - repodeck_scan_duration_seconds - backend scan call durations
//   - repodeck_repositories - current size of the aggregated collection
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ScansTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "repodeck_scans_total",
					Help: "Total number of scan requests by mode and outcome",
				},
				[]string{"mode", "outcome"}, // outcome: "ok", "error", "conflict", "busy"
			),
			ScanDuration: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "repodeck_scan_duration_seconds",
					Help:    "Duration of backend scan calls",
					Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
				},
			),
			Repositories: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "repodeck_repositories",
					Help: "Current number of repositories in the aggregated collection",
				},
			),
		}
	})
	return globalMetrics
}
