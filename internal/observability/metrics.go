// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the dashboard service.
type Metrics struct {
	// Cycle metrics
	CyclesTotal   *prometheus.CounterVec
	TicksSkipped  prometheus.Counter
	CycleDuration prometheus.Histogram

	// Ingestion metrics
	RecordsParsed prometheus.Counter
	RowsRejected  prometheus.Counter

	// Snapshot metrics
	SystemsTracked prometheus.Gauge
	OpenPositions  prometheus.Gauge
	TimelineLength prometheus.Gauge
	LastCycleTime  prometheus.Gauge
}

// Cycle outcome labels for CyclesTotal.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeTimeout    = "timeout"
)

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trading_dashboard"
	}

	return &Metrics{
		CyclesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycles_total",
			Help:      "Total number of poll cycles by outcome",
		}, []string{"outcome"}),
		TicksSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "ticks_skipped_total",
			Help:      "Total number of ticks dropped because a cycle was still running",
		}),
		CycleDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of one full poll cycle",
			Buckets:   prometheus.DefBuckets,
		}),
		RecordsParsed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "records_parsed_total",
			Help:      "Total number of valid telemetry records parsed",
		}),
		RowsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "rows_rejected_total",
			Help:      "Total number of malformed CSV rows dropped",
		}),
		SystemsTracked: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "systems_tracked",
			Help:      "Number of systems in the latest snapshot's equity view",
		}),
		OpenPositions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "open_positions",
			Help:      "Number of open positions in the latest snapshot",
		}),
		TimelineLength: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "snapshot",
			Name:      "timeline_length",
			Help:      "Number of equity timeline positions in the latest snapshot",
		}),
		LastCycleTime: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "poller",
			Name:      "last_successful_cycle_timestamp_seconds",
			Help:      "Unix timestamp of the last successful poll cycle",
		}),
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
