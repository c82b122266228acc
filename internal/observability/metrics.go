package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "canopix"

// Metrics holds the Prometheus counters, histograms, and gauges for the alert pipeline.
type Metrics struct {
	FetchesTotal   *prometheus.CounterVec   // labels: source, status
	FetchDuration  *prometheus.HistogramVec // labels: source
	RecordsSkipped *prometheus.CounterVec   // labels: source
	AlertsServed   prometheus.Gauge

	// Snapshot feed and export.
	StaleCommits       prometheus.Counter
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter
	RefresherRunning   prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Alert fetches by source and resulting status.",
		}, []string{"source", "status"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Duration of an upstream alert fetch including parsing.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"source"}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Upstream records dropped as malformed or out of bounds.",
		}, []string{"source"}),
		AlertsServed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "alerts_served",
			Help:      "Number of alerts in the latest committed snapshot.",
		}),
		StaleCommits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_commits_total",
			Help:      "Fetch results discarded because a newer fetch was already committed.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Snapshots written to the export sink.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Snapshot export failures.",
		}),
		RefresherRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresher_running",
			Help:      "1 when the background refresher is active, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchesTotal,
		m.FetchDuration,
		m.RecordsSkipped,
		m.AlertsServed,
		m.StaleCommits,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.RefresherRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
