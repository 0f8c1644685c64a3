package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the consent engine. Counters track the
// mutating ledger operations; the gauge mirrors the open-alert backlog.
type Metrics struct {
	ConsentsCreated  prometheus.Counter
	ConsentsRevoked  prometheus.Counter
	ReportsGenerated prometheus.Counter
	OpenAlerts       prometheus.Gauge
	SeedDuration     prometheus.Histogram
}

// New creates a Metrics instance with all engine metrics registered.
func New() *Metrics {
	return &Metrics{
		ConsentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rdc30_consents_created_total",
			Help: "Total number of consent records created",
		}),
		ConsentsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rdc30_consents_revoked_total",
			Help: "Total number of consent records revoked",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rdc30_reports_generated_total",
			Help: "Total number of regulatory reports generated",
		}),
		OpenAlerts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "rdc30_alerts_open",
			Help: "Current number of unacknowledged alerts",
		}),
		SeedDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "rdc30_seed_duration_seconds",
			Help:    "Duration of deterministic store seeding",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveSeed records the duration of a seeding run.
// Call with time.Now() captured at the start of the run.
func (m *Metrics) ObserveSeed(start time.Time) {
	m.SeedDuration.Observe(time.Since(start).Seconds())
}
