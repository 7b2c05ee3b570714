package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"udscan/internal/ownership"
)

// Metrics holds the Prometheus metrics of a scan run. Each instance owns its
// registry so a run can be pushed as a unit.
type Metrics struct {
	registry       *prometheus.Registry
	Lookups        *prometheus.CounterVec
	HashDuration   prometheus.Histogram
	LookupDuration prometheus.Histogram
}

// New creates a new Metrics instance with all scan metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "udscan_lookups_total",
			Help: "Total number of candidate lookups by outcome",
		}, []string{"outcome"}),
		HashDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "udscan_hash_duration_seconds",
			Help:    "Duration of identifier hashing per candidate",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		LookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "udscan_lookup_duration_seconds",
			Help:    "Duration of ownerOf calls against the registry",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// IncrementOutcome records one finished lookup.
func (m *Metrics) IncrementOutcome(outcome ownership.Outcome) {
	m.Lookups.WithLabelValues(string(outcome)).Inc()
}

// ObserveHash records the duration of a hash call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveHash(start time.Time) {
	m.HashDuration.Observe(time.Since(start).Seconds())
}

// ObserveLookup records the duration of an ownerOf call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLookup(start time.Time) {
	m.LookupDuration.Observe(time.Since(start).Seconds())
}

// Push sends the run's metrics to a Pushgateway, grouped by run ID.
func (m *Metrics) Push(ctx context.Context, url, job, runID string) error {
	return push.New(url, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
}
