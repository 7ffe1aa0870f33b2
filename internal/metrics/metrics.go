package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records reservation engine activity: per-operation attempts,
// version conflicts, terminal outcomes, and the cancellation inconsistency
// counter that backs alerting.
type EngineMetrics struct {
	attempts        *prometheus.CounterVec
	conflicts       *prometheus.CounterVec
	outcomes        *prometheus.CounterVec
	inconsistencies prometheus.Counter
	duration        *prometheus.HistogramVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
// A nil registerer yields a no-op instance, which keeps tests and wiring code
// free of nil checks.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_attempts_total",
		Help: "Conditional write attempts per engine operation.",
	}, []string{"op"})
	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_version_conflicts_total",
		Help: "Conditional writes rejected due to a stale inventory version.",
	}, []string{"op"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reservation_outcomes_total",
		Help: "Terminal outcomes per engine operation.",
	}, []string{"op", "outcome"})
	inconsistencies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reservation_cancel_inconsistencies_total",
		Help: "Cancellations where seats were credited but the status flip failed.",
	})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reservation_op_duration_seconds",
		Help:    "Duration of engine operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	reg.MustRegister(attempts, conflicts, outcomes, inconsistencies, duration)
	return &EngineMetrics{
		attempts:        attempts,
		conflicts:       conflicts,
		outcomes:        outcomes,
		inconsistencies: inconsistencies,
		duration:        duration,
	}
}

func (m *EngineMetrics) IncAttempt(op string) {
	if m == nil || m.attempts == nil {
		return
	}
	m.attempts.WithLabelValues(op).Inc()
}

func (m *EngineMetrics) IncConflict(op string) {
	if m == nil || m.conflicts == nil {
		return
	}
	m.conflicts.WithLabelValues(op).Inc()
}

func (m *EngineMetrics) IncOutcome(op, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(op, outcome).Inc()
}

func (m *EngineMetrics) IncInconsistency() {
	if m == nil || m.inconsistencies == nil {
		return
	}
	m.inconsistencies.Inc()
}

func (m *EngineMetrics) ObserveDuration(op string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(op).Observe(d.Seconds())
}
