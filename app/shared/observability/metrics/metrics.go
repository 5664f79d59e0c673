// Package metrics exposes the Prometheus instruments shared by the service
// layers. Each module gets an OperationMetrics labelled with its name.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records the lifecycle of a service operation.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)
}

// FinalizeMetrics records finalize-specific outcomes.
type FinalizeMetrics interface {
	OperationMetrics
	RecordEventFinalized(ctx context.Context, participants int)
	RecordParticipantExcluded(ctx context.Context, reason string)
	RecordFinalizeConflict(ctx context.Context)
}

type promOperationMetrics struct {
	module   string
	attempts *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

type promFinalizeMetrics struct {
	*promOperationMetrics
	finalized    prometheus.Counter
	participants prometheus.Histogram
	excluded     *prometheus.CounterVec
	conflicts    prometheus.Counter
}

// Set holds the vectors shared by every module. Construct it once per registry.
type Set struct {
	attempts *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	reg      prometheus.Registerer
}

// NewSet registers the shared operation vectors on reg.
func NewSet(reg prometheus.Registerer) *Set {
	s := &Set{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cup_scorer",
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"module", "operation"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cup_scorer",
			Name:      "operation_outcomes_total",
			Help:      "Service operations finished, by outcome.",
		}, []string{"module", "operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cup_scorer",
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"module", "operation"}),
		reg: reg,
	}
	reg.MustRegister(s.attempts, s.outcomes, s.duration)
	return s
}

// Operations returns the operation metrics for one module.
func (s *Set) Operations(module string) OperationMetrics {
	return &promOperationMetrics{
		module:   module,
		attempts: s.attempts,
		outcomes: s.outcomes,
		duration: s.duration,
	}
}

// Finalize returns the metrics used by the event finalization flow.
func (s *Set) Finalize() FinalizeMetrics {
	m := &promFinalizeMetrics{
		promOperationMetrics: s.Operations("event").(*promOperationMetrics),
		finalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cup_scorer",
			Name:      "events_finalized_total",
			Help:      "Events successfully finalized.",
		}),
		participants: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cup_scorer",
			Name:      "finalize_participants",
			Help:      "Ranked participants per finalized event.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
		}),
		excluded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cup_scorer",
			Name:      "finalize_excluded_participants_total",
			Help:      "Participants left out of a finalization.",
		}, []string{"reason"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cup_scorer",
			Name:      "finalize_conflicts_total",
			Help:      "Finalize requests rejected because the event was already finalized.",
		}),
	}
	s.reg.MustRegister(m.finalized, m.participants, m.excluded, m.conflicts)
	return m
}

func (m *promOperationMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(m.module, operation).Inc()
}

func (m *promOperationMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.outcomes.WithLabelValues(m.module, operation, "success").Inc()
}

func (m *promOperationMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.outcomes.WithLabelValues(m.module, operation, "failure").Inc()
}

func (m *promOperationMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.duration.WithLabelValues(m.module, operation).Observe(d.Seconds())
}

func (m *promFinalizeMetrics) RecordEventFinalized(_ context.Context, participants int) {
	m.finalized.Inc()
	m.participants.Observe(float64(participants))
}

func (m *promFinalizeMetrics) RecordParticipantExcluded(_ context.Context, reason string) {
	m.excluded.WithLabelValues(reason).Inc()
}

func (m *promFinalizeMetrics) RecordFinalizeConflict(_ context.Context) {
	m.conflicts.Inc()
}
