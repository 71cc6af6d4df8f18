package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the allocation engine.
type Metrics struct {
	// Allocation attempts by organ type, path, and outcome.
	Allocations *prometheus.CounterVec

	// Organ lifecycle transitions by organ type and target status.
	OrganTransitions *prometheus.CounterVec

	// Candidate ranking latency by organ type.
	RankDuration *prometheus.HistogramVec
}

// New creates a Metrics instance with all allocation metrics registered.
func New() *Metrics {
	return &Metrics{
		Allocations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifelink_allocations_total",
			Help: "Allocation attempts by organ type, path, and outcome",
		}, []string{"organ_type", "path", "outcome"}), // path: "normal", "emergency"

		OrganTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifelink_organ_transitions_total",
			Help: "Organ status transitions by organ type and target status",
		}, []string{"organ_type", "status"}),

		RankDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lifelink_rank_duration_seconds",
			Help:    "Time spent scoring and ranking candidates per organ",
			Buckets: prometheus.DefBuckets,
		}, []string{"organ_type"}),
	}
}

// IncAllocation records an allocation attempt outcome.
func (m *Metrics) IncAllocation(organType, path, outcome string) {
	if m != nil {
		m.Allocations.WithLabelValues(organType, path, outcome).Inc()
	}
}

// IncTransition records an organ status transition.
func (m *Metrics) IncTransition(organType, status string) {
	if m != nil {
		m.OrganTransitions.WithLabelValues(organType, status).Inc()
	}
}

// ObserveRank records one candidate-ranking pass.
func (m *Metrics) ObserveRank(organType string, d time.Duration) {
	if m != nil {
		m.RankDuration.WithLabelValues(organType).Observe(d.Seconds())
	}
}
