package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the waiting list module.
type Metrics struct {
	// Active queue depth by organ type and region.
	QueueDepth *prometheus.GaugeVec

	// Entry additions by organ type, including rejected duplicates.
	EntriesAdded *prometheus.CounterVec
}

// New creates a Metrics instance with all waiting list metrics registered.
func New() *Metrics {
	return &Metrics{
		QueueDepth: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lifelink_waitlist_depth",
			Help: "Active waiting list entries by organ type and region",
		}, []string{"organ_type", "region"}),

		EntriesAdded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifelink_waitlist_entries_added_total",
			Help: "Waiting list additions by organ type and outcome",
		}, []string{"organ_type", "outcome"}), // outcome: "added", "duplicate"
	}
}

// IncDepth records one more active entry in a queue.
func (m *Metrics) IncDepth(organType, region string) {
	if m != nil {
		m.QueueDepth.WithLabelValues(organType, region).Inc()
	}
}

// DecDepth records one fewer active entry in a queue.
func (m *Metrics) DecDepth(organType, region string) {
	if m != nil {
		m.QueueDepth.WithLabelValues(organType, region).Dec()
	}
}

// IncAdded records an addition attempt outcome.
func (m *Metrics) IncAdded(organType, outcome string) {
	if m != nil {
		m.EntriesAdded.WithLabelValues(organType, outcome).Inc()
	}
}
