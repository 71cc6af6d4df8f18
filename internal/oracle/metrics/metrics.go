// Package metrics provides observability for the attestation gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Verification requests by outcome: "created", "already_pending".
	Requests *prometheus.CounterVec

	// Fulfillments by verdict: "deceased", "alive".
	Fulfillments *prometheus.CounterVec
}

// New creates a Metrics instance with all gateway metrics registered.
func New() *Metrics {
	return &Metrics{
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifelink_oracle_requests_total",
			Help: "Death verification requests by outcome",
		}, []string{"outcome"}),

		Fulfillments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifelink_oracle_fulfillments_total",
			Help: "Death verification fulfillments by verdict",
		}, []string{"verdict"}),
	}
}

// IncRequest records a verification request outcome.
func (m *Metrics) IncRequest(outcome string) {
	if m != nil {
		m.Requests.WithLabelValues(outcome).Inc()
	}
}

// IncFulfillment records a fulfillment verdict.
func (m *Metrics) IncFulfillment(deceased bool) {
	if m != nil {
		verdict := "alive"
		if deceased {
			verdict = "deceased"
		}
		m.Fulfillments.WithLabelValues(verdict).Inc()
	}
}
