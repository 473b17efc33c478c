package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the approval module.
type Metrics struct {
	// Check latencies by kind: "registered", "relay", "payment"
	CheckLatency *prometheus.HistogramVec

	// Approval outcomes: "approved", "rejected", "error"
	ApprovalOutcome *prometheus.CounterVec

	// Overall approval latency
	ApproveLatency prometheus.Histogram
}

// New creates a Metrics instance with all approval module metrics registered.
func New() *Metrics {
	return &Metrics{
		CheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enspass_approval_check_duration_seconds",
			Help:    "Duration of individual approval checks by kind",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"check"}),

		ApprovalOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "enspass_approval_outcomes_total",
			Help: "Total approval outcomes",
		}, []string{"outcome"}),

		ApproveLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "enspass_approval_approve_duration_seconds",
			Help:    "Duration of full approval evaluation including all checks",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}

// ObserveCheckLatency records the duration of one approval check.
func (m *Metrics) ObserveCheckLatency(check string, d time.Duration) {
	if m != nil {
		m.CheckLatency.WithLabelValues(check).Observe(d.Seconds())
	}
}

// IncrementOutcome records an approval outcome.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.ApprovalOutcome.WithLabelValues(outcome).Inc()
	}
}

// ObserveApproveLatency records the total evaluation duration.
func (m *Metrics) ObserveApproveLatency(d time.Duration) {
	if m != nil {
		m.ApproveLatency.Observe(d.Seconds())
	}
}
