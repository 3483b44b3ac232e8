package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Scheduling outcomes
const (
	OutcomeSucceeded = "succeeded"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

type Metrics struct {
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
	scheduling   *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"path", "method", "status"},
		),
		httpLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Latency of HTTP requests",
				Buckets: prometheus.DefBuckets,
			}, []string{"path", "method"},
		),
		scheduling: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "appointment_scheduling_total", Help: "Appointment scheduling attempts by operation and outcome"},
			[]string{"operation", "outcome", "reason"},
		),
	}
	reg.MustRegister(m.httpRequests, m.httpLatency, m.scheduling)
	return m
}

func (m *Metrics) ObserveHTTP(path, method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, status).Inc()
	m.httpLatency.WithLabelValues(path, method).Observe(seconds)
}

// ObserveScheduling counts one create/edit/cancel attempt. reason is the error code or empty.
func (m *Metrics) ObserveScheduling(operation, outcome, reason string) {
	if m == nil {
		return
	}
	m.scheduling.WithLabelValues(operation, outcome, reason).Inc()
}

func (m *Metrics) SchedulingCounter() *prometheus.CounterVec {
	return m.scheduling
}
