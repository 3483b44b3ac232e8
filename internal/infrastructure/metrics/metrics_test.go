package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveScheduling(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveScheduling("create", OutcomeSucceeded, "")
	m.ObserveScheduling("create", OutcomeRejected, "doctor_busy")
	m.ObserveScheduling("create", OutcomeRejected, "doctor_busy")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.scheduling.WithLabelValues("create", OutcomeSucceeded, "")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.scheduling.WithLabelValues("create", OutcomeRejected, "doctor_busy")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveScheduling("create", OutcomeSucceeded, "")
		m.ObserveHTTP("/health", "GET", "200", 0.01)
	})
}
