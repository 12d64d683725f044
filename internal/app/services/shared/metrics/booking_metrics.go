package metrics

import (
	"healnexus-service/internal/app/contracts"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics counts booking engine outcomes and lock waits.
type BookingMetrics struct {
	operationsTotal *prometheus.CounterVec
	lockWait        *prometheus.HistogramVec
}

var _ contracts.BookingMetrics = (*BookingMetrics)(nil)

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "healnexus",
			Subsystem: "booking",
			Name:      "operations_total",
			Help:      "Booking engine operations by outcome",
		}, []string{"operation", "outcome"}),
		lockWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "healnexus",
			Subsystem: "booking",
			Name:      "lock_wait_seconds",
			Help:      "Time spent waiting for a doctor calendar lock",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"acquired"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.lockWait)
	return m
}

func (m *BookingMetrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, outcome).Inc()
}

func (m *BookingMetrics) ObserveLockWait(seconds float64, acquired bool) {
	if m == nil {
		return
	}
	label := "false"
	if acquired {
		label = "true"
	}
	m.lockWait.WithLabelValues(label).Observe(seconds)
}
