package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestBookingMetricsRecordOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewBookingMetrics(reg)

	m.RecordOperation("book", "success")
	m.RecordOperation("book", "success")
	m.RecordOperation("book", "slot_unavailable")
	m.ObserveLockWait(0.02, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("book", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.operationsTotal.WithLabelValues("book", "slot_unavailable")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.lockWait))
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *BookingMetrics
	m.RecordOperation("cancel", "success")
	m.ObserveLockWait(0.1, false)
}
