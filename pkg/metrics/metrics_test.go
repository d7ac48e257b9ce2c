package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg, "scheduling")

	m.RecordHTTPRequest("GET", "/api/v1/appointments/{id}", 200, 10*time.Millisecond)
	m.RecordDBQuery("SELECT", time.Millisecond, nil)
	m.RecordDBQuery("INSERT", time.Millisecond, errors.New("boom"))
	m.RecordAppointmentOperation("create", "conflict")
	m.SetDBConnections(5, 2, 3)

	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.httpRequestsTotal.WithLabelValues("scheduling", "GET", "/api/v1/appointments/{id}", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("scheduling", "INSERT")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("scheduling", "SELECT")))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.appointmentOperations.WithLabelValues("scheduling", "create", "conflict")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.dbConnections.WithLabelValues("scheduling", "in_use")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest("GET", "/", 200, time.Second)
		m.RecordDBQuery("SELECT", time.Second, nil)
		m.RecordAppointmentOperation("create", "ok")
		m.SetDBConnections(1, 1, 0)
	})
}
