package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New("test")

	m.ObserveDecision("approved")
	m.ObserveDecision("approved")
	m.ObserveRouteCache(true)
	m.ObserveRemindersDispatched(3)
	m.ObserveHTTP("GET", "/api/v1/routes/{date}", "200", 10*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingDecisions.WithLabelValues("approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RouteCacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RemindersDispatched))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/api/v1/routes/{date}", "200")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveDecision("declined")
		m.ObserveTransition("approve", "ok")
		m.ObserveRouteOptimization("haversine", time.Second)
		m.ObserveReminderScheduled("pending")
		m.ObserveRemindersDispatched(1)
	})
}
