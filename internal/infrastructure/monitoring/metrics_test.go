package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordHTTPRequest("GET", "/workspace", "200", 10*time.Millisecond, 0, 100)
	m.RecordHTTPRequest("POST", "/workspace/sessions", "409", 30*time.Millisecond, 50, 20)
	m.SetSessionsOpen(3)
	m.SetConversationMessages(4)
	m.RecordGatewayCall("assist", "success", time.Second)
	m.RecordGatewayError("assist", "rate_limited")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
	assert.Equal(t, int64(3), snap.OpenSessions)
	assert.Equal(t, int64(4), snap.Messages)
	assert.Equal(t, int64(1), snap.GatewayCalls)
	assert.Equal(t, int64(1), snap.GatewayErrors)
	assert.InDelta(t, 0.02, snap.AvgRequestSeconds, 0.0001)
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordMutation("open_session")
	m.RecordMutation("open_session")
	m.RecordMutation("set_theme")
	m.IncSessionsOpened()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StoreMutations.WithLabelValues("open_session")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StoreMutations.WithLabelValues("set_theme")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionsOpened))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics(prometheus.NewRegistry())

	router := gin.New()
	router.Use(Middleware(m))
	router.DELETE("/workspace/sessions/:id", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/workspace/sessions/abc", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("DELETE", "/workspace/sessions/:id", "204")))
}

func TestTimerNilSafe(t *testing.T) {
	var timer *Timer
	assert.NotPanics(t, func() { timer.Stop("success") })
	assert.NotPanics(t, func() { NewTimer(nil, "assist").Stop("success") })
}
