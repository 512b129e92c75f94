package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Workspace metrics
	SessionsOpen         prometheus.Gauge
	SessionsOpened       prometheus.Counter
	SessionsClosed       prometheus.Counter
	ConversationMessages prometheus.Gauge
	StoreMutations       *prometheus.CounterVec

	// Gateway metrics
	GatewayCalls    *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec
	GatewayErrors   *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenSessions      int64   `json:"open_sessions"`
	Messages          int64   `json:"messages"`
	GatewayCalls      int64   `json:"gateway_calls"`
	GatewayErrors     int64   `json:"gateway_errors"`
	ActiveConnections int64   `json:"active_connections"`
	AvgRequestSeconds float64 `json:"avg_request_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a new metrics collector registered on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nebula_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nebula_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nebula_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nebula_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		SessionsOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nebula_workspace_sessions_open",
			Help: "Number of open editor sessions",
		}),
		SessionsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "nebula_workspace_sessions_opened_total",
			Help: "Total number of editor sessions opened",
		}),
		SessionsClosed: factory.NewCounter(prometheus.CounterOpts{
			Name: "nebula_workspace_sessions_closed_total",
			Help: "Total number of editor sessions closed",
		}),
		ConversationMessages: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nebula_workspace_conversation_messages",
			Help: "Number of messages in the assistant conversation log",
		}),
		StoreMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nebula_workspace_mutations_total",
				Help: "Workspace store mutations by operation",
			},
			[]string{"op"},
		),

		GatewayCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nebula_gateway_calls_total",
				Help: "Total number of gateway calls",
			},
			[]string{"gateway", "status"},
		),
		GatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nebula_gateway_duration_seconds",
				Help:    "Gateway call duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"gateway"},
		),
		GatewayErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nebula_gateway_errors_total",
				Help: "Gateway failures by error kind",
			},
			[]string{"gateway", "kind"},
		),

		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "nebula_ws_connections",
			Help: "Number of active WebSocket connections",
		}),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nebula_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "nebula_uptime_seconds",
		Help: "Backend uptime in seconds",
	}, func() float64 {
		return time.Since(m.startTime).Seconds()
	})

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordMutation counts a workspace store mutation
func (m *Metrics) RecordMutation(op string) {
	m.StoreMutations.WithLabelValues(op).Inc()
}

// SetSessionsOpen sets the number of open sessions
func (m *Metrics) SetSessionsOpen(count int) {
	m.SessionsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenSessions = int64(count)
	m.mu.Unlock()
}

// IncSessionsOpened increments the sessions opened counter
func (m *Metrics) IncSessionsOpened() {
	m.SessionsOpened.Inc()
}

// IncSessionsClosed increments the sessions closed counter
func (m *Metrics) IncSessionsClosed() {
	m.SessionsClosed.Inc()
}

// SetConversationMessages sets the conversation length
func (m *Metrics) SetConversationMessages(count int) {
	m.ConversationMessages.Set(float64(count))
	m.mu.Lock()
	m.snapshot.Messages = int64(count)
	m.mu.Unlock()
}

// RecordGatewayCall records a gateway call
func (m *Metrics) RecordGatewayCall(gateway, status string, duration time.Duration) {
	m.GatewayCalls.WithLabelValues(gateway, status).Inc()
	m.GatewayDuration.WithLabelValues(gateway).Observe(duration.Seconds())
	m.mu.Lock()
	m.snapshot.GatewayCalls++
	m.mu.Unlock()
}

// RecordGatewayError records a typed gateway failure
func (m *Metrics) RecordGatewayError(gateway, kind string) {
	m.GatewayErrors.WithLabelValues(gateway, kind).Inc()
	m.mu.Lock()
	m.snapshot.GatewayErrors++
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON health endpoint
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgRequestSeconds = snap.totalDuration / float64(snap.TotalRequests)
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
