package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// BreakerReporter exposes the circuit breaker of an outbound client
type BreakerReporter interface {
	BreakerSnapshot() resilience.Snapshot
}

// MetricsAggregator combines request metrics, workspace statistics and the
// state of every outbound circuit breaker into one JSON document
type MetricsAggregator struct {
	metrics  *monitoring.Metrics
	store    *workspace.Store
	breakers map[string]BreakerReporter
}

// NewMetricsAggregator creates a metrics aggregator
func NewMetricsAggregator(metrics *monitoring.Metrics, store *workspace.Store) *MetricsAggregator {
	return &MetricsAggregator{
		metrics:  metrics,
		store:    store,
		breakers: make(map[string]BreakerReporter),
	}
}

// WithBreaker adds an outbound client whose breaker is reported under name
func (ma *MetricsAggregator) WithBreaker(name string, b BreakerReporter) *MetricsAggregator {
	if b != nil {
		ma.breakers[name] = b
	}
	return ma
}

// MetricsSnapshot is the aggregated metrics document
type MetricsSnapshot struct {
	Timestamp time.Time                      `json:"timestamp"`
	Backend   monitoring.MetricsSnapshot     `json:"backend"`
	Workspace types.Stats                    `json:"workspace"`
	Breakers  map[string]resilience.Snapshot `json:"breakers"`
	Summary   MetricsSummary                 `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	GatewayErrorRate  float64 `json:"gateway_error_rate"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetAggregatedMetrics returns the aggregated metrics document
func (ma *MetricsAggregator) GetAggregatedMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, ma.Snapshot())
}

// Snapshot collects the current metrics
func (ma *MetricsAggregator) Snapshot() MetricsSnapshot {
	backend := ma.metrics.Snapshot()

	breakers := make(map[string]resilience.Snapshot, len(ma.breakers))
	for name, b := range ma.breakers {
		breakers[name] = b.BreakerSnapshot()
	}

	return MetricsSnapshot{
		Timestamp: time.Now(),
		Backend:   backend,
		Workspace: ma.store.Stats(),
		Breakers:  breakers,
		Summary:   summarize(backend),
	}
}

func summarize(s monitoring.MetricsSnapshot) MetricsSummary {
	summary := MetricsSummary{
		TotalRequests:     s.TotalRequests,
		AverageLatencyMs:  s.AvgRequestSeconds * 1000,
		ActiveConnections: s.ActiveConnections,
		UptimeSeconds:     s.UptimeSeconds,
	}
	if s.TotalRequests > 0 {
		summary.ErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests)
	}
	if s.GatewayCalls > 0 {
		summary.GatewayErrorRate = float64(s.GatewayErrors) / float64(s.GatewayCalls)
	}
	return summary
}
