package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		c.Next()

		// Route template keeps label cardinality bounded (":id" instead of real ids)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		duration := time.Since(start)
		status := strconv.Itoa(c.Writer.Status())
		respSize := int64(c.Writer.Size())
		if respSize < 0 {
			respSize = 0
		}

		metrics.RecordHTTPRequest(method, path, status, duration, reqSize, respSize)
	}
}

// Timer measures gateway call duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	gateway string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, gateway string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		gateway: gateway,
	}
}

// Stop stops the timer and records the duration. A nil receiver or metrics is a no-op.
func (t *Timer) Stop(status string) {
	if t == nil || t.metrics == nil {
		return
	}
	t.metrics.RecordGatewayCall(t.gateway, status, time.Since(t.start))
}
