package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// maxLogBatch caps how many studio log lines one request may carry
const maxLogBatch = 200

var (
	errLogSource = errors.New("invalid log source")
	errLogEmpty  = errors.New("no log entries provided")
	errLogBatch  = fmt.Errorf("too many log entries (max %d)", maxLogBatch)
)

// UILogEntry is one log line forwarded by the studio frontend
type UILogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	SessionID string                 `json:"session_id,omitempty"`
	Panel     string                 `json:"panel,omitempty"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// UILogStreamRequest is a batch of frontend log lines
type UILogStreamRequest struct {
	Source    string       `json:"source"`
	Entries   []UILogEntry `json:"entries"`
	Timestamp int64        `json:"timestamp"`
}

func (r UILogStreamRequest) validate() error {
	switch {
	case r.Source != "ui":
		return errLogSource
	case len(r.Entries) == 0:
		return errLogEmpty
	case len(r.Entries) > maxLogBatch:
		return errLogBatch
	}
	return nil
}

// StreamLogs replays studio log lines into the backend log under the "ui" logger
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, errors.New("invalid log request format"))
		return
	}
	if err := req.validate(); err != nil {
		badInput(c, err)
		return
	}

	logger := h.logger.Named("ui")
	for _, entry := range req.Entries {
		entry.write(logger)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(req.Entries),
		"timestamp":        time.Now().Unix(),
	})
}

// uiLevel maps a browser console level to zap; unknown levels log at info
func uiLevel(level string) zapcore.Level {
	if level == "verbose" || level == "trace" {
		return zapcore.DebugLevel
	}
	parsed, err := zapcore.ParseLevel(level)
	switch {
	case err != nil:
		return zapcore.InfoLevel
	case parsed > zapcore.ErrorLevel:
		// the browser never gets to panic or exit the backend
		return zapcore.ErrorLevel
	}
	return parsed
}

func (e UILogEntry) write(logger *zap.Logger) {
	ce := logger.Check(uiLevel(e.Level), e.Message)
	if ce == nil {
		return
	}

	fields := []zap.Field{
		zap.String("ui_log_id", e.ID),
		zap.String("ui_timestamp", e.Timestamp),
	}
	if e.SessionID != "" {
		fields = append(fields, zap.String("session_id", e.SessionID))
	}
	if e.Panel != "" {
		fields = append(fields, zap.String("panel", e.Panel))
	}
	if len(e.Context) > 0 {
		fields = append(fields, zap.Any("context", e.Context))
	}
	ce.Write(fields...)
}
