package tracing

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/id"
)

// Propagation headers
const (
	TraceHeader = "X-Trace-ID"
	SpanHeader  = "X-Span-ID"
)

const spanBuffer = 1000

// TraceID identifies one request flow across the backend and a remote gateway
type TraceID string

// SpanID identifies one operation inside a trace
type SpanID string

// Span is one timed operation. A nil *Span is valid and records nothing,
// so callers never need to check whether tracing is enabled.
type Span struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID SpanID
	Name     string
	Start    time.Time
	Duration time.Duration
	Attrs    map[string]string
	Status   int
	Err      error

	tracer *Tracer
	ended  atomic.Bool
}

// Tracer hands out spans and logs them through zap once they end
type Tracer struct {
	service string
	logger  *zap.Logger
	spans   chan *Span
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

// New creates a tracer and starts the goroutine that logs ended spans
func New(service string, logger *zap.Logger) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracer{
		service: service,
		logger:  logger,
		spans:   make(chan *Span, spanBuffer),
		done:    make(chan struct{}),
	}
	go t.run()
	return t
}

// Close stops accepting spans and returns once the buffered ones are logged.
// Calling it twice is fine.
func (t *Tracer) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	close(t.spans)
	t.mu.Unlock()

	<-t.done
}

// Start opens a span under whatever trace ctx already carries and returns a
// context that carries both the tracer and the new span
func (t *Tracer) Start(ctx context.Context, name string) (*Span, context.Context) {
	traceID := TraceIDFrom(ctx)
	if traceID == "" {
		traceID = TraceID(id.NewTraceID().String())
	}

	span := &Span{
		TraceID:  traceID,
		SpanID:   SpanID(id.NewSpanID().String()),
		ParentID: SpanIDFrom(ctx),
		Name:     name,
		Start:    time.Now(),
		Attrs:    make(map[string]string),
		tracer:   t,
	}

	ctx = context.WithValue(ctx, tracerKey, t)
	ctx = context.WithValue(ctx, traceIDKey, traceID)
	ctx = context.WithValue(ctx, spanIDKey, span.SpanID)
	return span, ctx
}

// StartChild opens a span with the tracer carried by ctx. Without one it
// returns a nil span and ctx unchanged.
func StartChild(ctx context.Context, name string) (*Span, context.Context) {
	t, _ := ctx.Value(tracerKey).(*Tracer)
	if t == nil {
		return nil, ctx
	}
	return t.Start(ctx, name)
}

// Set records an attribute
func (s *Span) Set(key, value string) {
	if s == nil {
		return
	}
	s.Attrs[key] = value
}

// Fail records err; a status below 500 is raised to 500
func (s *Span) Fail(err error) {
	if s == nil || err == nil {
		return
	}
	s.Err = err
	if s.Status < http.StatusInternalServerError {
		s.Status = http.StatusInternalServerError
	}
}

// SetStatus records the HTTP status of the operation
func (s *Span) SetStatus(code int) {
	if s == nil {
		return
	}
	s.Status = code
}

// End stamps the duration and hands the span to its tracer. Only the first call counts.
func (s *Span) End() {
	if s == nil || !s.ended.CompareAndSwap(false, true) {
		return
	}
	s.Duration = time.Since(s.Start)
	s.tracer.submit(s)
}

// Ended reports whether End has been called
func (s *Span) Ended() bool {
	return s != nil && s.ended.Load()
}

func (t *Tracer) submit(span *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", string(span.TraceID)),
			zap.String("span_id", string(span.SpanID)),
		)
	}
}

func (t *Tracer) run() {
	defer close(t.done)
	for span := range t.spans {
		t.log(span)
	}
}

func (t *Tracer) log(span *Span) {
	fields := make([]zap.Field, 0, 6+len(span.Attrs))
	fields = append(fields,
		zap.String("service", t.service),
		zap.String("trace_id", string(span.TraceID)),
		zap.String("span_id", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
	)
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(span.ParentID)))
	}
	if span.Status != 0 {
		fields = append(fields, zap.Int("status", span.Status))
	}
	for k, v := range span.Attrs {
		fields = append(fields, zap.String(k, v))
	}

	if span.Err != nil {
		t.logger.Error("span completed with error", append(fields, zap.Error(span.Err))...)
		return
	}
	t.logger.Debug("span completed", fields...)
}

type contextKey int

const (
	tracerKey contextKey = iota
	traceIDKey
	spanIDKey
	outboundKey
)

// WithRemote makes ctx continue a trace started by a caller's headers
func WithRemote(ctx context.Context, h http.Header) context.Context {
	if traceID := h.Get(TraceHeader); traceID != "" {
		ctx = context.WithValue(ctx, traceIDKey, TraceID(traceID))
	}
	if spanID := h.Get(SpanHeader); spanID != "" {
		ctx = context.WithValue(ctx, spanIDKey, SpanID(spanID))
	}
	return ctx
}

// Inject writes the trace context of ctx into h
func Inject(ctx context.Context, h http.Header) {
	if traceID := TraceIDFrom(ctx); traceID != "" {
		h.Set(TraceHeader, string(traceID))
	}
	if spanID := SpanIDFrom(ctx); spanID != "" {
		h.Set(SpanHeader, string(spanID))
	}
}

// TraceIDFrom returns the trace id carried by ctx, or ""
func TraceIDFrom(ctx context.Context) TraceID {
	traceID, _ := ctx.Value(traceIDKey).(TraceID)
	return traceID
}

// SpanIDFrom returns the current span id carried by ctx, or ""
func SpanIDFrom(ctx context.Context) SpanID {
	spanID, _ := ctx.Value(spanIDKey).(SpanID)
	return spanID
}
