/*
Package tracing provides lightweight request tracing.

Every inbound HTTP request gets a span. The tracer and the span ride on the
request context into the assist and generation calls; the outbound HTTP
client opens a child span per call and sends the trace in headers so a
remote gateway joins the same trace. Ended spans are logged through zap by
a buffered collector.

# Usage

	tracer := tracing.New("nebula-studio", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))
	restyClient.
		OnBeforeRequest(tracing.RestyMiddleware).
		OnAfterResponse(tracing.RestyFinish).
		OnError(tracing.RestyError)

	span, ctx := tracing.StartChild(ctx, "operation")
	defer span.End()

# Headers

  - X-Trace-ID: the whole request flow
  - X-Span-ID: the operation that sent the request

Spans are buffered (1000) and dropped with a warning when the buffer is full.
*/
package tracing
