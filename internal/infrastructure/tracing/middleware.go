package tracing

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
)

// HTTPMiddleware opens a span per request, continuing the caller's trace
// when the request carries one, and echoes the ids in the response headers
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		ctx := WithRemote(c.Request.Context(), c.Request.Header)
		span, ctx := tracer.Start(ctx, c.Request.Method+" "+route)
		span.Set("http.method", c.Request.Method)
		span.Set("http.path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(ctx)

		c.Header(TraceHeader, string(span.TraceID))
		c.Header(SpanHeader, string(span.SpanID))

		c.Next()

		status := c.Writer.Status()
		span.SetStatus(status)
		span.Set("http.status", strconv.Itoa(status))
		if len(c.Errors) > 0 {
			span.Fail(c.Errors.Last())
		}
		span.End()
	}
}

// RestyMiddleware opens a child span for an outbound call and copies the
// trace context into its headers, so a remote gateway joins the caller's
// trace. Register with resty.Client.OnBeforeRequest; pair it with
// RestyFinish on OnAfterResponse and OnError.
func RestyMiddleware(_ *resty.Client, r *resty.Request) error {
	span, ctx := StartChild(r.Context(), r.Method+" "+r.URL)
	if span != nil {
		span.Set("http.url", r.URL)
		r.SetContext(context.WithValue(ctx, outboundKey, span))
	}
	Inject(r.Context(), r.Header)
	return nil
}

func spanFrom(r *resty.Request) *Span {
	if r == nil {
		return nil
	}
	span, _ := r.Context().Value(outboundKey).(*Span)
	return span
}

// RestyFinish ends the span RestyMiddleware opened for resp's request
func RestyFinish(_ *resty.Client, resp *resty.Response) error {
	span := spanFrom(resp.Request)
	span.SetStatus(resp.StatusCode())
	span.End()
	return nil
}

// RestyError ends the span of a request that failed, unless RestyFinish already did
func RestyError(r *resty.Request, err error) {
	span := spanFrom(r)
	if span == nil || span.Ended() {
		return
	}
	span.Fail(err)
	span.End()
}
