package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/tracing"
)

// ErrUnavailable is returned while the circuit breaker rejects calls
var ErrUnavailable = errors.New("external service unavailable: circuit breaker open")

// StatusError is a non-2xx response. Body holds the raw response text.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// Options configures a Client
type Options struct {
	Name         string
	BaseURL      string
	Token        string
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// RateLimit in requests per second, zero for unlimited
	RateLimit float64
	Logger    *zap.Logger
}

// DefaultOptions returns production defaults for an outbound client
func DefaultOptions(name string) Options {
	return Options{
		Name:         name,
		Timeout:      60 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 500 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
	}
}

// Client wraps resty with retries, rate limiting and a circuit breaker
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Breaker *resilience.Breaker

	mu     sync.RWMutex // guards Limiter
	logger *zap.Logger
}

// NewClient creates an HTTP client for one outbound collaborator
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Name == "" {
		opts.Name = "http-external"
	}

	// Retries live in the transport; resty itself does not retry
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = opts.RetryMax
	if opts.RetryWaitMin > 0 {
		retryClient.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		retryClient.RetryWaitMax = opts.RetryWaitMax
	}
	retryClient.CheckRetry = checkRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = retryLogger{logger.Sugar().With("client", opts.Name)}

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetHeader("User-Agent", "NebulaStudio-HTTP/1.0").
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(tracing.RestyMiddleware).
		OnAfterResponse(tracing.RestyFinish).
		OnError(tracing.RestyError)
	if opts.Timeout > 0 {
		restyClient.SetTimeout(opts.Timeout)
	}
	if opts.BaseURL != "" {
		restyClient.SetBaseURL(opts.BaseURL)
	}
	if opts.Token != "" {
		restyClient.SetAuthToken(opts.Token)
	}

	policy := resilience.DefaultPolicy()
	policy.Ignore = isClientError
	policy.OnTransition = func(name string, from, to resilience.State) {
		logger.Warn("circuit breaker state change",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
	}
	breaker := resilience.New(opts.Name, policy)

	c := &Client{
		Resty:   restyClient,
		Limiter: rate.NewLimiter(rate.Inf, 0),
		Breaker: breaker,
		logger:  logger,
	}
	c.SetRateLimit(opts.RateLimit)
	return c
}

// SetRateLimit configures rate limiting (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rps <= 0 {
		c.Limiter = rate.NewLimiter(rate.Inf, 0)
		return
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	c.Limiter = rate.NewLimiter(rate.Limit(rps), burst)
}

// Request creates a request after the breaker and rate limiter admit it
func (c *Client) Request(ctx context.Context) (*resty.Request, error) {
	if c.Breaker.State() == resilience.StateOpen {
		return nil, ErrUnavailable
	}

	c.mu.RLock()
	limiter := c.Limiter
	c.mu.RUnlock()

	if err := limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	return c.Resty.R().SetContext(ctx), nil
}

// PostJSON sends body to path and decodes a 2xx response into result, whatever
// Content-Type the server declared.
// A non-2xx response is returned as *StatusError.
func (c *Client) PostJSON(ctx context.Context, path string, body, result interface{}) error {
	req, err := c.Request(ctx)
	if err != nil {
		return err
	}

	err = c.Breaker.Guard(func() error {
		resp, err := req.SetBody(body).
			SetResult(result).
			ForceContentType("application/json").
			Post(path)
		if err != nil {
			return fmt.Errorf("post %s: %w", path, err)
		}
		if resp.IsError() {
			return &StatusError{Status: resp.StatusCode(), Body: resp.String()}
		}
		return nil
	})

	switch {
	case errors.Is(err, resilience.ErrOpen), errors.Is(err, resilience.ErrProbeLimit):
		return ErrUnavailable
	case err != nil:
		c.logger.Debug("outbound request failed", zap.String("path", path), zap.Error(err))
	}
	return err
}

// BreakerState returns the current circuit breaker state
func (c *Client) BreakerState() resilience.State {
	return c.Breaker.State()
}

// BreakerSnapshot returns the circuit breaker state and statistics
func (c *Client) BreakerSnapshot() resilience.Snapshot {
	return c.Breaker.Snapshot()
}

// isClientError keeps 4xx answers from tripping the breaker: the collaborator is up
func isClientError(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status < http.StatusInternalServerError
}

// checkRetry retries transport failures and 5xx but never 429, which is relayed to the caller
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// retryLogger adapts zap to retryablehttp.LeveledLogger
type retryLogger struct {
	s *zap.SugaredLogger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) { l.s.Errorw(msg, keysAndValues...) }
func (l retryLogger) Info(msg string, keysAndValues ...interface{})  { l.s.Debugw(msg, keysAndValues...) }
func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) { l.s.Debugw(msg, keysAndValues...) }
func (l retryLogger) Warn(msg string, keysAndValues ...interface{})  { l.s.Warnw(msg, keysAndValues...) }

var _ retryablehttp.LeveledLogger = retryLogger{}
