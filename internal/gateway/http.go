package gateway

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/http/client"
)

const (
	AssistPath   = "/ai-code-assist"
	GeneratePath = "/code-generator"
)

// HTTPClient reaches both gateways over HTTP
type HTTPClient struct {
	client  *client.Client
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewHTTPClient creates a gateway client from outbound client options.
// An empty opts.Token sends no Authorization header.
func NewHTTPClient(opts client.Options) *HTTPClient {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Name == "" {
		opts.Name = "gateway"
	}
	opts.Logger = logger

	return &HTTPClient{client: client.NewClient(opts), logger: logger}
}

// WithMetrics adds gateway call metrics
func (h *HTTPClient) WithMetrics(metrics *monitoring.Metrics) *HTTPClient {
	h.metrics = metrics
	return h
}

// Client exposes the underlying HTTP client
func (h *HTTPClient) Client() *client.Client {
	return h.client
}

// Assist implements Assist
func (h *HTTPClient) Assist(ctx context.Context, req AssistRequest) (*AssistResponse, error) {
	var resp AssistResponse
	if err := h.post(ctx, "assist", AssistPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Generate implements Generate
func (h *HTTPClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var resp GenerateResponse
	if err := h.post(ctx, "generate", GeneratePath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (h *HTTPClient) post(ctx context.Context, name, path string, body, result interface{}) error {
	timer := monitoring.NewTimer(h.metrics, name)

	err := classify(h.client.PostJSON(ctx, path, body, result))
	if err == nil {
		timer.Stop("ok")
		return nil
	}

	kind := KindOf(err)
	timer.Stop(string(kind))
	if h.metrics != nil {
		h.metrics.RecordGatewayError(name, string(kind))
	}
	h.logger.Warn("gateway call failed",
		zap.String("gateway", name),
		zap.String("kind", string(kind)),
		zap.Error(err))
	return err
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return FromStatus(statusErr.Status, errorText(statusErr.Body))
	}
	return Unknown(err)
}

// errorText extracts {"error": ...} from a body, or returns it unchanged
func errorText(body string) string {
	var payload ErrorResponse
	if err := sonic.UnmarshalString(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return body
}
