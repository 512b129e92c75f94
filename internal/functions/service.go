package functions

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/codegen"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/completion"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/http/client"
)

const (
	NoResponse = "No response generated"
	NoCode     = "// No code generated"
)

// Service answers assist and generation requests from the upstream model
type Service struct {
	upstream completion.Completer
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

var (
	_ gateway.Assist   = (*Service)(nil)
	_ gateway.Generate = (*Service)(nil)
)

// NewService creates the in-process gateway implementation
func NewService(upstream completion.Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{upstream: upstream, logger: logger}
}

// WithMetrics adds upstream call metrics
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// Assist implements gateway.Assist
func (s *Service) Assist(ctx context.Context, req gateway.AssistRequest) (*gateway.AssistResponse, error) {
	text, err := s.complete(ctx, "assist",
		SystemPrompt(req.Mode),
		AssistContent(req.Language, req.Context, req.Code))
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = NoResponse
	}
	return &gateway.AssistResponse{Result: text}, nil
}

// Generate implements gateway.Generate. Unknown frameworks are generated as React.
func (s *Service) Generate(ctx context.Context, req gateway.GenerateRequest) (*gateway.GenerateResponse, error) {
	tmpl := codegen.For(req.Framework)

	text, err := s.complete(ctx, "generate", tmpl.System, GenerateContent(req.Prompt))
	if err != nil {
		return nil, err
	}
	if text == "" {
		text = NoCode
	}

	return &gateway.GenerateResponse{
		Code:     codegen.CleanCode(text),
		FileName: codegen.DeriveFileName(req.Prompt, tmpl.Framework),
		Language: tmpl.Language,
	}, nil
}

func (s *Service) complete(ctx context.Context, name, system, user string) (string, error) {
	timer := monitoring.NewTimer(s.metrics, "upstream_"+name)

	text, err := s.upstream.Complete(ctx, system, user)
	if err == nil {
		timer.Stop("ok")
		return text, nil
	}

	gwErr := classify(err)
	timer.Stop(string(gwErr.Kind))
	if s.metrics != nil {
		s.metrics.RecordGatewayError("upstream_"+name, string(gwErr.Kind))
	}
	s.logger.Error("upstream completion failed",
		zap.String("function", name),
		zap.String("kind", string(gwErr.Kind)),
		zap.Int("status", gwErr.Status),
		zap.String("body", gwErr.Body),
		zap.Error(err))
	return "", gwErr
}

// classify maps upstream failures onto gateway error kinds
func classify(err error) *gateway.Error {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return gateway.FromStatus(statusErr.Status, statusErr.Body)
	}
	return gateway.Unknown(err)
}
