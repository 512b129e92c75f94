package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/id"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// Generator produces code and optionally opens it as a new session
type Generator struct {
	store   *workspace.Store
	gateway gateway.Generate
	logger  *zap.Logger
}

// NewGenerator creates a generator over store and gw
func NewGenerator(store *workspace.Store, gw gateway.Generate) *Generator {
	return &Generator{store: store, gateway: gw, logger: zap.NewNop()}
}

// WithLogger sets the logger
func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	if logger != nil {
		g.logger = logger
	}
	return g
}

// Generate asks the generation gateway for code. The workspace is not touched.
func (g *Generator) Generate(ctx context.Context, prompt string, framework types.Framework) (*types.Generation, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}
	if !framework.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFramework, framework)
	}

	resp, err := g.gateway.Generate(ctx, gateway.GenerateRequest{Prompt: prompt, Framework: framework})
	if err != nil {
		g.logger.Warn("generation failed",
			zap.String("framework", string(framework)),
			zap.String("kind", string(gateway.KindOf(err))),
			zap.Error(err))
		return nil, fmt.Errorf("generate %s: %w", framework, err)
	}

	gen := resp.Generation()
	return &gen, nil
}

// AddToEditor opens gen as a new, unmodified session and makes it active
func (g *Generator) AddToEditor(gen types.Generation) (types.Session, error) {
	session := types.Session{
		ID:       id.NewGeneratedSessionID().String(),
		Title:    gen.FileName,
		Content:  gen.Code,
		Language: gen.Language,
	}
	if session.Language == "" {
		session.Language = types.DefaultLanguage
	}

	if err := g.store.OpenSession(session); err != nil {
		return types.Session{}, err
	}
	g.logger.Info("generated code added to editor",
		zap.String("session_id", session.ID),
		zap.String("file", session.Title))
	return session, nil
}
