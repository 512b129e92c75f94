package assistant

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// Reply is a completed assist exchange
type Reply struct {
	Question types.Message `json:"question"`
	Answer   types.Message `json:"answer"`
	// Latest is false when a newer submission for the same mode was made before this one completed
	Latest bool `json:"latest"`
}

// Result is delivered by SubmitAsync
type Result struct {
	Reply *Reply
	Err   error
}

// Assistant runs assist requests against the active session
type Assistant struct {
	store   *workspace.Store
	gateway gateway.Assist
	seq     *gateway.Sequencer
	logger  *zap.Logger
}

// New creates an assistant over store and gw
func New(store *workspace.Store, gw gateway.Assist) *Assistant {
	return &Assistant{
		store:   store,
		gateway: gw,
		seq:     gateway.NewSequencer(),
		logger:  zap.NewNop(),
	}
}

// WithLogger sets the logger
func (a *Assistant) WithLogger(logger *zap.Logger) *Assistant {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// Submit asks the assistant about the active session. The user message is
// appended before the gateway call; the answer is appended only on success.
func (a *Assistant) Submit(ctx context.Context, mode types.AssistMode, prompt string) (*Reply, error) {
	req, err := a.prepare(mode, prompt)
	if err != nil {
		return nil, err
	}

	question, err := a.store.AppendMessage(types.Message{
		Role:    types.RoleUser,
		Content: prompt,
		Mode:    mode,
	})
	if err != nil {
		return nil, err
	}

	token := a.seq.Next(string(mode))

	// no store lock is held here; the workspace stays mutable while we wait
	resp, err := a.gateway.Assist(ctx, *req)
	if err != nil {
		a.logger.Warn("assist failed",
			zap.String("mode", string(mode)),
			zap.String("request_id", token.ID.String()),
			zap.String("kind", string(gateway.KindOf(err))),
			zap.Error(err))
		return nil, fmt.Errorf("assist %s: %w", mode, err)
	}

	answer, err := a.store.AppendMessage(types.Message{
		Role:    types.RoleAssistant,
		Content: resp.Result,
		Mode:    mode,
	})
	if err != nil {
		return nil, err
	}

	return &Reply{Question: question, Answer: answer, Latest: a.seq.IsLatest(token)}, nil
}

// SubmitAsync runs Submit in its own goroutine. The channel receives exactly one Result.
// Validation failures are reported before the goroutine starts, with no message appended.
func (a *Assistant) SubmitAsync(ctx context.Context, mode types.AssistMode, prompt string) <-chan Result {
	out := make(chan Result, 1)

	if _, err := a.prepare(mode, prompt); err != nil {
		out <- Result{Err: err}
		close(out)
		return out
	}

	go func() {
		defer close(out)
		reply, err := a.Submit(ctx, mode, prompt)
		out <- Result{Reply: reply, Err: err}
	}()
	return out
}

// prepare validates the submission and builds the gateway request from the active session
func (a *Assistant) prepare(mode types.AssistMode, prompt string) (*gateway.AssistRequest, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	req := &gateway.AssistRequest{
		Mode:     mode,
		Language: types.DefaultLanguage,
		Context:  prompt,
	}

	active, ok := a.store.ActiveSession()
	switch {
	case ok:
		req.Code = active.Content
		if active.Language != "" {
			req.Language = active.Language
		}
	case mode.RequiresSession():
		return nil, fmt.Errorf("%w: %s mode needs an open file", ErrNoActiveSession, mode)
	}
	return req, nil
}
