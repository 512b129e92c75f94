package completion

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/providers/http/client"
)

const (
	DefaultBaseURL = "https://ai.gateway.lovable.dev/v1"
	DefaultModel   = "google/gemini-2.5-flash"

	completionsPath = "/chat/completions"
)

// ErrMissingAPIKey is returned when no upstream key is configured
var ErrMissingAPIKey = errors.New("upstream API key not configured")

// Message is one chat message
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is an OpenAI-compatible chat completion request
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// Response is the subset of a chat completion response that is read
type Response struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Completer produces a completion for a system and user prompt pair
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Config configures the upstream client
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Options client.Options
}

// Client talks to an OpenAI-compatible chat completions endpoint
type Client struct {
	http   *client.Client
	model  string
	hasKey bool
	logger *zap.Logger
}

// New creates an upstream completion client
func New(cfg Config) *Client {
	opts := cfg.Options
	if opts.Name == "" {
		opts.Name = "upstream"
	}
	opts.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	opts.Token = cfg.APIKey

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:   client.NewClient(opts),
		model:  model,
		hasKey: cfg.APIKey != "",
		logger: logger,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Client returns the underlying HTTP client
func (c *Client) Client() *client.Client {
	return c.http
}

// Complete sends one system and one user message and returns the first choice.
// An empty answer is returned as "". Non-2xx answers are *client.StatusError.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	if !c.hasKey {
		return "", ErrMissingAPIKey
	}

	req := Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var resp Response
	if err := c.http.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		c.logger.Debug("upstream returned no choices", zap.String("model", c.model))
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
