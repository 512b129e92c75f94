package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
)

// DefaultUpstreamURL is the OpenAI-compatible gateway the hosted functions call
const DefaultUpstreamURL = "https://ai.gateway.lovable.dev/v1"

// DefaultUpstreamModel is the model the hosted functions ask for
const DefaultUpstreamModel = "google/gemini-2.5-flash"

// Config is the whole process configuration, read from the environment.
type Config struct {
	Server    ServerConfig
	Gateway   GatewayConfig
	Upstream  UpstreamConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig is where the studio API listens.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

// GatewayConfig selects where assist and generation requests go.
// An empty URL answers them in process.
type GatewayConfig struct {
	URL     string        `envconfig:"GATEWAY_URL"`
	APIKey  string        `envconfig:"GATEWAY_API_KEY"`
	Timeout time.Duration `envconfig:"GATEWAY_TIMEOUT" default:"60s"`
}

// Remote reports whether a remote gateway is configured.
func (g GatewayConfig) Remote() bool {
	return g.URL != ""
}

// UpstreamConfig is the chat completions API behind the hosted functions.
type UpstreamConfig struct {
	URL     string        `envconfig:"UPSTREAM_URL" default:"https://ai.gateway.lovable.dev/v1"`
	APIKey  string        `envconfig:"UPSTREAM_API_KEY"`
	Model   string        `envconfig:"UPSTREAM_MODEL" default:"google/gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"60s"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig is the per-client inbound limit.
type RateLimitConfig struct {
	RequestsPerSecond int           `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int           `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool          `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	IdleTTL           time.Duration `envconfig:"RATE_LIMIT_IDLE_TTL" default:"10m"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration an empty environment produces.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: "8000", Host: "0.0.0.0"},
		Gateway: GatewayConfig{
			Timeout: 60 * time.Second,
		},
		Upstream: UpstreamConfig{
			URL:     DefaultUpstreamURL,
			Model:   DefaultUpstreamModel,
			Timeout: 60 * time.Second,
		},
		Logging: LogConfig{Level: "info"},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			IdleTTL:           10 * time.Minute,
		},
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Server.Port))
	}
	if c.Gateway.Remote() {
		if err := checkURL(c.Gateway.URL); err != nil {
			errs = append(errs, fmt.Errorf("GATEWAY_URL: %w", err))
		}
	}
	if err := checkURL(c.Upstream.URL); err != nil {
		errs = append(errs, fmt.Errorf("UPSTREAM_URL: %w", err))
	}
	if c.Gateway.Timeout <= 0 || c.Upstream.Timeout <= 0 {
		errs = append(errs, errors.New("GATEWAY_TIMEOUT and UPSTREAM_TIMEOUT must be positive"))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive when rate limiting is enabled"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%q needs an http or https scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%q has no host", raw)
	}
	return nil
}
