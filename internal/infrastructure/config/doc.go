// Package config loads server configuration from environment variables
// using kelseyhightower/envconfig.
//
// Variables:
//   - PORT, HOST: listen address
//   - LOG_LEVEL, LOG_DEV: logging
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED: inbound per-IP limits
//   - GATEWAY_URL, GATEWAY_API_KEY, GATEWAY_TIMEOUT: remote gateway, in process when unset
//   - UPSTREAM_URL, UPSTREAM_API_KEY, UPSTREAM_MODEL, UPSTREAM_TIMEOUT: chat completions API
package config
