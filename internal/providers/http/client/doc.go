// Package client provides the outbound HTTP client shared by the gateway
// clients and the upstream completion client.
//
// Built on go-resty/resty over a hashicorp/go-retryablehttp transport:
//   - Transport-level retries with exponential backoff for network errors and 5xx
//   - 429 is never retried so rate limiting reaches the caller
//   - Optional client-side rate limiting (golang.org/x/time/rate)
//   - Circuit breaker that only counts 5xx and transport failures
//
// Example Usage:
//
//	opts := client.DefaultOptions("upstream")
//	opts.BaseURL = "https://ai.gateway.example/v1"
//	c := client.NewClient(opts)
//	var out Response
//	err := c.PostJSON(ctx, "/chat/completions", in, &out)
//	var statusErr *client.StatusError
//	if errors.As(err, &statusErr) { ... }
package client
