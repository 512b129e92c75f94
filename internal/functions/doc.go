// Package functions is the server side of the assist and generation
// gateways. Service implements both contracts in process on top of the
// upstream completion client; the HTTP API exposes it at
// /functions/ai-code-assist and /functions/code-generator.
//
// Upstream failures:
//   - missing API key: Unknown, "upstream API key not configured"
//   - 429 and 402: relayed as RateLimited and PaymentRequired
//   - any other status: GatewayError, "AI gateway error"
package functions
