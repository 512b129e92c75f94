// Package gateway defines the contracts of the two external AI collaborators
// and the clients that reach them.
//
// Contracts:
//   - Assist: {mode, code, language, context} -> {result}
//   - Generate: {prompt, framework} -> {code, fileName, language}
//
// Errors:
// Every failure is an *Error with a Kind. Status 429 is KindRateLimited,
// 402 is KindPaymentRequired, any other non-2xx is KindGatewayError with the
// response body kept as diagnostic text, and everything else is KindUnknown.
// Use errors.Is with ErrRateLimited, ErrPaymentRequired, ErrGateway, ErrUnknown.
//
// Implementations:
//   - HTTPClient: remote gateway over resty with retries and a circuit breaker
//   - functions.Service: the same contracts answered in process
//
// Sequencer issues per-key request tokens for callers that want to drop
// replies superseded by a newer submission.
package gateway
