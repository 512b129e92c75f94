// Package http exposes the workspace, assistant, catalog and hosted gateway
// functions over gin.
//
// Failures answer {"error": "..."} with a status chosen from the error:
//   - not found: 404
//   - duplicate session: 409
//   - invalid input: 400
//   - assist without an active session: 412
//   - gateway rate limit, payment, upstream and unknown failures: 429, 402, 502, 500
//
// The /functions endpoints speak the gateway wire contract instead, so the
// same backend can act as the remote gateway of another instance.
package http
