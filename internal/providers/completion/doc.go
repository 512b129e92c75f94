// Package completion is the client for the upstream OpenAI-compatible chat
// completions API that answers assist and generation requests.
package completion
