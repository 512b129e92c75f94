// Package assistant drives the two AI flows over the workspace store.
//
// Assistant (assist flow):
//  1. Validate mode and prompt
//  2. Reject non-chat modes locally when no session is active (ErrNoActiveSession)
//  3. Append the user message
//  4. Call the assist gateway without holding the store
//  5. Append the assistant message on success; on failure the question stays unanswered
//
// Generator (generation flow) calls the generation gateway and, on request,
// opens the result as a new session with AddToEditor.
//
// Overlapping submissions are neither cancelled nor coalesced. Reply.Latest
// tells a caller whether a newer submission for the same mode was made while
// the reply was in flight.
package assistant
