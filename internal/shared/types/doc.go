// Package types provides shared data structures for the Nebula Studio backend.
//
// Core Types:
//   - Session: One open editor tab (id, title, content, language, modified)
//   - Message: One conversation turn with the assistant
//   - Snapshot: Copy of the whole workspace for readers
//
// Enumerations:
//   - Panel: Independently toggled panels (explorer, git, terminal, ...)
//   - Theme: obsidian, pearl, titanium
//   - AssistMode: explain, refactor, test, fix, chat
//   - Framework: Code generation targets
//
// Request Types:
//   - OpenSessionRequest, ContentRequest, ThemeRequest: Workspace mutations
//   - AssistRequest, GenerateRequest: Assistant interaction
//   - WSMessage: WebSocket communication
package types
