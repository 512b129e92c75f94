// Package workspace provides the workspace state store for Nebula Studio.
//
// The Store is the single owner of editor sessions, the active selection,
// panel visibility, theme and the assistant conversation log. Every HTTP
// handler and WebSocket stream reads and mutates the workspace through it.
//
// Invariants:
//   - Session ids are unique within the open sequence
//   - The active id is nil or names exactly one open session
//   - The conversation log is append-only until cleared
//
// Active Selection:
//   - OpenSession: the new session becomes active
//   - CloseSession of the active session: first survivor, or nil
//   - CloseSession of another session: unchanged
//   - SetActiveSession: target, or ErrNotFound
//
// Events:
// Subscribers receive one Event per applied change, outside the store lock,
// in mutation order. A subscriber may call back into the store.
//
// Example Usage:
//
//	store := workspace.New().WithMetrics(metrics).WithLogger(log.Logger)
//	unsubscribe := store.Subscribe(func(ev workspace.Event) { ... })
//	defer unsubscribe()
//	err := store.OpenSession(types.Session{ID: "a", Title: "App.tsx"})
package workspace
