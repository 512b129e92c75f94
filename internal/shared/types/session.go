package types

// Session is one open editor tab
type Session struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Language string `json:"language"`
	Modified bool   `json:"modified"`
}

// DefaultLanguage is used when a session or file carries no language tag
const DefaultLanguage = "plaintext"

// Snapshot is a point-in-time copy of the whole workspace
type Snapshot struct {
	Sessions        []Session      `json:"sessions"`
	ActiveSessionID *string        `json:"active_session_id"`
	Panels          map[Panel]bool `json:"panels"`
	Theme           Theme          `json:"theme"`
	Conversation    []Message      `json:"conversation"`
	// Seq is the sequence number of the last event reflected in this view
	Seq uint64 `json:"seq"`
}

// Stats contains workspace statistics
type Stats struct {
	Sessions         int     `json:"sessions"`
	ModifiedSessions int     `json:"modified_sessions"`
	Messages         int     `json:"messages"`
	ActiveSessionID  *string `json:"active_session_id,omitempty"`
	Theme            Theme   `json:"theme"`
}
