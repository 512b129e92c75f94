package types

// OpenSessionRequest opens a new editor session
type OpenSessionRequest struct {
	ID       string `json:"id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// ContentRequest replaces a session's content
type ContentRequest struct {
	Content string `json:"content"`
}

// ThemeRequest switches the active theme
type ThemeRequest struct {
	Theme Theme `json:"theme" binding:"required"`
}

// AssistRequest asks the assistant about the active session
type AssistRequest struct {
	Mode   AssistMode `json:"mode" binding:"required"`
	Prompt string     `json:"prompt" binding:"required"`
}

// GenerateRequest asks for generated code
type GenerateRequest struct {
	Prompt      string    `json:"prompt" binding:"required"`
	Framework   Framework `json:"framework" binding:"required"`
	AddToEditor bool      `json:"add_to_editor"`
}

// OpenFileRequest opens or focuses a file from the explorer
type OpenFileRequest struct {
	Path string `json:"path" binding:"required"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}
