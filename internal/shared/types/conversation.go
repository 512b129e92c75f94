package types

import "time"

// Role identifies who authored a conversation message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// AssistMode selects what the assistant is asked to do with the code
type AssistMode string

const (
	ModeExplain  AssistMode = "explain"
	ModeRefactor AssistMode = "refactor"
	ModeTest     AssistMode = "test"
	ModeFix      AssistMode = "fix"
	ModeChat     AssistMode = "chat"
)

// AssistModes lists every mode in display order
var AssistModes = []AssistMode{ModeExplain, ModeRefactor, ModeTest, ModeFix, ModeChat}

// Valid reports whether m is a known mode
func (m AssistMode) Valid() bool {
	switch m {
	case ModeExplain, ModeRefactor, ModeTest, ModeFix, ModeChat:
		return true
	}
	return false
}

// RequiresSession reports whether the mode needs an open file for context
func (m AssistMode) RequiresSession() bool {
	return m != ModeChat
}

// Message is one entry of the assistant conversation log
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	Mode      AssistMode `json:"mode,omitempty"`
}
