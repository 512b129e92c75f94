package functions

import (
	"fmt"
	"strings"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

var systemPrompts = map[types.AssistMode]string{
	types.ModeExplain:  "You are a code explanation expert. Explain the provided code clearly and concisely, focusing on what it does and how it works.",
	types.ModeRefactor: "You are a code refactoring expert. Suggest improvements to make the code more efficient, readable, and maintainable. Provide the refactored code with brief explanations.",
	types.ModeTest:     "You are a testing expert. Generate comprehensive unit tests for the provided code. Use appropriate testing frameworks and cover edge cases.",
	types.ModeFix:      "You are a debugging expert. Analyze the code and errors, identify issues, and provide fixed code with explanations of what was wrong.",
	types.ModeChat:     "You are an AI coding assistant. Help the developer with their question about the code. Be concise and practical.",
}

// SystemPrompt returns the system prompt for mode, the chat prompt for unknown modes
func SystemPrompt(mode types.AssistMode) string {
	if prompt, ok := systemPrompts[mode]; ok {
		return prompt
	}
	return systemPrompts[types.ModeChat]
}

// AssistContent formats the user message of an assist request
func AssistContent(language, context, code string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Language: %s\n\n", language)
	if context != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", context)
	}
	fmt.Fprintf(&b, "Code:\n```%s\n%s\n```", language, code)
	return b.String()
}

// GenerateContent formats the user message of a generation request
func GenerateContent(prompt string) string {
	return fmt.Sprintf("Generate code for: %s\n\nProvide ONLY the code, no explanations. The code should be complete and ready to use.", prompt)
}
