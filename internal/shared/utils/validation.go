package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Size limits (in bytes)
const (
	MaxContentSize = 2 * 1024 * 1024 // 2MB - editor buffer
	MaxPromptSize  = 16 * 1024       // 16KB - assistant prompt
	MaxContextSize = 64 * 1024       // 64KB - websocket context map
)

// String length limits
const (
	MaxIDLength       = 160
	MaxTitleLength    = 256
	MaxLanguageLength = 64
	MaxPathLength     = 1024
)

var (
	// SessionIDPattern allows alphanumerics plus the separators used in file-derived ids
	SessionIDPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	// LanguagePattern matches editor language tags such as "typescript" or "objective-c"
	LanguagePattern = regexp.MustCompile(`^[a-z0-9+#._-]+$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	if value == "" && !required {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}

	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}

	return nil
}

// ValidateSessionID validates an editor session id
func ValidateSessionID(id string) error {
	if err := ValidateString(id, "session_id", 1, MaxIDLength, true); err != nil {
		return err
	}

	if !SessionIDPattern.MatchString(id) {
		return fmt.Errorf("session_id contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)")
	}

	return nil
}

// ValidateTitle validates a session title
func ValidateTitle(title string) error {
	return ValidateString(title, "title", 1, MaxTitleLength, true)
}

// ValidateLanguage validates an optional language tag
func ValidateLanguage(language string) error {
	if err := ValidateString(language, "language", 0, MaxLanguageLength, false); err != nil {
		return err
	}

	if language != "" && !LanguagePattern.MatchString(language) {
		return fmt.Errorf("language must be a lowercase tag")
	}

	return nil
}

// ValidateContent checks an editor buffer against the size limit.
// Content may legitimately hold any byte sequence, so only the size is checked.
func ValidateContent(content string) error {
	if len(content) > MaxContentSize {
		return fmt.Errorf("content size %d bytes exceeds maximum %d bytes", len(content), MaxContentSize)
	}
	return nil
}

// ValidatePrompt validates a free-text assistant or generator prompt
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return fmt.Errorf("prompt is required")
	}
	if len(prompt) > MaxPromptSize {
		return fmt.Errorf("prompt size %d bytes exceeds maximum %d bytes", len(prompt), MaxPromptSize)
	}
	if strings.Contains(prompt, "\x00") {
		return fmt.Errorf("prompt contains invalid characters")
	}
	return nil
}

// ValidatePath validates a slash-separated catalog path
func ValidatePath(path string) error {
	if err := ValidateString(path, "path", 1, MaxPathLength, true); err != nil {
		return err
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path must not contain '..'")
	}
	return nil
}

// ValidateContext validates a websocket context map before processing
func ValidateContext(context map[string]interface{}) error {
	data, err := json.Marshal(context)
	if err != nil {
		return fmt.Errorf("failed to marshal context: %w", err)
	}
	if len(data) > MaxContextSize {
		return fmt.Errorf("context size %d bytes exceeds maximum %d bytes", len(data), MaxContextSize)
	}
	return nil
}
