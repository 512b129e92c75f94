package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSessionID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"ulid with file suffix", "01HZX3K8Q2N7VJ5T4P6R8W9Y0A-App.tsx", false},
		{"generated", "generated-01HZX3K8Q2N7VJ5T4P6R8W9Y0A", false},
		{"empty", "", true},
		{"slash", "src/App.tsx", true},
		{"space", "my tab", true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSessionID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateLanguage(t *testing.T) {
	assert.NoError(t, ValidateLanguage(""))
	assert.NoError(t, ValidateLanguage("typescript"))
	assert.NoError(t, ValidateLanguage("c++"))
	assert.Error(t, ValidateLanguage("TypeScript"))
}

func TestValidateContent(t *testing.T) {
	assert.NoError(t, ValidateContent(""))
	assert.NoError(t, ValidateContent("package main\n"))
	assert.Error(t, ValidateContent(strings.Repeat("x", MaxContentSize+1)))
}

func TestValidatePrompt(t *testing.T) {
	assert.NoError(t, ValidatePrompt("explain this"))
	assert.Error(t, ValidatePrompt("   \n\t"))
	assert.Error(t, ValidatePrompt("bad\x00byte"))
	assert.Error(t, ValidatePrompt(strings.Repeat("p", MaxPromptSize+1)))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath("src/App.tsx"))
	assert.Error(t, ValidatePath(""))
	assert.Error(t, ValidatePath("../etc/passwd"))
}

func TestValidateContext(t *testing.T) {
	assert.NoError(t, ValidateContext(map[string]interface{}{"mode": "chat"}))
	assert.Error(t, ValidateContext(map[string]interface{}{"blob": strings.Repeat("x", MaxContextSize)}))
}
