package codegen

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// FallbackName is used when a prompt yields no name tokens
const FallbackName = "Component"

const nameTokens = 3

// DeriveFileName builds a file name from the first three words of prompt,
// each title-cased and joined, plus the framework's extension.
func DeriveFileName(prompt string, framework types.Framework) string {
	return ComponentName(prompt) + "." + For(framework).Extension
}

// ComponentName title-cases and joins the first three words of prompt
func ComponentName(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > nameTokens {
		words = words[:nameTokens]
	}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(titleCase(w))
	}
	if b.Len() == 0 {
		return FallbackName
	}
	return b.String()
}

func titleCase(word string) string {
	first, size := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(first)) + strings.ToLower(word[size:])
}

var (
	openingFence  = regexp.MustCompile("```\\w*\\n")
	trailingFence = regexp.MustCompile("```$")
)

// CleanCode strips markdown code fences a model may wrap around its answer
func CleanCode(text string) string {
	text = openingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
