package domain

import (
	"strings"
	"unicode/utf8"
)

// Card and admin list description limits.
const (
	CardDescriptionMax  = 150
	AdminDescriptionMax = 200
	CardFeatureLimit    = 3
)

// Truncate cuts text to maxLength characters and appends "..." when it was
// longer. Text that fits is returned unchanged.
func Truncate(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + "..."
}

// SplitLines splits newline-delimited text, tolerating CRLF line endings.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}
