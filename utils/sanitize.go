package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var answerPolicy = bluemonday.StrictPolicy()

// SanitizeAnswer strips all markup from a user supplied answer value.
func SanitizeAnswer(input string) string {
	// StrictPolicy escapes entities; answers are stored as plain text
	return strings.TrimSpace(html.UnescapeString(answerPolicy.Sanitize(input)))
}
