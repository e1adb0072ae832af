// Package sanitize strips markup from user-provided display text. Results
// are plain text; escaping is left to whoever renders them.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text removes all HTML and trims whitespace.
func Text(s string) string {
	if s == "" {
		return ""
	}

	// decode first so escaped tags get stripped too
	decoded := html.UnescapeString(s)
	sanitized := strictPolicy.Sanitize(decoded)
	return strings.TrimSpace(html.UnescapeString(sanitized))
}

// Line is Text truncated to max runes, newlines folded to spaces.
func Line(s string, max int) string {
	sanitized := Text(s)
	sanitized = strings.Join(strings.Fields(sanitized), " ")

	runes := []rune(sanitized)
	if max > 0 && len(runes) > max {
		sanitized = strings.TrimSpace(string(runes[:max]))
	}
	return sanitized
}
