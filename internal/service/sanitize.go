package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// sanitizeText strips markup from user input and stores the result as plain
// text. The strict policy entity-escapes what it keeps, so "R&D" would come
// back as "R&amp;D" without the unescape; encoding for display is left to
// whoever renders the value.
func sanitizeText(policy *bluemonday.Policy, input string) string {
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(input)))
}
