// Package plaintext cleans user-entered free text before it is stored.
package plaintext

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Cleaner interface {
	Clean(s string) string
}

type cleaner struct {
	policy *bluemonday.Policy
}

// NewCleaner normalizes to NFC and drops control characters other than
// newline and tab. Input is plain text: markup characters are kept as typed
// and never reach the output as live markup.
func NewCleaner() Cleaner {
	return &cleaner{policy: bluemonday.StrictPolicy()}
}

func (c *cleaner) Clean(s string) string {
	t := transform.Chain(norm.NFC, runes.Remove(runes.Predicate(isDroppedControl)))
	normalized, _, err := transform.String(t, s)
	if err != nil {
		normalized = s
	}

	// Escaped input holds no tags, so the policy keeps every character.
	out := html.UnescapeString(c.policy.Sanitize(html.EscapeString(normalized)))
	return strings.TrimSpace(out)
}

func isDroppedControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t'
}
