// Package tokenizer normalizes free-text queries and field values before matching.
package tokenizer

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Lower lower-cases text using Unicode case mapping rules.
// A fresh Caser is built per call because Casers keep internal state and
// must not be shared between goroutines.
func Lower(text string) string {
	if text == "" {
		return ""
	}
	return cases.Lower(language.Und).String(text)
}

// Words splits text on runs of Unicode whitespace. It never returns empty words.
func Words(text string) []string {
	words := strings.Fields(text)
	if words == nil {
		return make([]string, 0) // Initialize as empty slice, not nil
	}
	return words
}

// NormalizeQuery trims and lower-cases a query and splits it into tokens.
// The returned phrase is the tokens joined by single spaces, so that
// "  Enus   DEITY " normalizes to ("enus deity", ["enus", "deity"]).
// An empty or whitespace-only query yields ("", []).
func NormalizeQuery(query string) (string, []string) {
	tokens := Words(Lower(strings.TrimSpace(query)))
	return strings.Join(tokens, " "), tokens
}
