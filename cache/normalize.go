// Package cache implements the exact-match and semantic answer cache sitting
// in front of hybrid search.
package cache

import (
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "do": true, "does": true, "did": true, "of": true, "to": true,
	"in": true, "on": true, "for": true, "and": true, "or": true, "my": true,
	"i": true, "me": true, "it": true,
	// Spanish
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"de": true, "que": true, "y": true, "en": true, "es": true, "mi": true,
}

// NormalizeKey maps a question to a stable cache key: lowercase, strip
// punctuation, drop bilingual stopwords, sort remaining tokens. Equivalent
// questions with different phrasing or word order collapse to the same key.
func NormalizeKey(question string) string {
	lower := strings.ToLower(question)

	var b strings.Builder
	for _, r := range lower {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if !stopwords[f] {
			tokens = append(tokens, f)
		}
	}
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
