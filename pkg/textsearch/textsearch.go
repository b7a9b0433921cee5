// Package textsearch normalizes text so that searches ignore case and accents
// ("Café" matches "cafe").
package textsearch

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// Matches reports whether every whitespace-separated term of query occurs in text.
func Matches(text, query string) bool {
	folded := Fold(text)
	for _, term := range strings.Fields(Fold(query)) {
		if !strings.Contains(folded, term) {
			return false
		}
	}
	return true
}

// LikePattern builds a LIKE pattern for a folded query, escaping wildcards.
func LikePattern(query string) string {
	q := Fold(query)
	q = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	return "%" + q + "%"
}
