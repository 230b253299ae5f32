// Package matcher implements title normalization, fuzzy title matching,
// quality detection, episode parsing and candidate ranking. Everything in
// this package is a pure function over strings and candidates, with no I/O.
package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Stop words dropped during normalization, English and Portuguese.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "and": true, "or": true,
	"o": true, "os": true, "as": true, "um": true, "uma": true, "de": true,
	"do": true, "da": true, "dos": true, "das": true, "e": true, "ou": true,
	"em": true, "no": true, "na": true,
}

var diacriticsRemover = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases a title, strips diacritics, replaces punctuation with
// spaces, collapses whitespace and drops stop words.
func Normalize(s string) string {
	s = strings.ToLower(s)

	if stripped, _, err := transform.String(diacriticsRemover, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	words := strings.Fields(b.String())
	kept := words[:0]
	for _, w := range words {
		if !stopWords[w] {
			kept = append(kept, w)
		}
	}

	return strings.Join(kept, " ")
}

// longWords returns the normalized words longer than 3 characters.
func longWords(normalized string) []string {
	var out []string
	for _, w := range strings.Fields(normalized) {
		if len(w) > 3 {
			out = append(out, w)
		}
	}
	return out
}
