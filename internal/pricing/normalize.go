package pricing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize produces the comparison form of a product name: diacritics
// stripped, lowercased, whitespace collapsed to single spaces. Idempotent.
func Normalize(name string) string {
	s, _, err := transform.String(stripMarks, name)
	if err != nil {
		s = name
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// MatchName reports whether query matches candidate under the catalog
// matching rules: exact normalized equality, else substring containment
// of the normalized query inside the normalized candidate.
func MatchName(query, candidate string) bool {
	q := Normalize(query)
	c := Normalize(candidate)
	if q == "" {
		return false
	}
	return q == c || strings.Contains(c, q)
}
