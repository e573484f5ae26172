// Package normalize canonicalizes free-text identity strings (player names,
// team names) into comparable tokens. All index keys and resolver lookups go
// through this package, so the normalization contract lives in exactly one
// place.
package normalize

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripMarks decomposes to NFD and drops combining marks, so "José" and
// "Jose" normalize to the same key.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Name canonicalizes a raw name or team string: trims, strips diacritics,
// removes punctuation, lowercases, and collapses whitespace runs to a single
// space. Empty input yields the empty string; Name never fails and is
// idempotent.
func Name(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if out, _, err := transform.String(stripMarks, s); err == nil {
		s = out
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokens normalizes s and splits it on whitespace. The first token is the
// given-name candidate and the last the surname candidate; for single-word
// names they coincide. Returns nil for input that normalizes to nothing.
func Tokens(s string) []string {
	n := Name(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// IsZero reports whether a string-encoded stat value counts as zero.
// Blank values are zero. A comma decimal separator is accepted ("0,0").
// A non-numeric non-blank value is already meaningful and is NOT zero.
func IsZero(val string) bool {
	val = strings.ReplaceAll(strings.TrimSpace(val), ",", ".")
	if val == "" {
		return true
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return false
	}
	return f == 0
}
