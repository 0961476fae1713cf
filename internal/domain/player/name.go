package player

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameSuffixes = map[string]struct{}{
	"jr":  {},
	"sr":  {},
	"ii":  {},
	"iii": {},
	"iv":  {},
}

// CanonicalizeName lowercases, strips accents and punctuation and drops
// generational suffixes. It is the only name key used for injury lookups and
// box-score matching.
func CanonicalizeName(name string) string {
	chain := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(chain, name)
	if err != nil {
		folded = name
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case r == '-' || unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		}
	}

	fields := strings.Fields(b.String())
	out := fields[:0]
	for _, field := range fields {
		if _, suffix := nameSuffixes[field]; suffix {
			continue
		}
		out = append(out, field)
	}

	return strings.Join(out, " ")
}

// NamesMatch applies a bidirectional substring match on canonical keys.
// Feeds disagree on suffixes and initials, so "j doe" matches "john doe jr"
// only through containment, never through edit distance.
func NamesMatch(a, b string) bool {
	left := CanonicalizeName(a)
	right := CanonicalizeName(b)
	if left == "" || right == "" {
		return false
	}
	return strings.Contains(left, right) || strings.Contains(right, left)
}
