package slots

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldChain decomposes, drops combining marks and recomposes so that
// accented and unaccented spellings compare equal.
var foldChain = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases text, strips diacritics and collapses whitespace.
// It is used for comparisons only; callers keep the original spelling.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	// Lowercase first: strings.ToLower can introduce combining marks
	// (U+0130 becomes "i" + U+0307) which the fold chain then removes.
	folded, _, err := transform.String(foldChain, strings.ToLower(text))
	if err != nil {
		folded = text
	}
	// Compatibility decomposition can surface uppercase letters ("℃" -> "°C").
	folded = strings.ToLower(folded)
	folded = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
	return strings.Join(strings.Fields(folded), " ")
}

// NormalizeAll normalizes every string, keeping positions.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t)
	}
	return out
}
