package slots

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// DefaultMaxSuggestions caps the suggestions offered for one bad value.
	DefaultMaxSuggestions = 3
	// DefaultMinSimilarity is the ratio a candidate must reach to be suggested.
	DefaultMinSimilarity = 0.7
)

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of the normalized
// forms of a and b, in [0, 1].
func Similarity(a, b string) float64 {
	return ratio(Normalize(a), Normalize(b))
}

func ratio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}
	m := difflib.NewMatcher(splitRunes(a), splitRunes(b))
	return m.Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Match is a scored suggestion.
type Match struct {
	Value string
	Score float64
}

// Suggest returns up to maxResults original candidates whose similarity with
// token reaches minSimilarity, best first. Ties keep candidate order and
// candidates sharing a normalized form are reported once. An empty result
// means there is nothing sensible to offer.
func Suggest(token string, candidates []string, maxResults int, minSimilarity float64) []string {
	matches := Rank(token, candidates, maxResults, minSimilarity)
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Value
	}
	return out
}

// Rank is Suggest with the scores attached.
func Rank(token string, candidates []string, maxResults int, minSimilarity float64) []Match {
	if maxResults <= 0 {
		maxResults = DefaultMaxSuggestions
	}
	needle := Normalize(token)
	if needle == "" || len(candidates) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(candidates))
	matches := make([]Match, 0, len(candidates))
	for _, cand := range candidates {
		key := Normalize(cand)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		// The ratio is not strictly symmetric; the candidate is always the first sequence.
		score := ratio(key, needle)
		if score < minSimilarity {
			continue
		}
		matches = append(matches, Match{Value: cand, Score: score})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}
	return matches
}
