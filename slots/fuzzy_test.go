package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("Vacunas", "vacunas"), 1e-9)
	assert.InDelta(t, 12.0/13.0, Similarity("vacuna", "vacunas"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 0.0, Similarity("", "xyz"), 1e-9)
}

func TestSuggestPicksClosestOriginal(t *testing.T) {
	got := Suggest("vacuna", []string{"Vacunas", "antibioticos"}, 3, 0.7)
	assert.Equal(t, []string{"Vacunas"}, got)
}

func TestSuggestOrdersByScoreThenCandidateOrder(t *testing.T) {
	candidates := []string{"bayern", "bayer", "bayor", "zoetis"}
	matches := Rank("bayer", candidates, 3, 0.7)
	require.Len(t, matches, 3)

	assert.Equal(t, "bayer", matches[0].Value)
	// "bayern" and "bayor" score differently; ties would keep candidate order.
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}

	tied := Suggest("abcd", []string{"abcx", "abcy", "abcz"}, 3, 0.7)
	assert.Equal(t, []string{"abcx", "abcy", "abcz"}, tied)
}

func TestSuggestRespectsLimitAndThreshold(t *testing.T) {
	candidates := []string{"abcx", "abcy", "abcz", "abcw"}
	assert.Len(t, Suggest("abcd", candidates, 3, 0.7), 3)
	assert.Len(t, Suggest("abcd", candidates, 0, 0.7), DefaultMaxSuggestions)
	assert.Empty(t, Suggest("abcd", candidates, 3, 0.9))
	assert.Empty(t, Suggest("", candidates, 3, 0.1))
	assert.Empty(t, Suggest("abcd", nil, 3, 0.1))
}

func TestSuggestionsAreDrawnFromCandidates(t *testing.T) {
	candidates := []string{"Antibióticos", "antibioticos", "Vacunas", "Vitaminas", "Vacunas aviares"}
	for _, token := range []string{"antibiotico", "vacuna", "vitamina", "vacunas aviar", "xyz"} {
		got := Suggest(token, candidates, 3, 0.5)
		assert.LessOrEqual(t, len(got), 3)
		for _, s := range got {
			assert.Contains(t, candidates, s)
		}
	}
	// Spellings sharing a normalized form are offered once, first spelling wins.
	assert.Equal(t, []string{"Antibióticos"}, Suggest("antibiotico", candidates[:2], 3, 0.7))
}
