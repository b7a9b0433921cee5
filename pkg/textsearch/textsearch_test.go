package textsearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "cafe creme", Fold("  Café Crème "))
	assert.Equal(t, "istanbul", Fold("Istanbul"))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Team Lunch at Café", "lunch cafe"))
	assert.False(t, Matches("Team Lunch", "dinner"))
	assert.True(t, Matches("anything", "   "))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\% off\_sale%`, LikePattern("50% OFF_sale"))
	assert.Equal(t, `%a\\b%`, LikePattern(`a\b`))
}
