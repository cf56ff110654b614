package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantheonlab/pantheon/pkg/match"
)

func TestIsMatch(t *testing.T) {
	// Exact after normalization.
	assert.True(t, match.IsMatch("Louis XIV", "louis xiv"))
	assert.True(t, match.IsMatch("St. Thomas Aquinas", "Saint Thomas Aquinas"))

	// Near spellings within the default threshold.
	assert.True(t, match.IsMatch("Tchaikovsky", "Tchaikovski"))
	assert.True(t, match.IsMatch("Mohammed", "Muhammad"))

	// Unrelated names.
	assert.False(t, match.IsMatch("Ada Lovelace", "Isaac Newton"))
}

func TestDistanceSymmetric(t *testing.T) {
	assert.Equal(t, match.Distance("Napoleon", "Napoleone"), match.Distance("Napoleone", "Napoleon"))
}

func TestEmptyInputs(t *testing.T) {
	assert.Equal(t, 0, match.Distance("", ""))
	assert.Equal(t, 5, match.Distance("", "Plato"))
	assert.True(t, match.IsMatch("", ""))
	assert.False(t, match.IsMatch("", "Aristotle"))
}

func TestIsMatchWithin(t *testing.T) {
	assert.False(t, match.IsMatchWithin("Homer", "Hesiod", 1))
	assert.True(t, match.IsMatchWithin("Homer", "Homere", 1))
}
