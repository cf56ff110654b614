package names_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pantheonlab/pantheon/pkg/names"
)

func TestNormalizeBasics(t *testing.T) {
	assert.Equal(t, "louis xiv", names.Normalize("Louis XIV"))
	assert.Equal(t, names.Normalize("louis xiv"), names.Normalize("Louis XIV"))
	assert.Equal(t, "ada lovelace", names.Normalize("  Ada   Lovelace  "))
	assert.Equal(t, "", names.Normalize(""))
	assert.Equal(t, "", names.Normalize("   "))
}

func TestNormalizeHonorifics(t *testing.T) {
	assert.Equal(t, names.Normalize("Saint Thomas Aquinas"), names.Normalize("St. Thomas Aquinas"))
	assert.Equal(t, "saint thomas aquinas", names.Normalize("St. Thomas Aquinas"))
	assert.Equal(t, "isaac newton", names.Normalize("Sir Isaac Newton"))
	assert.Equal(t, "martin luther king", names.Normalize("Dr. Martin Luther King"))
}

func TestNormalizeStackedHonorifics(t *testing.T) {
	// Every prefix rule must have fired once Normalize returns, however
	// many honorifics are stacked.
	assert.Equal(t, "saint john bosco", names.Normalize("Dr. St. John Bosco"))
	assert.Equal(t, "saint thomas more", names.Normalize("Sir St. Thomas More"))
	assert.Equal(t, "jane smith", names.Normalize("Lady Dr. Jane Smith"))
}

func TestNormalizeParentheticals(t *testing.T) {
	assert.Equal(t, "alexander iii of macedon", names.Normalize("Alexander III of Macedon (the Great)"))
	assert.Equal(t, "catherine", names.Normalize("Catherine (the Great)"))
}

func TestNormalizeGenerationalSuffixes(t *testing.T) {
	assert.Equal(t, "martin luther king", names.Normalize("Martin Luther King Jr."))
	assert.Equal(t, "henry", names.Normalize("Henry VIII"))
	assert.Equal(t, "charles", names.Normalize("Charles V"))
	// Numerals beyond VIII stay part of the name.
	assert.Equal(t, "louis xiv", names.Normalize("Louis XIV"))
}

func TestNormalizeParticles(t *testing.T) {
	assert.Equal(t, "al-khwarizmi", names.Normalize("Al - Khwarizmi"))
	assert.Equal(t, "ibn sina", names.Normalize("ibn   Sina"))
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"St. Thomas Aquinas",
		"Dr. St. John Bosco",
		"Sir Isaac Newton",
		"Louis XIV",
		"Catherine (the Great)",
		"Martin Luther King Jr.",
		"José de San Martín",
		"Al - Khwarizmi",
	}
	for _, in := range inputs {
		once := names.Normalize(in)
		assert.Equal(t, once, names.Normalize(once), "Normalize not idempotent for %q", in)
	}
}

func TestKey(t *testing.T) {
	assert.Equal(t, "jose de san martin", names.Key("José de San Martín"))
	assert.Equal(t, "oconnell", names.Key("O'Connell"))
	assert.Equal(t, names.Key("Frédéric Chopin"), names.Key("Frederic Chopin"))
	// Keys are idempotent too.
	assert.Equal(t, names.Key("José de San Martín"), names.Key(names.Key("José de San Martín")))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ada-lovelace", names.Slug("Ada Lovelace"))
	assert.Equal(t, "jose-de-san-martin", names.Slug("José de San Martín"))
	assert.Equal(t, "saint-thomas-aquinas", names.Slug("St. Thomas Aquinas"))
	assert.Equal(t, "", names.Slug("!!!"))
}

func TestSimpleName(t *testing.T) {
	assert.Equal(t, "alexander", names.SimpleName("Alexander the Great"))
	assert.Equal(t, "ada lovelace", names.SimpleName("Ada Lovelace"))
}

func TestLastName(t *testing.T) {
	assert.Equal(t, "lovelace", names.LastName("Ada Lovelace"))
	assert.Equal(t, "alexander", names.LastName("Alexander the Great"))
	assert.Equal(t, "plato", names.LastName("Plato"))
}
