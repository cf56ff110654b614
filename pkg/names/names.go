// Package names canonicalizes raw display names of historical figures into
// matchable keys. Ranking sources spell the same person many ways
// ("St. Thomas Aquinas", "Saint Thomas Aquinas", "Thomas Aquinas"); the
// normalizer collapses case, honorifics, parentheticals, generational
// suffixes, and spacing so that spellings of one person compare equal.
//
// All functions are pure, total, and idempotent.
package names

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	parenthetical = regexp.MustCompile(`\s*\([^)]*\)`)
	whitespace    = regexp.MustCompile(`\s+`)
	arabicArticle = regexp.MustCompile(`\bal\s*-\s*`)
	nonAlnumKey   = regexp.MustCompile(`[^a-z0-9 ]+`)
	nonAlnumSlug  = regexp.MustCompile(`[^a-z0-9]+`)

	// Trailing generational suffixes: jr/sr and roman numerals I through
	// VIII. Numerals beyond VIII (e.g. "Louis XIV") are part of the name.
	generational = regexp.MustCompile(`\s+(jr\.?|sr\.?|i{1,3}|iv|v|vi{1,3})$`)

	// stripMarks removes Unicode combining marks after NFD decomposition,
	// turning "José" into "Jose".
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// droppedPrefixes are honorific prefixes that carry no identity.
var droppedPrefixes = []string{"sir ", "dr. ", "dr ", "dame ", "lady ", "lord "}

// trailingEpithets are disambiguating epithets stripped only by SimpleName,
// where loose matching wants "alexander the great" and "alexander" to meet.
var trailingEpithets = regexp.MustCompile(`\s+the\s+\pL+$`)

// Normalize canonicalizes a raw display name into a matchable form.
// It is deterministic, never fails, and Normalize(Normalize(x)) == Normalize(x).
//
// Rules, in order: lowercase; trim; strip parenthetical disambiguators;
// expand "st." to "saint" and drop bare honorifics; strip trailing
// generational suffixes; normalize spacing around particles; collapse
// internal whitespace.
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = parenthetical.ReplaceAllString(s, " ")

	// Honorifics stack ("Dr. St. John Bosco"), so the prefix rules repeat
	// until none fires; idempotence requires reaching that fixpoint here.
	for changed := true; changed; {
		changed = false
		if rest, ok := strings.CutPrefix(s, "st. "); ok {
			s, changed = "saint "+rest, true
		} else if rest, ok := strings.CutPrefix(s, "st "); ok {
			s, changed = "saint "+rest, true
		}
		for _, prefix := range droppedPrefixes {
			if rest, ok := strings.CutPrefix(s, prefix); ok {
				s, changed = rest, true
				break
			}
		}
	}

	s = generational.ReplaceAllString(s, "")
	s = arabicArticle.ReplaceAllString(s, "al-")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Key produces the strict form used for alias-table keys: Normalize, then
// strip diacritics and every non-alphanumeric character except spaces.
// Alias lookups must be diacritic- and punctuation-insensitive, while
// Normalize itself preserves more of the original text for slug generation.
func Key(raw string) string {
	s := Normalize(raw)
	s = removeDiacritics(s)
	s = nonAlnumKey.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Slug generates a stable figure ID from a display name: the Normalize
// pipeline, diacritics stripped, runs of non-alphanumeric characters
// replaced with a single hyphen, leading/trailing hyphens trimmed.
func Slug(raw string) string {
	s := Normalize(raw)
	s = removeDiacritics(s)
	s = nonAlnumSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SimpleName is the loose-matching variant: Key plus removal of trailing
// epithets like "the great".
func SimpleName(raw string) string {
	s := Key(raw)
	return strings.TrimSpace(trailingEpithets.ReplaceAllString(s, ""))
}

// LastName returns the final token of SimpleName, or the whole simple name
// when there is only one token.
func LastName(raw string) string {
	s := SimpleName(raw)
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		return s[i+1:]
	}
	return s
}

// removeDiacritics strips combining marks via Unicode decomposition.
func removeDiacritics(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		return s
	}
	return out
}
