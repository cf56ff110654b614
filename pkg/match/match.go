// Package match decides whether two name spellings denote the same person
// using edit-distance similarity over normalized forms.
//
// Fuzzy matching is a deliberately coarse, recall-favoring heuristic: it
// surfaces merge candidates for review. Merges themselves only happen on
// strong signals (shared external identifier or a curated table entry), so
// nothing in this package ever triggers a merge on its own.
package match

import (
	"github.com/agnivade/levenshtein"

	"github.com/pantheonlab/pantheon/pkg/names"
)

// DefaultMaxDistance is the edit distance at or under which two normalized
// names are considered a match.
const DefaultMaxDistance = 3

// Distance returns the Levenshtein edit distance between the normalized
// forms of a and b. It is symmetric, and an empty string is a valid input
// (the distance is the length of the other string).
func Distance(a, b string) int {
	return levenshtein.ComputeDistance(names.Normalize(a), names.Normalize(b))
}

// IsMatch reports whether a and b plausibly denote the same person:
// equal after normalization, or within DefaultMaxDistance edits.
func IsMatch(a, b string) bool {
	return IsMatchWithin(a, b, DefaultMaxDistance)
}

// IsMatchWithin is IsMatch with a caller-chosen distance threshold.
func IsMatchWithin(a, b string, maxDistance int) bool {
	na, nb := names.Normalize(a), names.Normalize(b)
	if na == nb {
		return true
	}
	return levenshtein.ComputeDistance(na, nb) <= maxDistance
}
