package types

import (
	"slices"

	"github.com/agentstation/utc"
)

// Candidate is a provisional, not-yet-canonical figure aggregated from raw
// mentions in bulk source lists, keyed by normalized display name. It is
// created and updated while scanning raw lists, consumed once by promotion,
// and never mutated after that.
type Candidate struct {
	NormalizedName string `json:"normalized_name" yaml:"normalized_name"`

	// DisplayName is a representative raw spelling, kept for slug
	// generation when the candidate is promoted.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Sources is the set of distinct sources that mentioned the name.
	Sources  []SourceID `json:"sources" yaml:"sources"`
	Mentions int        `json:"mention_count" yaml:"mention_count"`

	// AvgRank is the running average of the externally reported ranks
	// across all mentions.
	AvgRank float64 `json:"avg_rank" yaml:"avg_rank"`

	CreatedAt utc.Time `json:"created_at" yaml:"created_at"`
}

// Observe folds one raw mention into the candidate: the source joins the
// source set, the mention count increments, and the running average rank
// absorbs the new rank.
func (c *Candidate) Observe(source SourceID, rank int) {
	if !slices.Contains(c.Sources, source) {
		c.Sources = append(c.Sources, source)
	}
	c.AvgRank = (c.AvgRank*float64(c.Mentions) + float64(rank)) / float64(c.Mentions+1)
	c.Mentions++
}

// SourceCount returns the number of distinct sources that mentioned the name.
func (c *Candidate) SourceCount() int {
	return len(c.Sources)
}
