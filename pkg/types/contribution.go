package types

// Contribution is one (source, figure, rank) observation. A source sampled
// multiple times tags each run with a SampleID; the aggregator averages
// repeated samples from one source instead of treating them as independent
// sources. A contribution belongs to exactly one figure at a time, but
// ownership is reassigned to the survivor during a merge.
type Contribution struct {
	FigureID FigureID `json:"figure_id" yaml:"figure_id"`
	Source   SourceID `json:"source" yaml:"source"`
	SampleID *string  `json:"sample_id,omitempty" yaml:"sample_id,omitempty"`
	Rank     int      `json:"rank" yaml:"rank"`
}

// Alias maps an alternate normalized name (or a retired figure ID) to the
// figure that owns it. Aliases are rewritten during merges, never left
// dangling: every alias points at a currently-live figure.
type Alias struct {
	Alias    string   `json:"alias" yaml:"alias"`
	FigureID FigureID `json:"figure_id" yaml:"figure_id"`
}
