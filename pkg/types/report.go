package types

// MergeStrategy records how a duplicate pair was discovered.
type MergeStrategy string

const (
	// StrategyExternalID groups figures sharing an external identifier.
	StrategyExternalID MergeStrategy = "external_id"

	// StrategyCurated applies an explicitly maintained merge table entry.
	StrategyCurated MergeStrategy = "curated"
)

// MergePair describes one survivor/loser pair processed by a resolve pass.
type MergePair struct {
	Survivor      FigureID      `json:"survivor" yaml:"survivor"`
	Loser         FigureID      `json:"loser" yaml:"loser"`
	Strategy      MergeStrategy `json:"strategy" yaml:"strategy"`
	Contributions int           `json:"contributions" yaml:"contributions"`
	Aliases       int           `json:"aliases" yaml:"aliases"`
}

// MergeReport summarizes a duplicate-resolution pass.
type MergeReport struct {
	Merged  []MergePair `json:"merged" yaml:"merged"`
	Skipped int         `json:"skipped" yaml:"skipped"`
	DryRun  bool        `json:"dry_run" yaml:"dry_run"`

	// Suggestions are advisory near-matches surfaced by fuzzy name
	// comparison. They are reported for review, never merged.
	Suggestions []MergeSuggestion `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// MergeSuggestion is an advisory pair of figures whose normalized names are
// within fuzzy-match distance of each other.
type MergeSuggestion struct {
	A        FigureID `json:"a" yaml:"a"`
	B        FigureID `json:"b" yaml:"b"`
	Distance int      `json:"distance" yaml:"distance"`
}

// PromoteReport summarizes a candidate-promotion pass.
type PromoteReport struct {
	Promoted     []FigureID `json:"promoted" yaml:"promoted"`
	SkippedSlug  int        `json:"skipped_slug" yaml:"skipped_slug"`
	SkippedTaken int        `json:"skipped_taken" yaml:"skipped_taken"`
	Remaining    int        `json:"remaining" yaml:"remaining"`
}

// IngestReport summarizes ingestion of one raw source list.
type IngestReport struct {
	Source        SourceID `json:"source" yaml:"source"`
	SampleID      string   `json:"sample_id" yaml:"sample_id"`
	Contributions int      `json:"contributions" yaml:"contributions"`
	Candidates    int      `json:"candidates" yaml:"candidates"`
	Skipped       int      `json:"skipped" yaml:"skipped"`
}
