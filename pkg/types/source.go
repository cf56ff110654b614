package types

// SourceID identifies an independent ranking source. A source is usually one
// AI model queried for ranked lists, or the reference-site baseline ranking.
type SourceID string

// String returns the string representation of a source ID.
func (id SourceID) String() string {
	return string(id)
}

// BaselineID identifies the reference-site baseline ranking. Baseline
// contributions are kept in the store but excluded from model consensus.
const BaselineID SourceID = "baseline"

// IsBaseline reports whether the source is the reference baseline.
func (id SourceID) IsBaseline() bool {
	return id == BaselineID
}
