package types

import "github.com/agentstation/utc"

// FigureID is the stable identifier of a canonical figure, usually a slug
// derived from the display name (e.g. "ada-lovelace"). IDs are globally
// unique and immutable once created; merges delete the loser, they never
// renumber the survivor.
type FigureID string

// String returns the string representation of a figure ID.
func (id FigureID) String() string {
	return string(id)
}

// Figure is the canonical record for one historical person.
//
// ConsensusRank and VarianceScore are derived values owned by the consensus
// aggregator; nil means no contribution has ever been aggregated for the
// figure. All other optional attributes are filled in by enrichment
// collaborators and stay nil until then.
type Figure struct {
	ID   FigureID `json:"id" yaml:"id"`
	Name string   `json:"name" yaml:"name"`

	BirthYear *int     `json:"birth_year,omitempty" yaml:"birth_year,omitempty"`
	DeathYear *int     `json:"death_year,omitempty" yaml:"death_year,omitempty"`
	Domain    *string  `json:"domain,omitempty" yaml:"domain,omitempty"`
	Era       *string  `json:"era,omitempty" yaml:"era,omitempty"`
	Region    *string  `json:"region,omitempty" yaml:"region,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`

	// ExternalID links the figure to its reference-site page (e.g. a
	// Wikidata Q-id). Two figures sharing an ExternalID denote the same
	// person and are merge candidates.
	ExternalID *string `json:"external_id,omitempty" yaml:"external_id,omitempty"`

	// ExternalRank is the importance rank supplied by the reference site.
	// During a merge the figure with the best (lowest, nils last)
	// ExternalRank survives.
	ExternalRank *int `json:"external_rank,omitempty" yaml:"external_rank,omitempty"`

	ConsensusRank *float64 `json:"consensus_rank,omitempty" yaml:"consensus_rank,omitempty"`
	VarianceScore *float64 `json:"variance_score,omitempty" yaml:"variance_score,omitempty"`

	CreatedAt utc.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt utc.Time `json:"updated_at" yaml:"updated_at"`
}

// FillMissing copies every biographical attribute that is nil on the figure
// from the corresponding non-nil attribute on other. Existing non-nil values
// are never overwritten (coalesce semantics). Derived consensus values and
// identity fields are not touched.
func (f *Figure) FillMissing(other *Figure) {
	if other == nil {
		return
	}
	if f.BirthYear == nil {
		f.BirthYear = other.BirthYear
	}
	if f.DeathYear == nil {
		f.DeathYear = other.DeathYear
	}
	if f.Domain == nil {
		f.Domain = other.Domain
	}
	if f.Era == nil {
		f.Era = other.Era
	}
	if f.Region == nil {
		f.Region = other.Region
	}
	if f.Latitude == nil {
		f.Latitude = other.Latitude
	}
	if f.Longitude == nil {
		f.Longitude = other.Longitude
	}
	if f.ExternalID == nil {
		f.ExternalID = other.ExternalID
	}
	if f.ExternalRank == nil {
		f.ExternalRank = other.ExternalRank
	}
}
