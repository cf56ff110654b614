// Package store defines the entity store owning canonical figures and their
// dependent records (ranking contributions, aliases, candidates).
//
// The resolution and aggregation passes are written against the Store
// interface so they can run against the in-memory implementation in tests
// and the SQL-backed implementation in production.
package store

import (
	"context"

	"github.com/pantheonlab/pantheon/pkg/types"
)

// Store is the persistent table of canonical figures and their dependent
// records. The store is the only writer of derived consensus values.
//
// Deleting a figure requires its contributions and aliases to have been
// reassigned or deleted first; implementations do not cascade.
type Store interface {
	// Figures

	// GetFigure returns the figure with the given ID, or errors.ErrNotFound.
	GetFigure(ctx context.Context, id types.FigureID) (*types.Figure, error)
	// ListFigures returns every figure in the store.
	ListFigures(ctx context.Context) ([]types.Figure, error)
	// PutFigure inserts or updates a figure.
	PutFigure(ctx context.Context, f *types.Figure) error
	// DeleteFigure removes a figure by ID. Missing IDs are not an error.
	DeleteFigure(ctx context.Context, id types.FigureID) error
	// HasFigure reports whether a figure with the given ID exists.
	HasFigure(ctx context.Context, id types.FigureID) (bool, error)

	// Contributions

	// AddContribution appends one (source, figure, rank) observation.
	AddContribution(ctx context.Context, c types.Contribution) error
	// ContributionsFor returns all contributions owned by one figure.
	ContributionsFor(ctx context.Context, id types.FigureID) ([]types.Contribution, error)
	// ContributionsByFigure returns every contribution grouped by owner,
	// for single-pass aggregation.
	ContributionsByFigure(ctx context.Context) (map[types.FigureID][]types.Contribution, error)
	// ReassignContributions moves every contribution referencing from onto
	// to, returning the number of rows moved.
	ReassignContributions(ctx context.Context, from, to types.FigureID) (int, error)
	// Sources returns the distinct contributing sources across the dataset.
	Sources(ctx context.Context) ([]types.SourceID, error)

	// Aliases

	// PutAlias records alias -> id with insert-or-ignore semantics:
	// inserting an alias that already exists is a no-op, not an error.
	PutAlias(ctx context.Context, alias string, id types.FigureID) error
	// ResolveAlias returns the figure owning the alias, if any.
	ResolveAlias(ctx context.Context, alias string) (types.FigureID, bool, error)
	// AliasesFor returns every alias owned by one figure.
	AliasesFor(ctx context.Context, id types.FigureID) ([]string, error)
	// ReassignAliases points every alias referencing from at to instead,
	// returning the number of rows moved. Aliases that would collide with
	// an existing alias of to are dropped rather than duplicated.
	ReassignAliases(ctx context.Context, from, to types.FigureID) (int, error)
	// DeleteAliasesFor removes any alias still referencing the figure.
	DeleteAliasesFor(ctx context.Context, id types.FigureID) error

	// Candidates

	// UpsertCandidate inserts or replaces a candidate keyed by its
	// normalized name.
	UpsertCandidate(ctx context.Context, c *types.Candidate) error
	// GetCandidate returns the candidate for a normalized name, or
	// errors.ErrNotFound.
	GetCandidate(ctx context.Context, normalizedName string) (*types.Candidate, error)
	// ListCandidates returns every candidate in the store.
	ListCandidates(ctx context.Context) ([]types.Candidate, error)
	// DeleteCandidate removes a candidate. Missing names are not an error.
	DeleteCandidate(ctx context.Context, normalizedName string) error

	// Consensus

	// SetConsensus writes the derived consensus values for one figure.
	// Passing nils clears them.
	SetConsensus(ctx context.Context, id types.FigureID, rank, variance *float64) error

	// Transact runs fn atomically: either every write fn performs is
	// visible afterwards, or none is. A Transact call on the store passed
	// to fn joins the outer transaction.
	Transact(ctx context.Context, fn func(Store) error) error

	// Close releases any underlying resources.
	Close() error
}
