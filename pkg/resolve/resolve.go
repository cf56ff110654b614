// Package resolve detects figures that denote the same real-world person
// and merges them, consolidating ranking contributions and aliases into one
// surviving figure.
//
// Two discovery strategies run independently: strong-key grouping over
// shared external identifiers, and a curated merge table. Fuzzy name
// similarity never triggers a merge; it only produces advisory suggestions.
package resolve

import (
	"context"
	"sort"

	"github.com/agentstation/utc"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/consensus"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/logging"
	"github.com/pantheonlab/pantheon/pkg/match"
	"github.com/pantheonlab/pantheon/pkg/names"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Resolver finds and merges duplicate figures.
type Resolver struct {
	table      MergeTable
	aggregator *consensus.Aggregator
	dryRun     bool
	suggest    bool
	maxDist    int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMergeTable supplies the curated duplicate table.
func WithMergeTable(table MergeTable) Option {
	return func(r *Resolver) {
		r.table = table
	}
}

// WithDryRun performs all detection and logging but issues no writes.
func WithDryRun(dryRun bool) Option {
	return func(r *Resolver) {
		r.dryRun = dryRun
	}
}

// WithSuggestions adds advisory fuzzy-name near-matches to the report.
func WithSuggestions(enabled bool) Option {
	return func(r *Resolver) {
		r.suggest = enabled
	}
}

// WithMaxDistance overrides the fuzzy-suggestion edit-distance threshold.
func WithMaxDistance(d int) Option {
	return func(r *Resolver) {
		r.maxDist = d
	}
}

// WithAggregator overrides the consensus aggregator triggered after merges.
func WithAggregator(a *consensus.Aggregator) Option {
	return func(r *Resolver) {
		r.aggregator = a
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		aggregator: consensus.New(),
		maxDist:    match.DefaultMaxDistance,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// pair is one survivor/loser merge to process.
type pair struct {
	survivor types.FigureID
	loser    types.FigureID
	strategy types.MergeStrategy
}

// Resolve scans the store for same-person duplicates and merges each loser
// into its survivor in one atomic transaction per pair. Contribution
// ownership changes, so a full consensus recomputation runs afterwards
// (unless this is a dry run).
//
// A curated entry whose survivor or loser no longer exists is skipped and
// logged, never fatal: curated tables may reference historical IDs that an
// earlier pass already cleaned up.
func (r *Resolver) Resolve(ctx context.Context, st store.Store) (*types.MergeReport, error) {
	log := logging.FromContext(ctx)
	report := &types.MergeReport{DryRun: r.dryRun}

	figures, err := st.ListFigures(ctx)
	if err != nil {
		return nil, err
	}

	pairs := r.externalIDPairs(figures)
	pairs = append(pairs, r.curatedPairs()...)

	for _, p := range pairs {
		merged, err := r.mergePair(ctx, st, p, report)
		if err != nil {
			return nil, err
		}
		if !merged {
			report.Skipped++
		}
	}

	if r.suggest {
		report.Suggestions = r.suggestions(ctx, st)
	}

	if !r.dryRun {
		if err := r.aggregator.RecomputeAll(ctx, st); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("merged", len(report.Merged)).
		Int("skipped", report.Skipped).
		Bool("dry_run", r.dryRun).
		Msg("Resolved duplicates")
	return report, nil
}

// externalIDPairs groups figures sharing an externally-verified identifier.
// Within each group the figure with the best (lowest, nils last) external
// rank survives.
func (r *Resolver) externalIDPairs(figures []types.Figure) []pair {
	groups := make(map[string][]types.Figure)
	for _, f := range figures {
		if f.ExternalID == nil || *f.ExternalID == "" {
			continue
		}
		groups[*f.ExternalID] = append(groups[*f.ExternalID], f)
	}

	keys := make([]string, 0, len(groups))
	for k, g := range groups {
		if len(g) > 1 {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var pairs []pair
	for _, k := range keys {
		group := groups[k]
		sort.Slice(group, func(i, j int) bool {
			ri, rj := group[i].ExternalRank, group[j].ExternalRank
			switch {
			case ri == nil && rj == nil:
				return group[i].ID < group[j].ID
			case ri == nil:
				return false
			case rj == nil:
				return true
			case *ri != *rj:
				return *ri < *rj
			default:
				return group[i].ID < group[j].ID
			}
		})
		survivor := group[0].ID
		for _, loser := range group[1:] {
			pairs = append(pairs, pair{survivor: survivor, loser: loser.ID, strategy: types.StrategyExternalID})
		}
	}
	return pairs
}

// curatedPairs expands the merge table. Every listed loser is processed
// against its declared survivor regardless of rank.
func (r *Resolver) curatedPairs() []pair {
	var pairs []pair
	for _, survivor := range r.table.Survivors() {
		for _, loser := range r.table[survivor] {
			pairs = append(pairs, pair{survivor: survivor, loser: loser, strategy: types.StrategyCurated})
		}
	}
	return pairs
}

// mergePair merges one loser into its survivor atomically. It returns false
// (with no error) when the pair cannot be processed because either side is
// missing or the pair is degenerate.
func (r *Resolver) mergePair(ctx context.Context, st store.Store, p pair, report *types.MergeReport) (bool, error) {
	log := logging.FromContext(ctx)

	if p.survivor == p.loser {
		return false, nil
	}

	survivorExists, err := st.HasFigure(ctx, p.survivor)
	if err != nil {
		return false, err
	}
	if !survivorExists {
		log.Warn().
			Str("survivor", p.survivor.String()).
			Str("loser", p.loser.String()).
			Str("strategy", string(p.strategy)).
			Msg("Skipping merge: survivor does not exist")
		return false, nil
	}
	loserExists, err := st.HasFigure(ctx, p.loser)
	if err != nil {
		return false, err
	}
	if !loserExists {
		// Already cleaned up by an earlier pass.
		log.Debug().
			Str("loser", p.loser.String()).
			Msg("Skipping merge: loser already gone")
		return false, nil
	}

	if r.dryRun {
		contribs, err := st.ContributionsFor(ctx, p.loser)
		if err != nil {
			return false, err
		}
		aliases, err := st.AliasesFor(ctx, p.loser)
		if err != nil {
			return false, err
		}
		report.Merged = append(report.Merged, types.MergePair{
			Survivor:      p.survivor,
			Loser:         p.loser,
			Strategy:      p.strategy,
			Contributions: len(contribs),
			Aliases:       len(aliases),
		})
		return true, nil
	}

	var result types.MergePair
	err = st.Transact(ctx, func(tx store.Store) error {
		survivor, err := tx.GetFigure(ctx, p.survivor)
		if err != nil {
			return errors.NewMergeError(p.survivor.String(), p.loser.String(), err)
		}
		loser, err := tx.GetFigure(ctx, p.loser)
		if err != nil {
			return errors.NewMergeError(p.survivor.String(), p.loser.String(), err)
		}

		// Contributions follow the survivor; averaging across the now-larger
		// set is the aggregator's job, not the merge's.
		moved, err := tx.ReassignContributions(ctx, p.loser, p.survivor)
		if err != nil {
			return err
		}

		// Future lookups by the old display name or the retired ID must
		// resolve to the survivor.
		if key := names.Key(loser.Name); key != "" {
			if err := tx.PutAlias(ctx, key, p.survivor); err != nil {
				return err
			}
		}
		if err := tx.PutAlias(ctx, p.loser.String(), p.survivor); err != nil {
			return err
		}

		movedAliases, err := tx.ReassignAliases(ctx, p.loser, p.survivor)
		if err != nil {
			return err
		}
		// No alias may reference a deleted figure.
		if err := tx.DeleteAliasesFor(ctx, p.loser); err != nil {
			return err
		}

		survivor.FillMissing(loser)
		survivor.UpdatedAt = utc.Now()
		if err := tx.PutFigure(ctx, survivor); err != nil {
			return err
		}
		if err := tx.DeleteFigure(ctx, p.loser); err != nil {
			return err
		}

		result = types.MergePair{
			Survivor:      p.survivor,
			Loser:         p.loser,
			Strategy:      p.strategy,
			Contributions: moved,
			Aliases:       movedAliases,
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.Info().
		Str("survivor", result.Survivor.String()).
		Str("loser", result.Loser.String()).
		Str("strategy", string(result.Strategy)).
		Int("contributions", result.Contributions).
		Msg("Merged duplicate figure")
	report.Merged = append(report.Merged, result)
	return true, nil
}

// suggestions surfaces advisory fuzzy near-matches between canonical names.
// Pairs already sharing an external ID are the merge strategies' business
// and are excluded here.
func (r *Resolver) suggestions(ctx context.Context, st store.Store) []types.MergeSuggestion {
	figures, err := st.ListFigures(ctx)
	if err != nil {
		return nil
	}

	var out []types.MergeSuggestion
	for i := 0; i < len(figures); i++ {
		for j := i + 1; j < len(figures); j++ {
			a, b := figures[i], figures[j]
			if a.ExternalID != nil && b.ExternalID != nil && *a.ExternalID == *b.ExternalID {
				continue
			}
			d := match.Distance(a.Name, b.Name)
			if d > 0 && d <= r.maxDist {
				out = append(out, types.MergeSuggestion{A: a.ID, B: b.ID, Distance: d})
			}
		}
	}
	return out
}
