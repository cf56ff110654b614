// Package consensus recomputes every figure's consensus rank and
// disagreement score from the ranking contributions currently attached to
// it. The recomputation is always a full batch pass from scratch, never a
// delta update, so the derived values cannot drift from the contributions.
package consensus

import (
	"context"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/internal/utils/ptr"
	"github.com/pantheonlab/pantheon/pkg/logging"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// DefaultPenaltyRank stands in for every source that never ranked a figure:
// worse than any real rank, so figures most sources ignore sink instead of
// being averaged only over the sources that happened to include them.
//
// The value is load-bearing: changing it changes every consensus rank in the
// dataset, so it stays configurable but is never re-derived.
const DefaultPenaltyRank = 1001

// VarianceCeiling clamps the normalized coefficient of variation to the unit
// interval so disagreement is comparable across figures with very different
// rank magnitudes.
const VarianceCeiling = 1.0

// Aggregator computes consensus ranks and variance scores.
type Aggregator struct {
	penalty  float64
	baseline types.SourceID
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithPenaltyRank overrides the missing-source penalty value.
func WithPenaltyRank(penalty float64) Option {
	return func(a *Aggregator) {
		a.penalty = penalty
	}
}

// WithBaseline overrides which source is treated as the reference baseline
// and excluded from model consensus.
func WithBaseline(baseline types.SourceID) Option {
	return func(a *Aggregator) {
		a.baseline = baseline
	}
}

// New creates an Aggregator with the documented defaults.
func New(opts ...Option) *Aggregator {
	a := &Aggregator{
		penalty:  DefaultPenaltyRank,
		baseline: types.BaselineID,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RecomputeAll recomputes consensus_rank and variance_score for every figure
// in one transactional pass, so that the distinct-source count is consistent
// across every figure's calculation within the run.
//
// Figures with zero model contributions are left untouched (nil/nil), not
// zeroed.
func (a *Aggregator) RecomputeAll(ctx context.Context, st store.Store) error {
	log := logging.FromContext(ctx)

	return st.Transact(ctx, func(tx store.Store) error {
		figures, err := tx.ListFigures(ctx)
		if err != nil {
			return err
		}
		byFigure, err := tx.ContributionsByFigure(ctx)
		if err != nil {
			return err
		}
		allSources, err := tx.Sources(ctx)
		if err != nil {
			return err
		}

		totalSources := 0
		for _, src := range allSources {
			if src != a.baseline {
				totalSources++
			}
		}

		computed := 0
		for _, f := range figures {
			rank, variance, ok := a.compute(byFigure[f.ID], totalSources)
			if !ok {
				continue
			}
			if err := tx.SetConsensus(ctx, f.ID, ptr.Float64(rank), ptr.Float64(variance)); err != nil {
				return err
			}
			computed++
		}

		log.Info().
			Int("figures", len(figures)).
			Int("computed", computed).
			Int("sources", totalSources).
			Msg("Recomputed consensus")
		return nil
	})
}

// compute derives one figure's consensus rank and variance score. ok is
// false when the figure has no model contributions at all.
func (a *Aggregator) compute(contribs []types.Contribution, totalSources int) (rank, variance float64, ok bool) {
	// Average repeated samples from one source into a single per-source rank.
	sums := make(map[types.SourceID]float64)
	counts := make(map[types.SourceID]int)
	for _, c := range contribs {
		if c.Source == a.baseline {
			continue
		}
		sums[c.Source] += float64(c.Rank)
		counts[c.Source]++
	}
	if len(sums) == 0 {
		return 0, 0, false
	}

	padded := make([]float64, 0, totalSources)
	for src, sum := range sums {
		padded = append(padded, sum/float64(counts[src]))
	}
	for missing := totalSources - len(sums); missing > 0; missing-- {
		padded = append(padded, a.penalty)
	}

	mean, err := stats.Mean(padded)
	if err != nil {
		return 0, 0, false
	}
	rank = round(mean, 1)

	if len(padded) > 1 && mean != 0 {
		stddev, err := stats.StdDevP(padded)
		if err != nil {
			return 0, 0, false
		}
		variance = round(math.Min(stddev/mean, VarianceCeiling), 3)
	}
	return rank, variance, true
}

// round rounds x to the given number of decimal places.
func round(x float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(x*shift) / shift
}
