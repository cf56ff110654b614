// Package promote graduates well-attested candidates into canonical figures.
//
// A candidate qualifies on any one strong signal: enough distinct sources
// mention it, or it has enough total mentions, or its average reported rank
// is good enough. Promotion consumes the candidate: the new figure takes
// over and the candidate row is deleted.
package promote

import (
	"context"

	"github.com/agentstation/utc"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/logging"
	"github.com/pantheonlab/pantheon/pkg/names"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Default promotion thresholds.
const (
	DefaultMinSources  = 2
	DefaultMinMentions = 2
	DefaultMaxAvgRank  = 300
)

// Thresholds gate which candidates graduate. Each threshold is an
// independent qualification path: clearing any one of them promotes.
type Thresholds struct {
	// MinSources is the distinct-source count at which a candidate
	// qualifies on breadth of attestation.
	MinSources int

	// MinMentions is the total mention count at which a candidate
	// qualifies on volume.
	MinMentions int

	// MaxAvgRank is the average reported rank at or under which a
	// candidate qualifies on prominence.
	MaxAvgRank float64
}

// DefaultThresholds returns the standard promotion gate.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinSources:  DefaultMinSources,
		MinMentions: DefaultMinMentions,
		MaxAvgRank:  DefaultMaxAvgRank,
	}
}

// qualifies reports whether a candidate clears at least one threshold.
func (t Thresholds) qualifies(c *types.Candidate) bool {
	return c.SourceCount() >= t.MinSources ||
		c.Mentions >= t.MinMentions ||
		c.AvgRank <= t.MaxAvgRank
}

// Promoter converts qualifying candidates into figures.
type Promoter struct {
	thresholds Thresholds
	dryRun     bool
}

// Option configures a Promoter.
type Option func(*Promoter)

// WithThresholds overrides the promotion gate.
func WithThresholds(t Thresholds) Option {
	return func(p *Promoter) {
		p.thresholds = t
	}
}

// WithDryRun reports which candidates would graduate without writing.
func WithDryRun(dryRun bool) Option {
	return func(p *Promoter) {
		p.dryRun = dryRun
	}
}

// New creates a Promoter with the default thresholds.
func New(opts ...Option) *Promoter {
	p := &Promoter{thresholds: DefaultThresholds()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Promote scans every candidate and graduates those that clear any
// threshold. Each graduation is atomic: the figure, its name alias, and
// the candidate deletion commit together.
//
// A candidate whose display name slugs to nothing, or whose slug collides
// with an existing figure ID, is skipped and left in place for review.
func (p *Promoter) Promote(ctx context.Context, st store.Store) (*types.PromoteReport, error) {
	log := logging.FromContext(ctx)
	report := &types.PromoteReport{}

	candidates, err := st.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		c := &candidates[i]
		if !p.thresholds.qualifies(c) {
			report.Remaining++
			continue
		}

		slug := names.Slug(c.DisplayName)
		if slug == "" {
			log.Warn().
				Str("candidate", c.NormalizedName).
				Msg("Skipping promotion: name produces an empty slug")
			report.SkippedSlug++
			continue
		}
		id := types.FigureID(slug)

		taken, err := st.HasFigure(ctx, id)
		if err != nil {
			return nil, err
		}
		if taken {
			log.Warn().
				Str("candidate", c.NormalizedName).
				Str("id", slug).
				Msg("Skipping promotion: figure ID already taken")
			report.SkippedTaken++
			continue
		}

		if p.dryRun {
			report.Promoted = append(report.Promoted, id)
			continue
		}

		err = st.Transact(ctx, func(tx store.Store) error {
			now := utc.Now()
			f := &types.Figure{
				ID:        id,
				Name:      c.DisplayName,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := tx.PutFigure(ctx, f); err != nil {
				return err
			}
			if err := tx.PutAlias(ctx, c.NormalizedName, id); err != nil {
				return err
			}
			return tx.DeleteCandidate(ctx, c.NormalizedName)
		})
		if err != nil {
			return nil, err
		}

		log.Info().
			Str("id", slug).
			Str("name", c.DisplayName).
			Int("sources", c.SourceCount()).
			Int("mentions", c.Mentions).
			Float64("avg_rank", c.AvgRank).
			Msg("Promoted candidate to figure")
		report.Promoted = append(report.Promoted, id)
	}

	log.Info().
		Int("promoted", len(report.Promoted)).
		Int("remaining", report.Remaining).
		Bool("dry_run", p.dryRun).
		Msg("Promotion pass complete")
	return report, nil
}
