// Package pantheon maintains a canonical catalog of historical figures
// aggregated from multiple ranking sources. It deduplicates figures that
// denote the same person, promotes well-attested newcomers, and derives a
// cross-source consensus rank with an agreement score.
package pantheon

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/internal/store/sqldb"
	"github.com/pantheonlab/pantheon/pkg/consensus"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/names"
	"github.com/pantheonlab/pantheon/pkg/promote"
	"github.com/pantheonlab/pantheon/pkg/resolve"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Pantheon is the catalog facade: one handle over the store and the
// maintenance passes, with event hooks for catalog changes.
type Pantheon interface {
	// Store exposes the underlying entity store.
	Store() store.Store

	// Lookup resolves a raw display name to its canonical figure via the
	// alias table. Results are cached; maintenance passes invalidate the
	// cache.
	Lookup(ctx context.Context, name string) (*types.Figure, error)

	// Ingest folds one raw ranked list into the catalog.
	Ingest(ctx context.Context, list *ingest.RawList) (*types.IngestReport, error)

	// ResolveDuplicates merges same-person figures and recomputes consensus.
	ResolveDuplicates(ctx context.Context) (*types.MergeReport, error)

	// PromoteCandidates graduates well-attested candidates into figures.
	PromoteCandidates(ctx context.Context) (*types.PromoteReport, error)

	// RecomputeConsensus re-derives every figure's consensus rank and
	// variance score from current contributions.
	RecomputeConsensus(ctx context.Context) error

	// OnFigureMerged registers a callback fired for each merged pair.
	OnFigureMerged(FigureMergedHook)

	// OnFigurePromoted registers a callback fired for each promotion.
	OnFigurePromoted(FigurePromotedHook)

	// Close releases the store.
	Close() error
}

// pantheon is the internal implementation of the Pantheon interface.
type pantheon struct {
	store      store.Store
	config     *config
	hooks      *hooks
	aggregator *consensus.Aggregator
	ingester   *ingest.Ingester
	cache      *gocache.Cache
}

// New creates a Pantheon instance. With no options it runs on an in-memory
// store; WithDSN selects the SQL-backed store.
func New(opts ...Option) (Pantheon, error) {
	cfg := newConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, errors.NewConfigError("pantheon", "applying options", err)
		}
	}

	st := cfg.store
	if st == nil && cfg.dsn != "" {
		var err error
		st, err = sqldb.Open(context.Background(), cfg.dsn)
		if err != nil {
			return nil, err
		}
	}
	if st == nil {
		st = store.NewMemory()
	}

	aggOpts := []consensus.Option{}
	if cfg.penaltyRank > 0 {
		aggOpts = append(aggOpts, consensus.WithPenaltyRank(float64(cfg.penaltyRank)))
	}

	return &pantheon{
		store:      st,
		config:     cfg,
		hooks:      newHooks(),
		aggregator: consensus.New(aggOpts...),
		ingester:   ingest.New(),
		cache:      gocache.New(cfg.lookupTTL, 2*cfg.lookupTTL),
	}, nil
}

// Store exposes the underlying entity store.
func (p *pantheon) Store() store.Store {
	return p.store
}

// Lookup resolves a raw display name to its canonical figure.
func (p *pantheon) Lookup(ctx context.Context, name string) (*types.Figure, error) {
	key := names.Key(name)
	if key == "" {
		return nil, errors.NewValidationError("name", name, "name normalizes to nothing")
	}

	if cached, ok := p.cache.Get(key); ok {
		f := cached.(types.Figure)
		return &f, nil
	}

	id, ok, err := p.store.ResolveAlias(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Fall back to treating the slugged name as a figure ID.
		id = types.FigureID(names.Slug(name))
		if id == "" {
			return nil, errors.NewNotFoundError("figure", name)
		}
	}

	f, err := p.store.GetFigure(ctx, id)
	if err != nil {
		return nil, err
	}
	p.cache.SetDefault(key, *f)
	return f, nil
}

// Ingest folds one raw ranked list into the catalog.
func (p *pantheon) Ingest(ctx context.Context, list *ingest.RawList) (*types.IngestReport, error) {
	report, err := p.ingester.Ingest(ctx, p.store, list)
	if err != nil {
		return nil, err
	}
	p.cache.Flush()
	return report, nil
}

// ResolveDuplicates merges same-person figures and recomputes consensus.
func (p *pantheon) ResolveDuplicates(ctx context.Context) (*types.MergeReport, error) {
	resolver := resolve.New(
		resolve.WithMergeTable(p.config.mergeTable),
		resolve.WithAggregator(p.aggregator),
	)
	report, err := resolver.Resolve(ctx, p.store)
	if err != nil {
		return nil, err
	}
	p.cache.Flush()
	for _, pair := range report.Merged {
		p.hooks.triggerFigureMerged(pair)
	}
	return report, nil
}

// PromoteCandidates graduates well-attested candidates into figures.
func (p *pantheon) PromoteCandidates(ctx context.Context) (*types.PromoteReport, error) {
	promoter := promote.New(promote.WithThresholds(p.config.thresholds))
	report, err := promoter.Promote(ctx, p.store)
	if err != nil {
		return nil, err
	}
	p.cache.Flush()
	for _, id := range report.Promoted {
		p.hooks.triggerFigurePromoted(id)
	}
	return report, nil
}

// RecomputeConsensus re-derives consensus values from current contributions.
func (p *pantheon) RecomputeConsensus(ctx context.Context) error {
	if err := p.aggregator.RecomputeAll(ctx, p.store); err != nil {
		return err
	}
	p.cache.Flush()
	return nil
}

// OnFigureMerged registers a callback fired for each merged pair.
func (p *pantheon) OnFigureMerged(fn FigureMergedHook) {
	p.hooks.OnFigureMerged(fn)
}

// OnFigurePromoted registers a callback fired for each promotion.
func (p *pantheon) OnFigurePromoted(fn FigurePromotedHook) {
	p.hooks.OnFigurePromoted(fn)
}

// Close releases the store.
func (p *pantheon) Close() error {
	return p.store.Close()
}

// DefaultLookupTTL bounds how stale a cached Lookup result may be.
const DefaultLookupTTL = 5 * time.Minute
