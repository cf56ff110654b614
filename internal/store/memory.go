package store

import (
	"context"
	"sort"
	"sync"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Memory is an in-memory Store used in tests and for dry-run experiments.
// It is safe for concurrent use; Transact serializes against all other
// operations and rolls back by snapshot on error.
type Memory struct {
	mu   sync.RWMutex
	data *memData
}

// memData holds the raw tables. Its methods assume the caller holds the
// owning Memory's lock; Transact hands it out directly so that a
// transaction body reuses the same implementations without re-locking.
type memData struct {
	figures       map[types.FigureID]*types.Figure
	contributions []types.Contribution
	aliases       map[string]types.FigureID
	candidates    map[string]*types.Candidate
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: newMemData()}
}

func newMemData() *memData {
	return &memData{
		figures:    make(map[types.FigureID]*types.Figure),
		aliases:    make(map[string]types.FigureID),
		candidates: make(map[string]*types.Candidate),
	}
}

// clone deep-copies the tables for transactional rollback.
func (d *memData) clone() *memData {
	c := newMemData()
	for id, f := range d.figures {
		cp := *f
		c.figures[id] = &cp
	}
	c.contributions = append([]types.Contribution(nil), d.contributions...)
	for a, id := range d.aliases {
		c.aliases[a] = id
	}
	for n, cand := range d.candidates {
		cp := *cand
		cp.Sources = append([]types.SourceID(nil), cand.Sources...)
		c.candidates[n] = &cp
	}
	return c
}

// Figures

// GetFigure implements Store.
func (m *Memory) GetFigure(ctx context.Context, id types.FigureID) (*types.Figure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.GetFigure(ctx, id)
}

func (d *memData) GetFigure(_ context.Context, id types.FigureID) (*types.Figure, error) {
	f, ok := d.figures[id]
	if !ok {
		return nil, errors.NewNotFoundError("figure", id.String())
	}
	cp := *f
	return &cp, nil
}

// ListFigures implements Store.
func (m *Memory) ListFigures(ctx context.Context) ([]types.Figure, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ListFigures(ctx)
}

func (d *memData) ListFigures(_ context.Context) ([]types.Figure, error) {
	out := make([]types.Figure, 0, len(d.figures))
	for _, f := range d.figures {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PutFigure implements Store.
func (m *Memory) PutFigure(ctx context.Context, f *types.Figure) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.PutFigure(ctx, f)
}

func (d *memData) PutFigure(_ context.Context, f *types.Figure) error {
	if f == nil || f.ID == "" {
		return errors.NewValidationError("id", f, "figure ID must not be empty")
	}
	cp := *f
	d.figures[f.ID] = &cp
	return nil
}

// DeleteFigure implements Store.
func (m *Memory) DeleteFigure(ctx context.Context, id types.FigureID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteFigure(ctx, id)
}

func (d *memData) DeleteFigure(_ context.Context, id types.FigureID) error {
	delete(d.figures, id)
	return nil
}

// HasFigure implements Store.
func (m *Memory) HasFigure(ctx context.Context, id types.FigureID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.HasFigure(ctx, id)
}

func (d *memData) HasFigure(_ context.Context, id types.FigureID) (bool, error) {
	_, ok := d.figures[id]
	return ok, nil
}

// Contributions

// AddContribution implements Store.
func (m *Memory) AddContribution(ctx context.Context, c types.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.AddContribution(ctx, c)
}

func (d *memData) AddContribution(_ context.Context, c types.Contribution) error {
	if c.FigureID == "" {
		return errors.NewValidationError("figure_id", c, "contribution must reference a figure")
	}
	d.contributions = append(d.contributions, c)
	return nil
}

// ContributionsFor implements Store.
func (m *Memory) ContributionsFor(ctx context.Context, id types.FigureID) ([]types.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ContributionsFor(ctx, id)
}

func (d *memData) ContributionsFor(_ context.Context, id types.FigureID) ([]types.Contribution, error) {
	var out []types.Contribution
	for _, c := range d.contributions {
		if c.FigureID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

// ContributionsByFigure implements Store.
func (m *Memory) ContributionsByFigure(ctx context.Context) (map[types.FigureID][]types.Contribution, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ContributionsByFigure(ctx)
}

func (d *memData) ContributionsByFigure(_ context.Context) (map[types.FigureID][]types.Contribution, error) {
	out := make(map[types.FigureID][]types.Contribution)
	for _, c := range d.contributions {
		out[c.FigureID] = append(out[c.FigureID], c)
	}
	return out, nil
}

// ReassignContributions implements Store.
func (m *Memory) ReassignContributions(ctx context.Context, from, to types.FigureID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ReassignContributions(ctx, from, to)
}

func (d *memData) ReassignContributions(_ context.Context, from, to types.FigureID) (int, error) {
	moved := 0
	for i := range d.contributions {
		if d.contributions[i].FigureID == from {
			d.contributions[i].FigureID = to
			moved++
		}
	}
	return moved, nil
}

// Sources implements Store.
func (m *Memory) Sources(ctx context.Context) ([]types.SourceID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Sources(ctx)
}

func (d *memData) Sources(_ context.Context) ([]types.SourceID, error) {
	seen := make(map[types.SourceID]struct{})
	for _, c := range d.contributions {
		seen[c.Source] = struct{}{}
	}
	out := make([]types.SourceID, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Aliases

// PutAlias implements Store.
func (m *Memory) PutAlias(ctx context.Context, alias string, id types.FigureID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.PutAlias(ctx, alias, id)
}

func (d *memData) PutAlias(_ context.Context, alias string, id types.FigureID) error {
	if alias == "" {
		return errors.NewValidationError("alias", alias, "alias must not be empty")
	}
	if _, exists := d.aliases[alias]; exists {
		return nil // insert-or-ignore
	}
	d.aliases[alias] = id
	return nil
}

// ResolveAlias implements Store.
func (m *Memory) ResolveAlias(ctx context.Context, alias string) (types.FigureID, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ResolveAlias(ctx, alias)
}

func (d *memData) ResolveAlias(_ context.Context, alias string) (types.FigureID, bool, error) {
	id, ok := d.aliases[alias]
	return id, ok, nil
}

// AliasesFor implements Store.
func (m *Memory) AliasesFor(ctx context.Context, id types.FigureID) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.AliasesFor(ctx, id)
}

func (d *memData) AliasesFor(_ context.Context, id types.FigureID) ([]string, error) {
	var out []string
	for a, owner := range d.aliases {
		if owner == id {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReassignAliases implements Store.
func (m *Memory) ReassignAliases(ctx context.Context, from, to types.FigureID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.ReassignAliases(ctx, from, to)
}

func (d *memData) ReassignAliases(_ context.Context, from, to types.FigureID) (int, error) {
	moved := 0
	for a, owner := range d.aliases {
		if owner == from {
			d.aliases[a] = to
			moved++
		}
	}
	return moved, nil
}

// DeleteAliasesFor implements Store.
func (m *Memory) DeleteAliasesFor(ctx context.Context, id types.FigureID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteAliasesFor(ctx, id)
}

func (d *memData) DeleteAliasesFor(_ context.Context, id types.FigureID) error {
	for a, owner := range d.aliases {
		if owner == id {
			delete(d.aliases, a)
		}
	}
	return nil
}

// Candidates

// UpsertCandidate implements Store.
func (m *Memory) UpsertCandidate(ctx context.Context, c *types.Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.UpsertCandidate(ctx, c)
}

func (d *memData) UpsertCandidate(_ context.Context, c *types.Candidate) error {
	if c == nil || c.NormalizedName == "" {
		return errors.NewValidationError("normalized_name", c, "candidate key must not be empty")
	}
	cp := *c
	cp.Sources = append([]types.SourceID(nil), c.Sources...)
	d.candidates[c.NormalizedName] = &cp
	return nil
}

// GetCandidate implements Store.
func (m *Memory) GetCandidate(ctx context.Context, normalizedName string) (*types.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.GetCandidate(ctx, normalizedName)
}

func (d *memData) GetCandidate(_ context.Context, normalizedName string) (*types.Candidate, error) {
	c, ok := d.candidates[normalizedName]
	if !ok {
		return nil, errors.NewNotFoundError("candidate", normalizedName)
	}
	cp := *c
	cp.Sources = append([]types.SourceID(nil), c.Sources...)
	return &cp, nil
}

// ListCandidates implements Store.
func (m *Memory) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ListCandidates(ctx)
}

func (d *memData) ListCandidates(_ context.Context) ([]types.Candidate, error) {
	out := make([]types.Candidate, 0, len(d.candidates))
	for _, c := range d.candidates {
		cp := *c
		cp.Sources = append([]types.SourceID(nil), c.Sources...)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NormalizedName < out[j].NormalizedName })
	return out, nil
}

// DeleteCandidate implements Store.
func (m *Memory) DeleteCandidate(ctx context.Context, normalizedName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.DeleteCandidate(ctx, normalizedName)
}

func (d *memData) DeleteCandidate(_ context.Context, normalizedName string) error {
	delete(d.candidates, normalizedName)
	return nil
}

// Consensus

// SetConsensus implements Store.
func (m *Memory) SetConsensus(ctx context.Context, id types.FigureID, rank, variance *float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.SetConsensus(ctx, id, rank, variance)
}

func (d *memData) SetConsensus(_ context.Context, id types.FigureID, rank, variance *float64) error {
	f, ok := d.figures[id]
	if !ok {
		return errors.NewNotFoundError("figure", id.String())
	}
	f.ConsensusRank = rank
	f.VarianceScore = variance
	return nil
}

// Transact implements Store. The body runs with the store's write lock held
// against a direct view of the tables; on error the pre-transaction snapshot
// is restored.
func (m *Memory) Transact(_ context.Context, fn func(Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	if err := fn(&unlocked{data: m.data}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	return nil
}

// unlocked adapts memData to the Store interface for use inside Transact,
// where the Memory lock is already held.
type unlocked struct {
	data *memData
}

func (u *unlocked) GetFigure(ctx context.Context, id types.FigureID) (*types.Figure, error) {
	return u.data.GetFigure(ctx, id)
}
func (u *unlocked) ListFigures(ctx context.Context) ([]types.Figure, error) {
	return u.data.ListFigures(ctx)
}
func (u *unlocked) PutFigure(ctx context.Context, f *types.Figure) error {
	return u.data.PutFigure(ctx, f)
}
func (u *unlocked) DeleteFigure(ctx context.Context, id types.FigureID) error {
	return u.data.DeleteFigure(ctx, id)
}
func (u *unlocked) HasFigure(ctx context.Context, id types.FigureID) (bool, error) {
	return u.data.HasFigure(ctx, id)
}
func (u *unlocked) AddContribution(ctx context.Context, c types.Contribution) error {
	return u.data.AddContribution(ctx, c)
}
func (u *unlocked) ContributionsFor(ctx context.Context, id types.FigureID) ([]types.Contribution, error) {
	return u.data.ContributionsFor(ctx, id)
}
func (u *unlocked) ContributionsByFigure(ctx context.Context) (map[types.FigureID][]types.Contribution, error) {
	return u.data.ContributionsByFigure(ctx)
}
func (u *unlocked) ReassignContributions(ctx context.Context, from, to types.FigureID) (int, error) {
	return u.data.ReassignContributions(ctx, from, to)
}
func (u *unlocked) Sources(ctx context.Context) ([]types.SourceID, error) {
	return u.data.Sources(ctx)
}
func (u *unlocked) PutAlias(ctx context.Context, alias string, id types.FigureID) error {
	return u.data.PutAlias(ctx, alias, id)
}
func (u *unlocked) ResolveAlias(ctx context.Context, alias string) (types.FigureID, bool, error) {
	return u.data.ResolveAlias(ctx, alias)
}
func (u *unlocked) AliasesFor(ctx context.Context, id types.FigureID) ([]string, error) {
	return u.data.AliasesFor(ctx, id)
}
func (u *unlocked) ReassignAliases(ctx context.Context, from, to types.FigureID) (int, error) {
	return u.data.ReassignAliases(ctx, from, to)
}
func (u *unlocked) DeleteAliasesFor(ctx context.Context, id types.FigureID) error {
	return u.data.DeleteAliasesFor(ctx, id)
}
func (u *unlocked) UpsertCandidate(ctx context.Context, c *types.Candidate) error {
	return u.data.UpsertCandidate(ctx, c)
}
func (u *unlocked) GetCandidate(ctx context.Context, normalizedName string) (*types.Candidate, error) {
	return u.data.GetCandidate(ctx, normalizedName)
}
func (u *unlocked) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	return u.data.ListCandidates(ctx)
}
func (u *unlocked) DeleteCandidate(ctx context.Context, normalizedName string) error {
	return u.data.DeleteCandidate(ctx, normalizedName)
}
func (u *unlocked) SetConsensus(ctx context.Context, id types.FigureID, rank, variance *float64) error {
	return u.data.SetConsensus(ctx, id, rank, variance)
}
func (u *unlocked) Transact(_ context.Context, fn func(Store) error) error {
	// Already inside a transaction; run directly.
	return fn(u)
}
func (u *unlocked) Close() error { return nil }
