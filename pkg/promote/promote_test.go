package promote_test

import (
	"context"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/promote"
	"github.com/pantheonlab/pantheon/pkg/types"
)

func newCandidate(name string, sources []string, mentions int, avgRank float64) *types.Candidate {
	ids := make([]types.SourceID, len(sources))
	for i, s := range sources {
		ids[i] = types.SourceID(s)
	}
	return &types.Candidate{
		NormalizedName: name,
		DisplayName:    name,
		Sources:        ids,
		Mentions:       mentions,
		AvgRank:        avgRank,
		CreatedAt:      utc.Now(),
	}
}

func TestPromoteQualifyingCandidate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c := newCandidate("ada lovelace", []string{"model-a", "model-b"}, 3, 120)
	c.DisplayName = "Ada Lovelace"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	require.Equal(t, []types.FigureID{"ada-lovelace"}, report.Promoted)

	f, err := st.GetFigure(ctx, "ada-lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", f.Name)
	assert.Nil(t, f.ConsensusRank)

	// The normalized name resolves to the new figure.
	id, ok, err := st.ResolveAlias(ctx, "ada lovelace")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.FigureID("ada-lovelace"), id)

	// Promotion consumed the candidate.
	_, err = st.GetCandidate(ctx, "ada lovelace")
	require.Error(t, err)
}

func TestPromoteAnyThresholdQualifies(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// Each candidate clears exactly one gate: volume, breadth, or rank.
	require.NoError(t, st.UpsertCandidate(ctx,
		newCandidate("many mentions", []string{"model-a"}, 5, 450)))
	require.NoError(t, st.UpsertCandidate(ctx,
		newCandidate("two sources", []string{"model-a", "model-b"}, 1, 450)))
	require.NoError(t, st.UpsertCandidate(ctx,
		newCandidate("well ranked", []string{"model-a"}, 1, 42)))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	assert.ElementsMatch(t, []types.FigureID{
		"many-mentions", "two-sources", "well-ranked",
	}, report.Promoted)
	assert.Zero(t, report.Remaining)
}

func TestPromoteBelowAllThresholds(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// One source, one mention, poor rank: no gate clears.
	require.NoError(t, st.UpsertCandidate(ctx,
		newCandidate("obscure figure", []string{"model-a"}, 1, 450)))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, report.Promoted)
	assert.Equal(t, 1, report.Remaining)

	candidates, err := st.ListCandidates(ctx)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestPromoteBoundaryAvgRank(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// Exactly at the rank ceiling still qualifies.
	c := newCandidate("sun tzu", []string{"model-a", "model-b"}, 2, 300)
	c.DisplayName = "Sun Tzu"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []types.FigureID{"sun-tzu"}, report.Promoted)
}

func TestPromoteSkipsTakenID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, &types.Figure{
		ID:        "ada-lovelace",
		Name:      "Ada Lovelace",
		CreatedAt: utc.Now(),
		UpdatedAt: utc.Now(),
	}))
	c := newCandidate("ada lovelace", []string{"model-a", "model-b"}, 2, 100)
	c.DisplayName = "Ada Lovelace"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, report.Promoted)
	assert.Equal(t, 1, report.SkippedTaken)

	// Skipped candidates stay for review.
	_, err = st.GetCandidate(ctx, "ada lovelace")
	require.NoError(t, err)
}

func TestPromoteSkipsEmptySlug(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c := newCandidate("***", []string{"model-a", "model-b"}, 2, 100)
	c.DisplayName = "***"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	report, err := promote.New().Promote(ctx, st)
	require.NoError(t, err)
	assert.Empty(t, report.Promoted)
	assert.Equal(t, 1, report.SkippedSlug)
}

func TestPromoteDryRun(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c := newCandidate("grace hopper", []string{"model-a", "model-b"}, 2, 80)
	c.DisplayName = "Grace Hopper"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	report, err := promote.New(promote.WithDryRun(true)).Promote(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []types.FigureID{"grace-hopper"}, report.Promoted)

	// Nothing written.
	has, err := st.HasFigure(ctx, "grace-hopper")
	require.NoError(t, err)
	assert.False(t, has)
	_, err = st.GetCandidate(ctx, "grace hopper")
	require.NoError(t, err)
}

func TestPromoteCustomThresholds(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	c := newCandidate("hypatia", []string{"model-a"}, 1, 500)
	c.DisplayName = "Hypatia"
	require.NoError(t, st.UpsertCandidate(ctx, c))

	// Default gates all fail; only the loosened rank ceiling qualifies.
	p := promote.New(promote.WithThresholds(promote.Thresholds{
		MinSources:  5,
		MinMentions: 10,
		MaxAvgRank:  1000,
	}))
	report, err := p.Promote(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []types.FigureID{"hypatia"}, report.Promoted)
}
