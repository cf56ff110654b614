package consensus_test

import (
	"context"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/consensus"
	"github.com/pantheonlab/pantheon/pkg/types"
)

func newFigure(id, name string) *types.Figure {
	return &types.Figure{
		ID:        types.FigureID(id),
		Name:      name,
		CreatedAt: utc.Now(),
		UpdatedAt: utc.Now(),
	}
}

func addContribution(t *testing.T, st store.Store, id, source string, rank int) {
	t.Helper()
	require.NoError(t, st.AddContribution(context.Background(), types.Contribution{
		FigureID: types.FigureID(id),
		Source:   types.SourceID(source),
		Rank:     rank,
	}))
}

func TestMissingSourcePenalty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	// Four distinct sources in the dataset; napoleon ranked by one.
	require.NoError(t, st.PutFigure(ctx, newFigure("napoleon", "Napoleon Bonaparte")))
	require.NoError(t, st.PutFigure(ctx, newFigure("caesar", "Julius Caesar")))
	addContribution(t, st, "napoleon", "model-a", 10)
	addContribution(t, st, "caesar", "model-a", 1)
	addContribution(t, st, "caesar", "model-b", 2)
	addContribution(t, st, "caesar", "model-c", 1)
	addContribution(t, st, "caesar", "model-d", 3)

	require.NoError(t, consensus.New().RecomputeAll(ctx, st))

	f, err := st.GetFigure(ctx, "napoleon")
	require.NoError(t, err)
	require.NotNil(t, f.ConsensusRank)
	// (10 + 1001 + 1001 + 1001) / 4 = 753.25, rounded to one decimal.
	assert.Equal(t, 753.3, *f.ConsensusRank)
}

func TestRepeatedSamplesAverageWithinSource(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("plato", "Plato")))
	// Three samples from one source count as one source averaging to 20.
	addContribution(t, st, "plato", "model-a", 10)
	addContribution(t, st, "plato", "model-a", 20)
	addContribution(t, st, "plato", "model-a", 30)

	require.NoError(t, consensus.New().RecomputeAll(ctx, st))

	f, err := st.GetFigure(ctx, "plato")
	require.NoError(t, err)
	require.NotNil(t, f.ConsensusRank)
	assert.Equal(t, 20.0, *f.ConsensusRank)
	require.NotNil(t, f.VarianceScore)
	// Single padded element: no measurable disagreement.
	assert.Equal(t, 0.0, *f.VarianceScore)
}

func TestBaselineExcluded(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("hypatia", "Hypatia")))
	addContribution(t, st, "hypatia", string(types.BaselineID), 5)

	require.NoError(t, consensus.New().RecomputeAll(ctx, st))

	f, err := st.GetFigure(ctx, "hypatia")
	require.NoError(t, err)
	// Baseline-only figures are left untouched.
	assert.Nil(t, f.ConsensusRank)
	assert.Nil(t, f.VarianceScore)
}

func TestZeroContributionsUntouched(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("sappho", "Sappho")))
	require.NoError(t, consensus.New().RecomputeAll(ctx, st))

	f, err := st.GetFigure(ctx, "sappho")
	require.NoError(t, err)
	assert.Nil(t, f.ConsensusRank)
	assert.Nil(t, f.VarianceScore)
}

func TestVarianceBounds(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("a", "A")))
	require.NoError(t, st.PutFigure(ctx, newFigure("b", "B")))
	addContribution(t, st, "a", "model-a", 1)
	addContribution(t, st, "a", "model-b", 1000)
	addContribution(t, st, "b", "model-a", 500)
	addContribution(t, st, "b", "model-b", 500)

	require.NoError(t, consensus.New().RecomputeAll(ctx, st))

	for _, id := range []types.FigureID{"a", "b"} {
		f, err := st.GetFigure(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, f.VarianceScore)
		assert.GreaterOrEqual(t, *f.VarianceScore, 0.0)
		assert.LessOrEqual(t, *f.VarianceScore, 1.0)
	}

	// Identical ranks mean zero disagreement.
	b, err := st.GetFigure(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, 0.0, *b.VarianceScore)
}

func TestRecomputeIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("napoleon", "Napoleon Bonaparte")))
	require.NoError(t, st.PutFigure(ctx, newFigure("caesar", "Julius Caesar")))
	addContribution(t, st, "napoleon", "model-a", 3)
	addContribution(t, st, "napoleon", "model-b", 7)
	addContribution(t, st, "caesar", "model-a", 1)

	agg := consensus.New()
	require.NoError(t, agg.RecomputeAll(ctx, st))

	first := map[types.FigureID][2]float64{}
	figures, err := st.ListFigures(ctx)
	require.NoError(t, err)
	for _, f := range figures {
		require.NotNil(t, f.ConsensusRank)
		first[f.ID] = [2]float64{*f.ConsensusRank, *f.VarianceScore}
	}

	require.NoError(t, agg.RecomputeAll(ctx, st))
	figures, err = st.ListFigures(ctx)
	require.NoError(t, err)
	for _, f := range figures {
		assert.Equal(t, first[f.ID][0], *f.ConsensusRank)
		assert.Equal(t, first[f.ID][1], *f.VarianceScore)
	}
}

func TestCustomPenalty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	require.NoError(t, st.PutFigure(ctx, newFigure("ada", "Ada Lovelace")))
	require.NoError(t, st.PutFigure(ctx, newFigure("alan", "Alan Turing")))
	addContribution(t, st, "ada", "model-a", 10)
	addContribution(t, st, "alan", "model-b", 10)

	agg := consensus.New(consensus.WithPenaltyRank(100))
	require.NoError(t, agg.RecomputeAll(ctx, st))

	f, err := st.GetFigure(ctx, "ada")
	require.NoError(t, err)
	require.NotNil(t, f.ConsensusRank)
	// (10 + 100) / 2
	assert.Equal(t, 55.0, *f.ConsensusRank)
}
