package pantheon_test

import (
	"context"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon"
	"github.com/pantheonlab/pantheon/internal/utils/ptr"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/types"
)

func seedFigure(t *testing.T, p pantheon.Pantheon, id, name string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, p.Store().PutFigure(ctx, &types.Figure{
		ID:        types.FigureID(id),
		Name:      name,
		CreatedAt: utc.Now(),
		UpdatedAt: utc.Now(),
	}))
	require.NoError(t, p.Store().PutAlias(ctx, id, types.FigureID(id)))
}

func TestNewDefaultsToMemoryStore(t *testing.T) {
	p, err := pantheon.New()
	require.NoError(t, err)
	defer p.Close()
	require.NotNil(t, p.Store())
}

func TestLookupViaAlias(t *testing.T) {
	ctx := context.Background()
	p, err := pantheon.New()
	require.NoError(t, err)
	defer p.Close()

	seedFigure(t, p, "napoleon", "Napoleon Bonaparte")
	require.NoError(t, p.Store().PutAlias(ctx, "napoleon bonaparte", "napoleon"))

	// Raw spellings normalize to the same alias key.
	f, err := p.Lookup(ctx, "Napoléon Bonaparte")
	require.NoError(t, err)
	assert.Equal(t, types.FigureID("napoleon"), f.ID)

	f, err = p.Lookup(ctx, "  napoleon  bonaparte ")
	require.NoError(t, err)
	assert.Equal(t, types.FigureID("napoleon"), f.ID)

	_, err = p.Lookup(ctx, "Nobody In Particular")
	require.Error(t, err)
}

func TestIngestThenPromoteThenConsensus(t *testing.T) {
	ctx := context.Background()
	p, err := pantheon.New()
	require.NoError(t, err)
	defer p.Close()

	var promoted []types.FigureID
	p.OnFigurePromoted(func(id types.FigureID) {
		promoted = append(promoted, id)
	})

	for _, src := range []string{"model-a", "model-b"} {
		_, err := p.Ingest(ctx, &ingest.RawList{
			Source:  types.SourceID(src),
			Entries: []ingest.Entry{{Name: "Ada Lovelace", Rank: 40}},
		})
		require.NoError(t, err)
	}

	report, err := p.PromoteCandidates(ctx)
	require.NoError(t, err)
	require.Equal(t, []types.FigureID{"ada-lovelace"}, report.Promoted)
	assert.Equal(t, report.Promoted, promoted)

	// Re-ingest: the name now resolves to the promoted figure.
	ing, err := p.Ingest(ctx, &ingest.RawList{
		Source:  "model-a",
		Entries: []ingest.Entry{{Name: "Ada Lovelace", Rank: 35}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, ing.Contributions)

	require.NoError(t, p.RecomputeConsensus(ctx))
	f, err := p.Lookup(ctx, "Ada Lovelace")
	require.NoError(t, err)
	require.NotNil(t, f.ConsensusRank)
	assert.Equal(t, 35.0, *f.ConsensusRank)
}

func TestResolveDuplicatesFiresHooks(t *testing.T) {
	ctx := context.Background()
	p, err := pantheon.New()
	require.NoError(t, err)
	defer p.Close()

	var merged []types.MergePair
	p.OnFigureMerged(func(pair types.MergePair) {
		merged = append(merged, pair)
	})

	a := &types.Figure{
		ID: "curie", Name: "Marie Curie",
		ExternalID: ptr.String("Q7186"), ExternalRank: ptr.Int(8),
		CreatedAt: utc.Now(), UpdatedAt: utc.Now(),
	}
	b := &types.Figure{
		ID: "curie-dup", Name: "Madame Curie",
		ExternalID: ptr.String("Q7186"), ExternalRank: ptr.Int(90),
		CreatedAt: utc.Now(), UpdatedAt: utc.Now(),
	}
	require.NoError(t, p.Store().PutFigure(ctx, a))
	require.NoError(t, p.Store().PutFigure(ctx, b))

	report, err := p.ResolveDuplicates(ctx)
	require.NoError(t, err)
	require.Len(t, report.Merged, 1)
	require.Len(t, merged, 1)
	assert.Equal(t, types.FigureID("curie"), merged[0].Survivor)
}

func TestLookupCacheInvalidatedByMerge(t *testing.T) {
	ctx := context.Background()
	p, err := pantheon.New()
	require.NoError(t, err)
	defer p.Close()

	a := &types.Figure{
		ID: "einstein", Name: "Albert Einstein",
		ExternalID: ptr.String("Q937"), ExternalRank: ptr.Int(3),
		CreatedAt: utc.Now(), UpdatedAt: utc.Now(),
	}
	b := &types.Figure{
		ID: "einstein-dup", Name: "A Einstein",
		ExternalID: ptr.String("Q937"), ExternalRank: ptr.Int(88),
		CreatedAt: utc.Now(), UpdatedAt: utc.Now(),
	}
	require.NoError(t, p.Store().PutFigure(ctx, a))
	require.NoError(t, p.Store().PutAlias(ctx, "a einstein", "einstein-dup"))
	require.NoError(t, p.Store().PutFigure(ctx, b))

	// Prime the cache with the soon-to-be-merged duplicate.
	f, err := p.Lookup(ctx, "A Einstein")
	require.NoError(t, err)
	assert.Equal(t, types.FigureID("einstein-dup"), f.ID)

	_, err = p.ResolveDuplicates(ctx)
	require.NoError(t, err)

	// Post-merge the same spelling resolves to the survivor.
	f, err = p.Lookup(ctx, "A Einstein")
	require.NoError(t, err)
	assert.Equal(t, types.FigureID("einstein"), f.ID)
}
