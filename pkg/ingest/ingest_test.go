package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/types"
)

func seedFigure(t *testing.T, st store.Store, id, name, alias string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, st.PutFigure(ctx, &types.Figure{
		ID:        types.FigureID(id),
		Name:      name,
		CreatedAt: utc.Now(),
		UpdatedAt: utc.Now(),
	}))
	require.NoError(t, st.PutAlias(ctx, alias, types.FigureID(id)))
}

func TestIngestKnownAndUnknownNames(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedFigure(t, st, "napoleon", "Napoleon Bonaparte", "napoleon bonaparte")

	list := &ingest.RawList{
		Source: "model-a",
		Entries: []ingest.Entry{
			{Name: "Napoléon Bonaparte", Rank: 1},
			{Name: "Zerelda Samuel", Rank: 2},
		},
	}
	report, err := ingest.New().Ingest(ctx, st, list)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Contributions)
	assert.Equal(t, 1, report.Candidates)
	assert.Equal(t, 0, report.Skipped)
	assert.NotEmpty(t, report.SampleID)

	// The recognized name contributed to the existing figure.
	contribs, err := st.ContributionsFor(ctx, "napoleon")
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, types.SourceID("model-a"), contribs[0].Source)
	assert.Equal(t, 1, contribs[0].Rank)
	require.NotNil(t, contribs[0].SampleID)
	assert.Equal(t, report.SampleID, *contribs[0].SampleID)

	// The unrecognized name became a candidate.
	c, err := st.GetCandidate(ctx, "zerelda samuel")
	require.NoError(t, err)
	assert.Equal(t, "Zerelda Samuel", c.DisplayName)
	assert.Equal(t, 1, c.Mentions)
}

func TestIngestSkipsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	list := &ingest.RawList{
		Source: "model-a",
		Entries: []ingest.Entry{
			{Name: "", Rank: 1},
			{Name: "   ", Rank: 2},
			{Name: "Plato", Rank: 0},
			{Name: "Plato", Rank: -5},
			{Name: "Aristotle", Rank: 3},
		},
	}
	report, err := ingest.New().Ingest(ctx, st, list)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Skipped)
	assert.Equal(t, 1, report.Candidates)
}

func TestIngestAccumulatesCandidateAcrossSources(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	ing := ingest.New()

	_, err := ing.Ingest(ctx, st, &ingest.RawList{
		Source:  "model-a",
		Entries: []ingest.Entry{{Name: "Ada Lovelace", Rank: 100}},
	})
	require.NoError(t, err)
	_, err = ing.Ingest(ctx, st, &ingest.RawList{
		Source:  "model-b",
		Entries: []ingest.Entry{{Name: "Ada Lovelace", Rank: 200}},
	})
	require.NoError(t, err)

	c, err := st.GetCandidate(ctx, "ada lovelace")
	require.NoError(t, err)
	assert.Equal(t, 2, c.SourceCount())
	assert.Equal(t, 2, c.Mentions)
	assert.Equal(t, 150.0, c.AvgRank)
}

func TestIngestRequiresSource(t *testing.T) {
	st := store.NewMemory()
	_, err := ingest.New().Ingest(context.Background(), st, &ingest.RawList{})
	require.Error(t, err)
}

func TestIngestPreservesExplicitSampleID(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedFigure(t, st, "plato", "Plato", "plato")

	report, err := ingest.New().Ingest(ctx, st, &ingest.RawList{
		Source:   "model-a",
		SampleID: "run-7",
		Entries:  []ingest.Entry{{Name: "Plato", Rank: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, "run-7", report.SampleID)
}

func TestIngestFile(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	seedFigure(t, st, "cleopatra", "Cleopatra", "cleopatra")

	path := filepath.Join(t.TempDir(), "list.yaml")
	data := []byte(`source: model-a
sample_id: run-1
entries:
  - name: Cleopatra
    rank: 9
  - name: Boudica
    rank: 14
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	report, err := ingest.New().IngestFile(ctx, st, path)
	require.NoError(t, err)
	assert.Equal(t, types.SourceID("model-a"), report.Source)
	assert.Equal(t, 1, report.Contributions)
	assert.Equal(t, 1, report.Candidates)
}

func TestLoadRawListMissingFile(t *testing.T) {
	_, err := ingest.LoadRawList(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
