package embedded_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/internal/embedded"
	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/types"
)

func TestBaselineParses(t *testing.T) {
	n, err := embedded.Count()
	require.NoError(t, err)
	assert.Equal(t, 20, n)
}

func TestApplySeedsStore(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	seeded, err := embedded.Apply(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, 20, seeded)

	f, err := st.GetFigure(ctx, "isaac-newton")
	require.NoError(t, err)
	assert.Equal(t, "Isaac Newton", f.Name)
	require.NotNil(t, f.ExternalID)
	assert.Equal(t, "Q935", *f.ExternalID)

	// Declared aliases resolve alongside the normalized name. The honorific
	// is dropped by normalization, so both spellings share one key.
	id, ok, err := st.ResolveAlias(ctx, "isaac newton")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.FigureID("isaac-newton"), id)

	id, ok, err = st.ResolveAlias(ctx, "jesus of nazareth")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, types.FigureID("jesus"), id)

	// Baseline contributions are recorded under the reserved source.
	contribs, err := st.ContributionsFor(ctx, "muhammad")
	require.NoError(t, err)
	require.Len(t, contribs, 1)
	assert.Equal(t, types.BaselineID, contribs[0].Source)
	assert.Equal(t, 1, contribs[0].Rank)
}

func TestApplyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()

	_, err := embedded.Apply(ctx, st)
	require.NoError(t, err)
	seeded, err := embedded.Apply(ctx, st)
	require.NoError(t, err)
	assert.Zero(t, seeded)

	figures, err := st.ListFigures(ctx)
	require.NoError(t, err)
	assert.Len(t, figures, 20)

	// No duplicate baseline contributions either.
	contribs, err := st.ContributionsFor(ctx, "muhammad")
	require.NoError(t, err)
	assert.Len(t, contribs, 1)
}
