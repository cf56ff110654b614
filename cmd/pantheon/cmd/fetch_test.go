package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantheonlab/pantheon/pkg/ingest"
)

func TestWriteRawListRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rankings")

	list := &ingest.RawList{
		Source:   "model-a",
		SampleID: "run-1",
		Entries: []ingest.Entry{
			{Name: "Isaac Newton", Rank: 1},
			{Name: "Marie Curie", Rank: 2},
		},
	}

	path, err := writeRawList(dir, list)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "model-a-run-1.yaml"), path)

	loaded, err := ingest.LoadRawList(path)
	require.NoError(t, err)
	assert.Equal(t, list.Source, loaded.Source)
	assert.Equal(t, list.SampleID, loaded.SampleID)
	assert.Equal(t, list.Entries, loaded.Entries)
}

func TestWriteRawListAssignsSampleID(t *testing.T) {
	dir := t.TempDir()

	list := &ingest.RawList{
		Source:  "model-b",
		Entries: []ingest.Entry{{Name: "Plato", Rank: 3}},
	}

	path, err := writeRawList(dir, list)
	require.NoError(t, err)
	assert.NotEmpty(t, list.SampleID)

	loaded, err := ingest.LoadRawList(path)
	require.NoError(t, err)
	assert.Equal(t, list.SampleID, loaded.SampleID)
}
