package resolve

import (
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// MergeTable is the curated duplicate mapping: each survivor ID owns the
// list of known-duplicate IDs to fold into it. It covers what strong-key
// grouping cannot catch, like transliteration variants, and is maintained
// as a versioned artifact alongside the dataset, not hardcoded.
type MergeTable map[types.FigureID][]types.FigureID

// mergeTableFile is the on-disk YAML shape of a merge table.
type mergeTableFile struct {
	Merges map[string][]string `yaml:"merges"`
}

// LoadMergeTable reads a curated merge table from a YAML file of the form:
//
//	merges:
//	  napoleon: [napoleon-bonaparte, napoleon-i]
//	  laozi: [lao-tzu]
func LoadMergeTable(path string) (MergeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var file mergeTableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}

	table := make(MergeTable, len(file.Merges))
	for survivor, losers := range file.Merges {
		ids := make([]types.FigureID, 0, len(losers))
		for _, loser := range losers {
			ids = append(ids, types.FigureID(loser))
		}
		table[types.FigureID(survivor)] = ids
	}
	return table, nil
}

// Survivors returns the survivor IDs in deterministic order.
func (t MergeTable) Survivors() []types.FigureID {
	out := make([]types.FigureID, 0, len(t))
	for id := range t {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
