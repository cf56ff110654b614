// Package ingest loads raw ranked lists produced by a source (a language
// model run, or the curated baseline) into the store.
//
// Each entry's name is normalized and looked up against known figures via
// the alias table. A recognized name becomes a ranking contribution; an
// unrecognized name feeds the candidate pool, where repeated cross-source
// mentions eventually qualify it for promotion.
package ingest

import (
	"context"
	"os"
	"strings"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/logging"
	"github.com/pantheonlab/pantheon/pkg/names"
	"github.com/pantheonlab/pantheon/pkg/types"
)

// Entry is one ranked name in a raw list.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Rank int    `json:"rank" yaml:"rank"`
}

// RawList is one source's ranked output, as loaded from disk or returned by
// a source client. SampleID distinguishes repeated runs of the same source;
// when empty, ingestion assigns one.
type RawList struct {
	Source   types.SourceID `json:"source" yaml:"source"`
	SampleID string         `json:"sample_id,omitempty" yaml:"sample_id,omitempty"`
	Entries  []Entry        `json:"entries" yaml:"entries"`
}

// LoadRawList reads a raw ranked list from a YAML file.
func LoadRawList(path string) (*RawList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var list RawList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &list, nil
}

// Ingester folds raw lists into contributions and candidates.
type Ingester struct{}

// New creates an Ingester.
func New() *Ingester {
	return &Ingester{}
}

// Ingest folds one raw list into the store atomically. Entries with an
// empty name or a non-positive rank are counted as skipped, never fatal:
// model output is messy and one bad row must not poison the list.
func (ing *Ingester) Ingest(ctx context.Context, st store.Store, list *RawList) (*types.IngestReport, error) {
	log := logging.FromContext(ctx)

	if list == nil || list.Source == "" {
		return nil, errors.NewValidationError("source", list, "raw list must name its source")
	}
	sampleID := list.SampleID
	if sampleID == "" {
		sampleID = uuid.NewString()
	}
	report := &types.IngestReport{Source: list.Source, SampleID: sampleID}

	err := st.Transact(ctx, func(tx store.Store) error {
		for _, entry := range list.Entries {
			name := strings.TrimSpace(entry.Name)
			if name == "" || entry.Rank <= 0 {
				report.Skipped++
				continue
			}

			key := names.Key(name)
			if key == "" {
				report.Skipped++
				continue
			}

			id, known, err := tx.ResolveAlias(ctx, key)
			if err != nil {
				return err
			}
			if known {
				sid := sampleID
				if err := tx.AddContribution(ctx, types.Contribution{
					FigureID: id,
					Source:   list.Source,
					SampleID: &sid,
					Rank:     entry.Rank,
				}); err != nil {
					return err
				}
				report.Contributions++
				continue
			}

			if err := observeCandidate(ctx, tx, key, name, list.Source, entry.Rank); err != nil {
				return err
			}
			report.Candidates++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("source", string(report.Source)).
		Str("sample_id", report.SampleID).
		Int("contributions", report.Contributions).
		Int("candidates", report.Candidates).
		Int("skipped", report.Skipped).
		Msg("Ingested raw list")
	return report, nil
}

// IngestFile loads and ingests one raw list from a YAML file.
func (ing *Ingester) IngestFile(ctx context.Context, st store.Store, path string) (*types.IngestReport, error) {
	list, err := LoadRawList(path)
	if err != nil {
		return nil, err
	}
	return ing.Ingest(ctx, st, list)
}

// observeCandidate folds one unrecognized mention into the candidate pool.
func observeCandidate(ctx context.Context, tx store.Store, key, display string, source types.SourceID, rank int) error {
	c, err := tx.GetCandidate(ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) {
			return err
		}
		c = &types.Candidate{
			NormalizedName: key,
			DisplayName:    display,
			CreatedAt:      utc.Now(),
		}
	}
	c.Observe(source, rank)
	return tx.UpsertCandidate(ctx, c)
}
