// Package embedded ships the curated baseline catalog compiled into the
// binary: a small, hand-verified set of figures with canonical attributes
// and a baseline ranking.
//
// The baseline gives a fresh store recognizable anchor figures so that the
// first ingested model lists resolve against known names instead of
// flooding the candidate pool. Baseline contributions are recorded under
// the reserved baseline source, which the consensus pass excludes.
package embedded

import (
	"context"
	_ "embed"

	"github.com/agentstation/utc"
	"github.com/goccy/go-yaml"

	"github.com/pantheonlab/pantheon/internal/store"
	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/names"
	"github.com/pantheonlab/pantheon/pkg/types"
)

//go:embed baseline.yaml
var baselineYAML []byte

// seedFigure is one baseline catalog entry as stored in baseline.yaml.
type seedFigure struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Rank         int      `yaml:"rank"`
	BirthYear    *int     `yaml:"birth_year,omitempty"`
	DeathYear    *int     `yaml:"death_year,omitempty"`
	Domain       *string  `yaml:"domain,omitempty"`
	Era          *string  `yaml:"era,omitempty"`
	Region       *string  `yaml:"region,omitempty"`
	Latitude     *float64 `yaml:"latitude,omitempty"`
	Longitude    *float64 `yaml:"longitude,omitempty"`
	ExternalID   *string  `yaml:"external_id,omitempty"`
	ExternalRank *int     `yaml:"external_rank,omitempty"`
	Aliases      []string `yaml:"aliases,omitempty"`
}

type seedFile struct {
	Figures []seedFigure `yaml:"figures"`
}

// load parses the embedded baseline catalog.
func load() ([]seedFigure, error) {
	var f seedFile
	if err := yaml.Unmarshal(baselineYAML, &f); err != nil {
		return nil, errors.WrapParse("yaml", "baseline.yaml", err)
	}
	return f.Figures, nil
}

// Count returns the number of figures in the embedded baseline.
func Count() (int, error) {
	figures, err := load()
	if err != nil {
		return 0, err
	}
	return len(figures), nil
}

// Apply seeds the store with the baseline catalog in one transaction:
// figures with their curated attributes, alias entries for their normalized
// names, and one baseline contribution per figure.
//
// Apply is idempotent over figures: an ID already present in the store is
// left untouched and not counted.
func Apply(ctx context.Context, st store.Store) (int, error) {
	figures, err := load()
	if err != nil {
		return 0, err
	}

	seeded := 0
	err = st.Transact(ctx, func(tx store.Store) error {
		for _, s := range figures {
			id := types.FigureID(s.ID)
			exists, err := tx.HasFigure(ctx, id)
			if err != nil {
				return err
			}
			if exists {
				continue
			}

			now := utc.Now()
			f := &types.Figure{
				ID:           id,
				Name:         s.Name,
				BirthYear:    s.BirthYear,
				DeathYear:    s.DeathYear,
				Domain:       s.Domain,
				Era:          s.Era,
				Region:       s.Region,
				Latitude:     s.Latitude,
				Longitude:    s.Longitude,
				ExternalID:   s.ExternalID,
				ExternalRank: s.ExternalRank,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := tx.PutFigure(ctx, f); err != nil {
				return err
			}

			if key := names.Key(s.Name); key != "" {
				if err := tx.PutAlias(ctx, key, id); err != nil {
					return err
				}
			}
			for _, alias := range s.Aliases {
				if key := names.Key(alias); key != "" {
					if err := tx.PutAlias(ctx, key, id); err != nil {
						return err
					}
				}
			}

			if s.Rank > 0 {
				if err := tx.AddContribution(ctx, types.Contribution{
					FigureID: id,
					Source:   types.BaselineID,
					Rank:     s.Rank,
				}); err != nil {
					return err
				}
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return seeded, nil
}
