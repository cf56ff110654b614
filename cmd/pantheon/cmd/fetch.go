package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/pkg/errors"
	"github.com/pantheonlab/pantheon/pkg/ingest"
	"github.com/pantheonlab/pantheon/pkg/sources"
)

// NewFetchCommand creates the fetch command.
func NewFetchCommand(app Application) *cobra.Command {
	var (
		providers []string
		count     int
		samples   int
		outDir    string
	)

	cmd := &cobra.Command{
		Use:     "fetch",
		GroupID: "core",
		Short:   "Fetch ranked lists from model providers and ingest them",
		Long: `Fetch asks each configured language model provider for its ranking of the
most historically significant people and ingests the replies. With --out the
raw lists are written as YAML files instead, for review or later ingestion
with "pantheon ingest".

Providers need API keys configured through environment variables or the
config file. Repeated samples from one provider capture run-to-run
variation; the consensus pass averages within a source before averaging
across sources.`,
		Example: `  pantheon fetch
  pantheon fetch --provider openai --count 100 --samples 3
  pantheon fetch --out rankings/`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := app.Logger()

			if len(providers) == 0 {
				providers = app.Providers()
			}
			if len(providers) == 0 {
				return fmt.Errorf("no providers configured: set OPENAI_API_KEY or GEMINI_API_KEY")
			}

			for _, name := range providers {
				cfg, err := app.SourceConfig(name)
				if err != nil {
					return err
				}
				provider, err := sources.New(cfg)
				if err != nil {
					return err
				}

				for i := 0; i < samples; i++ {
					list, err := provider.FetchRanking(ctx, count)
					if err != nil {
						// One provider failing must not lose the others' runs.
						logger.Error().Err(err).
							Str("provider", name).
							Msg("Fetch failed")
						break
					}

					if outDir != "" {
						path, err := writeRawList(outDir, list)
						if err != nil {
							return err
						}
						fmt.Fprintf(cmd.OutOrStdout(),
							"%s sample %d/%d: wrote %s (%d entries)\n",
							name, i+1, samples, path, len(list.Entries))
						continue
					}

					p, err := app.Pantheon()
					if err != nil {
						return err
					}
					report, err := p.Ingest(ctx, list)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(),
						"%s sample %d/%d: contributions=%d candidates=%d skipped=%d\n",
						name, i+1, samples,
						report.Contributions, report.Candidates, report.Skipped)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&providers, "provider", nil, "providers to fetch from (default: all configured)")
	cmd.Flags().IntVar(&count, "count", 100, "ranking length to request")
	cmd.Flags().IntVar(&samples, "samples", 1, "samples per provider")
	cmd.Flags().StringVar(&outDir, "out", "", "write raw lists as YAML files into this directory instead of ingesting")

	return cmd
}

// writeRawList persists one raw list as a YAML file named after its source
// and sample ID, assigning a sample ID first if the provider left it empty.
func writeRawList(dir string, list *ingest.RawList) (string, error) {
	if list.SampleID == "" {
		list.SampleID = uuid.NewString()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapIO("mkdir", dir, err)
	}

	data, err := yaml.Marshal(list)
	if err != nil {
		return "", errors.WrapParse("yaml", "", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", list.Source, list.SampleID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapIO("write", path, err)
	}
	return path, nil
}
