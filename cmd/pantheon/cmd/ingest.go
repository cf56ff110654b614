package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/pkg/ingest"
)

// NewIngestCommand creates the ingest command.
func NewIngestCommand(app Application) *cobra.Command {
	return &cobra.Command{
		Use:     "ingest <file>...",
		GroupID: "core",
		Short:   "Load raw ranked lists into the catalog",
		Args:    cobra.MinimumNArgs(1),
		Long: `Ingest loads one or more raw ranked lists from YAML files.

Each entry's name is matched against known figures via the alias table.
Recognized names become ranking contributions; unrecognized names feed the
candidate pool for later promotion. Malformed entries are counted and
skipped, never fatal.`,
		Example: `  pantheon ingest runs/model-a-run1.yaml
  pantheon ingest runs/*.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.Pantheon()
			if err != nil {
				return err
			}

			for _, path := range args {
				list, err := ingest.LoadRawList(path)
				if err != nil {
					return err
				}
				report, err := p.Ingest(ctx, list)
				if err != nil {
					return err
				}

				if format := app.Format(); format == "json" || format == "yaml" {
					if err := render(cmd.OutOrStdout(), format, report); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s: source=%s sample=%s contributions=%d candidates=%d skipped=%d\n",
					path, report.Source, report.SampleID,
					report.Contributions, report.Candidates, report.Skipped)
			}
			return nil
		},
	}
}
