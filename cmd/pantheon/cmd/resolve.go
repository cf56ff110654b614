package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/pkg/resolve"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand(app Application) *cobra.Command {
	var (
		dryRun  bool
		suggest bool
		table   string
	)

	cmd := &cobra.Command{
		Use:     "resolve",
		GroupID: "core",
		Short:   "Merge duplicate figures",
		Long: `Resolve finds figures that denote the same real-world person and merges
each duplicate into a single surviving figure.

Duplicates are discovered two ways: figures sharing an external identifier,
and pairs listed in a curated merge table. Fuzzy name similarity never
merges anything; with --suggest, near-matches are reported for review.

After merging, consensus ranks are recomputed across the new contribution
ownership.`,
		Example: `  pantheon resolve
  pantheon resolve --dry-run
  pantheon resolve --merge-table merges.yaml --suggest`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := app.Pantheon()
			if err != nil {
				return err
			}

			opts := []resolve.Option{
				resolve.WithDryRun(dryRun),
				resolve.WithSuggestions(suggest),
			}
			if table != "" {
				mt, err := resolve.LoadMergeTable(table)
				if err != nil {
					return err
				}
				opts = append(opts, resolve.WithMergeTable(mt))
			}

			report, err := resolve.New(opts...).Resolve(ctx, p.Store())
			if err != nil {
				return err
			}

			if format := app.Format(); format == "json" || format == "yaml" {
				return render(cmd.OutOrStdout(), format, report)
			}

			out := cmd.OutOrStdout()
			verb := "merged"
			if report.DryRun {
				verb = "would merge"
			}
			for _, pair := range report.Merged {
				fmt.Fprintf(out, "%s %s -> %s (%s, %d contributions, %d aliases)\n",
					verb, pair.Loser, pair.Survivor, pair.Strategy,
					pair.Contributions, pair.Aliases)
			}
			for _, s := range report.Suggestions {
				fmt.Fprintf(out, "suggest: %s ~ %s (distance %d)\n", s.A, s.B, s.Distance)
			}
			fmt.Fprintf(out, "%d merged, %d skipped\n", len(report.Merged), report.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would merge without writing")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "report advisory fuzzy-name near-matches")
	cmd.Flags().StringVar(&table, "merge-table", "", "curated merge table YAML file")

	return cmd
}
