package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/pkg/promote"
)

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(app Application) *cobra.Command {
	var (
		dryRun      bool
		minSources  int
		minMentions int
		maxAvgRank  float64
	)

	cmd := &cobra.Command{
		Use:     "promote",
		GroupID: "core",
		Short:   "Graduate well-attested candidates into figures",
		Long: `Promote scans the candidate pool and graduates names that clear any one
threshold: enough distinct sources, enough total mentions, or a good enough
average rank. Each promotion creates a canonical figure with a slug ID and
an alias for the normalized name, and consumes the candidate.`,
		Example: `  pantheon promote
  pantheon promote --dry-run
  pantheon promote --min-sources 3 --max-avg-rank 100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := app.Pantheon()
			if err != nil {
				return err
			}

			promoter := promote.New(
				promote.WithDryRun(dryRun),
				promote.WithThresholds(promote.Thresholds{
					MinSources:  minSources,
					MinMentions: minMentions,
					MaxAvgRank:  maxAvgRank,
				}),
			)
			report, err := promoter.Promote(ctx, p.Store())
			if err != nil {
				return err
			}

			if format := app.Format(); format == "json" || format == "yaml" {
				return render(cmd.OutOrStdout(), format, report)
			}

			out := cmd.OutOrStdout()
			verb := "promoted"
			if dryRun {
				verb = "would promote"
			}
			for _, id := range report.Promoted {
				fmt.Fprintf(out, "%s %s\n", verb, id)
			}
			fmt.Fprintf(out, "%d promoted, %d skipped, %d remaining\n",
				len(report.Promoted),
				report.SkippedSlug+report.SkippedTaken,
				report.Remaining)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report what would promote without writing")
	cmd.Flags().IntVar(&minSources, "min-sources", promote.DefaultMinSources, "minimum distinct sources")
	cmd.Flags().IntVar(&minMentions, "min-mentions", promote.DefaultMinMentions, "minimum total mentions")
	cmd.Flags().Float64Var(&maxAvgRank, "max-avg-rank", promote.DefaultMaxAvgRank, "worst acceptable average rank")

	return cmd
}
