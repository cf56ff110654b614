package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/pkg/types"
)

// NewListCommand creates the list command.
func NewListCommand(app Application) *cobra.Command {
	var (
		limit      int
		candidates bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		GroupID: "core",
		Short:   "List figures by consensus rank",
		Long: `List prints the catalog ordered by consensus rank, best first. Figures
without a consensus rank sort last. With --candidates it lists the
candidate pool instead.`,
		Example: `  pantheon list
  pantheon list --limit 25
  pantheon list --candidates`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			p, err := app.Pantheon()
			if err != nil {
				return err
			}

			if candidates {
				pool, err := p.Store().ListCandidates(ctx)
				if err != nil {
					return err
				}
				return renderCandidates(cmd, app, pool, limit)
			}

			figures, err := p.Store().ListFigures(ctx)
			if err != nil {
				return err
			}
			sort.Slice(figures, func(i, j int) bool {
				ri, rj := figures[i].ConsensusRank, figures[j].ConsensusRank
				switch {
				case ri == nil && rj == nil:
					return figures[i].ID < figures[j].ID
				case ri == nil:
					return false
				case rj == nil:
					return true
				case *ri != *rj:
					return *ri < *rj
				default:
					return figures[i].ID < figures[j].ID
				}
			})
			if limit > 0 && len(figures) > limit {
				figures = figures[:limit]
			}

			if format := app.Format(); format == "json" || format == "yaml" {
				return render(cmd.OutOrStdout(), format, figures)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCONSENSUS\tVARIANCE")
			for _, f := range figures {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					f.ID, f.Name, formatFloat(f.ConsensusRank), formatFloat(f.VarianceScore))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows to print (0 = all)")
	cmd.Flags().BoolVar(&candidates, "candidates", false, "list the candidate pool instead of figures")

	return cmd
}

func renderCandidates(cmd *cobra.Command, app Application, pool []types.Candidate, limit int) error {
	sort.Slice(pool, func(i, j int) bool {
		if pool[i].Mentions != pool[j].Mentions {
			return pool[i].Mentions > pool[j].Mentions
		}
		return pool[i].NormalizedName < pool[j].NormalizedName
	})
	if limit > 0 && len(pool) > limit {
		pool = pool[:limit]
	}

	if format := app.Format(); format == "json" || format == "yaml" {
		return render(cmd.OutOrStdout(), format, pool)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCES\tMENTIONS\tAVG RANK")
	for _, c := range pool {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\n",
			c.NormalizedName, c.SourceCount(), c.Mentions, c.AvgRank)
	}
	return w.Flush()
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
