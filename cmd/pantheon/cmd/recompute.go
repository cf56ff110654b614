package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRecomputeCommand creates the recompute command.
func NewRecomputeCommand(app Application) *cobra.Command {
	return &cobra.Command{
		Use:     "recompute",
		GroupID: "core",
		Short:   "Recompute consensus ranks and variance scores",
		Long: `Recompute re-derives every figure's consensus rank and variance score
from the current set of ranking contributions. Sources that never ranked a
figure are imputed a penalty rank so that obscure single-source figures do
not outrank widely agreed ones.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.Pantheon()
			if err != nil {
				return err
			}
			if err := p.RecomputeConsensus(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "consensus recomputed")
			return nil
		},
	}
}
