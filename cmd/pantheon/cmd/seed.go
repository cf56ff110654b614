package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon/internal/embedded"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(app Application) *cobra.Command {
	return &cobra.Command{
		Use:     "seed",
		GroupID: "management",
		Short:   "Seed the store with the embedded baseline catalog",
		Long: `Seed loads the curated baseline catalog compiled into the binary:
hand-verified figures with canonical attributes, alias entries for their
names, and the baseline ranking. Figures already present are left
untouched, so seeding an existing store is safe.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := app.Pantheon()
			if err != nil {
				return err
			}
			seeded, err := embedded.Apply(cmd.Context(), p.Store())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d figures seeded\n", seeded)
			return nil
		},
	}
}
