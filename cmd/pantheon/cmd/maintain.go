package cmd

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/pantheonlab/pantheon"
)

// NewMaintainCommand creates the maintain command.
func NewMaintainCommand(app Application) *cobra.Command {
	var schedule string

	cmd := &cobra.Command{
		Use:     "maintain",
		GroupID: "management",
		Short:   "Run maintenance passes on a schedule",
		Long: `Maintain runs the full maintenance cycle (resolve duplicates, promote
candidates, recompute consensus) on a cron schedule until interrupted.

Passes are serialized: a cycle still running when the next tick fires is
allowed to finish and the tick is dropped.`,
		Example: `  pantheon maintain --every "@every 1h"
  pantheon maintain --every "0 3 * * *"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			logger := app.Logger()
			p, err := app.Pantheon()
			if err != nil {
				return err
			}

			var mu sync.Mutex
			cycle := func() {
				if !mu.TryLock() {
					logger.Warn().Msg("Skipping maintenance tick: previous cycle still running")
					return
				}
				defer mu.Unlock()
				runCycle(ctx, app, p)
			}

			c := cron.New()
			if _, err := c.AddFunc(schedule, cycle); err != nil {
				return err
			}

			logger.Info().Str("schedule", schedule).Msg("Maintenance scheduler started")
			cycle()
			c.Start()

			<-ctx.Done()
			logger.Info().Msg("Shutting down maintenance scheduler")
			// Stop returns once any in-flight cycle completes.
			<-c.Stop().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&schedule, "every", "@every 1h", "cron schedule for maintenance cycles")

	return cmd
}

// runCycle executes one maintenance cycle, logging failures per pass so a
// bad pass does not abort the scheduler.
func runCycle(ctx context.Context, app Application, p pantheon.Pantheon) {
	logger := app.Logger()

	if report, err := p.ResolveDuplicates(ctx); err != nil {
		logger.Error().Err(err).Msg("Resolve pass failed")
	} else {
		logger.Info().Int("merged", len(report.Merged)).Msg("Resolve pass complete")
	}

	if report, err := p.PromoteCandidates(ctx); err != nil {
		logger.Error().Err(err).Msg("Promote pass failed")
	} else {
		logger.Info().Int("promoted", len(report.Promoted)).Msg("Promote pass complete")
	}

	// ResolveDuplicates already recomputes, but promotion may have added
	// figures since.
	if err := p.RecomputeConsensus(ctx); err != nil {
		logger.Error().Err(err).Msg("Consensus pass failed")
	}
}
