package cmd

import (
	"fmt"
	"time"

	"github.com/alphacrucible/news-etl/pipeline"
	"github.com/spf13/cobra"
)

func newBackfillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backfill <start> <end>",
		Short: "Runs the news ETL over an explicit date range",
		Long:  "Same as 'run' but the inclusive range is given as YYYY-MM-DD arguments instead of START_DATE/END_DATE.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(time.DateOnly, args[0])
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", args[0], err)
			}
			end, err := time.Parse(time.DateOnly, args[1])
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", args[1], err)
			}
			if end.Before(start) {
				return fmt.Errorf("end date %s is before start date %s", args[1], args[0])
			}

			cfg, log, err := initializeConfigAndLogger()
			if err != nil {
				return err
			}

			p, err := pipeline.NewPipeline(cfg, log)
			if err != nil {
				return err
			}
			defer p.Close()

			summary, err := p.Run(cmd.Context(), start, end)
			if err != nil {
				log.Error(fmt.Sprintf("Error running backfill: %v", err))
				return err
			}
			log.Info("Backfill completed",
				"dates", summary.Dates,
				"tickers", summary.Tickers,
				"skipped", summary.Skipped,
				"inserted", summary.Inserted,
				"failed", summary.Failed)
			return nil
		},
	}
}
