package cmd

import (
	"fmt"

	"github.com/alphacrucible/news-etl/pipeline"
	"github.com/alphacrucible/news-etl/utils"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Runs the news ETL over the configured date range",
		Long: "Fetches news for every universe ticker on each date in the " +
			"START_DATE..END_DATE range (default: today) and loads them into " +
			"copper.yfinance_news. Already-processed tickers are skipped.",
		RunE: runConfiguredRange,
	}
}

// runConfiguredRange is both the `run` subcommand and the behavior of the
// bare entry point: the date range and connections come entirely from the
// environment.
func runConfiguredRange(cmd *cobra.Command, args []string) error {
	cfg, log, err := initializeConfigAndLogger()
	if err != nil {
		return err
	}

	start, end, err := cfg.DateRange(utils.RealTimeProvider{})
	if err != nil {
		return fmt.Errorf("error resolving date range: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, log)
	if err != nil {
		return err
	}
	defer p.Close()

	summary, err := p.Run(cmd.Context(), start, end)
	if err != nil {
		log.Error(fmt.Sprintf("Error running pipeline: %v", err))
		return err
	}
	log.Info("Batch job completed",
		"dates", summary.Dates,
		"tickers", summary.Tickers,
		"skipped", summary.Skipped,
		"fetched", summary.Fetched,
		"inserted", summary.Inserted,
		"failed", summary.Failed)
	return nil
}
