package cmd

import (
	"fmt"

	"github.com/alphacrucible/news-etl/extract"
	"github.com/alphacrucible/news-etl/load"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verifies both database connections and the ticker query",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := initializeConfigAndLogger()
			if err != nil {
				return err
			}

			sourceDSN, err := cfg.SourceDSN()
			if err != nil {
				return err
			}
			oreDSN, err := cfg.OreDSN()
			if err != nil {
				return err
			}

			sourceDB, err := extract.NewSourceDB(sourceDSN, log)
			if err != nil {
				return fmt.Errorf("source database check failed: %w", err)
			}
			defer sourceDB.Close()

			oreDB, err := load.NewOreDB(oreDSN, log)
			if err != nil {
				return fmt.Errorf("ORE database check failed: %w", err)
			}
			defer oreDB.Close()

			tickers, err := sourceDB.GetUniverseTickers(cmd.Context())
			if err != nil {
				return fmt.Errorf("ticker query check failed: %w", err)
			}

			sample := tickers
			if len(sample) > 10 {
				sample = sample[:10]
			}
			log.Info("All checks passed", "tickers", len(tickers), "sample", sample)
			return nil
		},
	}
}
