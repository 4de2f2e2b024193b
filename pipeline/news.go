package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alphacrucible/news-etl/config"
	"github.com/alphacrucible/news-etl/extract"
	"github.com/alphacrucible/news-etl/load"
	"github.com/alphacrucible/news-etl/transform"
	"github.com/alphacrucible/news-etl/utils"
)

// TickerSource lists the instruments to process.
type TickerSource interface {
	GetUniverseTickers(ctx context.Context) ([]string, error)
}

// NewsFetcher returns the raw news records for a ticker.
type NewsFetcher interface {
	GetNews(ctx context.Context, ticker string) ([]extract.NewsItem, error)
}

// NewsStore persists news rows and answers the processed check.
type NewsStore interface {
	HasNewsForDate(ctx context.Context, ticker string, day time.Time) (bool, error)
	InsertNews(ctx context.Context, ticker string, day time.Time, items []extract.NewsItem) (int, error)
}

// Summary aggregates the per-ticker outcomes of a run.
type Summary struct {
	Dates    int
	Tickers  int
	Skipped  int
	Fetched  int
	Inserted int
	Failed   int
}

type Pipeline struct {
	Source  TickerSource
	Store   NewsStore
	Fetcher NewsFetcher
	Logger  *slog.Logger

	failOnTickerError bool

	sourceDB *extract.SourceDB
	oreDB    *load.OreDB
}

// NewPipeline opens both database connections, ensures the destination
// schema exists and wires up the news client. Close releases the
// connections on all exit paths.
func NewPipeline(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	sourceDSN, err := cfg.SourceDSN()
	if err != nil {
		return nil, err
	}
	oreDSN, err := cfg.OreDSN()
	if err != nil {
		return nil, err
	}

	sourceDB, err := extract.NewSourceDB(sourceDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating source DB connection: %w", err)
	}

	oreDB, err := load.NewOreDB(oreDSN, logger)
	if err != nil {
		sourceDB.Close()
		return nil, fmt.Errorf("error creating ORE DB connection: %w", err)
	}

	if err := oreDB.InitSchema(context.Background()); err != nil {
		sourceDB.Close()
		oreDB.Close()
		return nil, err
	}

	return &Pipeline{
		Source:            sourceDB,
		Store:             oreDB,
		Fetcher:           extract.NewYahooClient(cfg, logger),
		Logger:            logger,
		failOnTickerError: cfg.Pipeline.FailOnTickerError,
		sourceDB:          sourceDB,
		oreDB:             oreDB,
	}, nil
}

func (p *Pipeline) Close() {
	if p.sourceDB != nil {
		p.sourceDB.Close()
	}
	if p.oreDB != nil {
		p.oreDB.Close()
	}
}

// Run processes every (date, ticker) pair in the inclusive range,
// sequentially. A ticker already holding rows for a date is skipped without
// fetching. Per-ticker errors are logged and accumulated; they abort only
// that ticker. The accumulated error is returned only when
// pipeline.fail_on_ticker_error is set.
func (p *Pipeline) Run(ctx context.Context, start, end time.Time) (Summary, error) {
	tickers, err := p.Source.GetUniverseTickers(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("error getting universe tickers: %w", err)
	}

	dates := utils.DatesInRange(start, end)
	summary := Summary{Dates: len(dates), Tickers: len(tickers)}

	p.Logger.Info("Starting news run",
		"start", start.Format(time.DateOnly),
		"end", end.Format(time.DateOnly),
		"tickers", len(tickers))

	var errorList []error
	for _, day := range dates {
		date := day.Format(time.DateOnly)
		for _, ticker := range tickers {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			p.Logger.Info("Processing ticker", "ticker", ticker, "date", date)

			processed, err := p.Store.HasNewsForDate(ctx, ticker, day)
			if err != nil {
				summary.Failed++
				errorList = append(errorList, err)
				p.Logger.Error("Processed check failed", "ticker", ticker, "date", date, "err", err)
				continue
			}
			if processed {
				summary.Skipped++
				p.Logger.Info("Skipping ticker, already processed", "ticker", ticker, "date", date)
				continue
			}

			items, err := p.Fetcher.GetNews(ctx, ticker)
			if err != nil {
				summary.Failed++
				errorList = append(errorList, err)
				p.Logger.Error("Fetch failed", "ticker", ticker, "date", date, "err", err)
				continue
			}
			summary.Fetched++

			filtered := transform.FilterByDate(items, day)
			if len(filtered) == 0 {
				p.Logger.Info("No news for date", "ticker", ticker, "date", date, "fetched", len(items))
				continue
			}

			inserted, err := p.Store.InsertNews(ctx, ticker, day, filtered)
			summary.Inserted += inserted
			if err != nil {
				summary.Failed++
				errorList = append(errorList, err)
				p.Logger.Error("Insert failed", "ticker", ticker, "date", date, "err", err)
				continue
			}

			p.Logger.Info("Inserted news", "ticker", ticker, "date", date,
				"fetched", len(items), "matched", len(filtered), "inserted", inserted)
		}
	}

	if len(errorList) > 0 {
		p.Logger.Warn("Run completed with ticker failures", "failed", len(errorList))
		if p.failOnTickerError {
			return summary, errors.Join(errorList...)
		}
	}

	return summary, nil
}
