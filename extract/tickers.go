package extract

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// SourceDB wraps the connection to the main database holding the
// universe_tickers reference table.
type SourceDB struct {
	Logger *slog.Logger
	DB     *sqlx.DB
}

func NewSourceDB(dsn string, logger *slog.Logger) (*SourceDB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to source database: %w", err)
	}

	logger.Info("Connected to source database")

	return &SourceDB{
		Logger: logger,
		DB:     db,
	}, nil
}

func (s *SourceDB) Close() error {
	return s.DB.Close()
}

// GetUniverseTickers returns the distinct ticker symbols from the
// universe_tickers table, uppercased and sorted. Blank symbols are dropped.
func (s *SourceDB) GetUniverseTickers(ctx context.Context) ([]string, error) {
	var raw []string
	query := "SELECT DISTINCT ticker FROM universe_tickers WHERE ticker IS NOT NULL"
	if err := s.DB.SelectContext(ctx, &raw, query); err != nil {
		return nil, fmt.Errorf("failed to query universe_tickers: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	tickers := make([]string, 0, len(raw))
	for _, t := range raw {
		ticker := strings.ToUpper(strings.TrimSpace(t))
		if ticker == "" {
			continue
		}
		if _, ok := seen[ticker]; ok {
			continue
		}
		seen[ticker] = struct{}{}
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	return tickers, nil
}
