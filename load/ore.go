package load

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alphacrucible/news-etl/extract"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// schemaDDL is idempotent; the unique constraint is what makes re-runs safe.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS copper;

CREATE TABLE IF NOT EXISTS copper.yfinance_news (
    id SERIAL PRIMARY KEY,
    ticker VARCHAR(20) NOT NULL,
    title TEXT,
    summary TEXT,
    publisher VARCHAR(255),
    link TEXT,
    published_date TIMESTAMP,
    image_url TEXT,
    created_at TIMESTAMP DEFAULT now(),
    UNIQUE (ticker, link, published_date)
);
`

const insertNewsQuery = `
INSERT INTO copper.yfinance_news (ticker, title, summary, publisher, link, published_date, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (ticker, link, published_date) DO NOTHING
`

const hasNewsQuery = `
SELECT EXISTS (
    SELECT 1 FROM copper.yfinance_news
    WHERE ticker = $1 AND published_date >= $2 AND published_date < $3
)
`

// OreDB wraps the connection to the destination ORE database, where the
// copper.yfinance_news table lives.
type OreDB struct {
	Logger *slog.Logger
	DB     *sqlx.DB
}

func NewOreDB(dsn string, logger *slog.Logger) (*OreDB, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ORE database: %w", err)
	}

	logger.Info("Connected to ORE database")

	return &OreDB{
		Logger: logger,
		DB:     db,
	}, nil
}

func (db *OreDB) Close() error {
	return db.DB.Close()
}

// InitSchema creates the copper schema and the yfinance_news table if they
// do not exist yet.
func (db *OreDB) InitSchema(ctx context.Context) error {
	if _, err := db.DB.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to initialize copper.yfinance_news schema: %w", err)
	}
	return nil
}

// HasNewsForDate reports whether any news row already exists for the ticker
// on the given calendar day. Existence is the processed marker; there is no
// separate tracking table.
func (db *OreDB) HasNewsForDate(ctx context.Context, ticker string, day time.Time) (bool, error) {
	dayStart, dayEnd := dayBounds(day)

	var exists bool
	if err := db.DB.GetContext(ctx, &exists, hasNewsQuery, ticker, dayStart, dayEnd); err != nil {
		return false, fmt.Errorf("failed to check existing news for ticker %s on %s: %w",
			ticker, day.Format(time.DateOnly), err)
	}

	return exists, nil
}

// InsertNews writes the items for a ticker and returns the number of rows
// actually inserted. Rows colliding on (ticker, link, published_date) are
// skipped silently.
func (db *OreDB) InsertNews(ctx context.Context, ticker string, day time.Time, items []extract.NewsItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	inserted := 0
	for _, item := range items {
		res, err := db.DB.ExecContext(ctx, insertNewsQuery,
			ticker, item.Title, item.Summary, item.Publisher, item.Link, item.PublishedAt, item.ImageURL)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert news for ticker %s on %s: %w",
				ticker, day.Format(time.DateOnly), err)
		}

		rows, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to get rows affected for ticker %s: %w", ticker, err)
		}
		inserted += int(rows)
	}

	db.Logger.Debug("Inserted news rows", "ticker", ticker, "date", day.Format(time.DateOnly), "inserted", inserted)

	return inserted, nil
}

// dayBounds returns the half-open [start, end) interval covering the
// calendar day of t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
