package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/alphacrucible/news-etl/config"
	"github.com/hashicorp/go-retryablehttp"
)

const defaultNewsCount = 25

// NewsItem is a single news record for a ticker, as returned by the
// Yahoo Finance news endpoint.
type NewsItem struct {
	Ticker      string
	Title       string
	Summary     string
	Publisher   string
	Link        string
	PublishedAt time.Time
	ImageURL    string
}

// YahooClient fetches news for a ticker from the Yahoo Finance search API.
type YahooClient struct {
	HTTPClient *retryablehttp.Client
	Logger     *slog.Logger
	BaseURL    string
	newsCount  int
}

func NewYahooClient(config *config.Config, logger *slog.Logger) *YahooClient {
	client := &YahooClient{
		HTTPClient: retryablehttp.NewClient(),
		Logger:     logger,
		BaseURL:    config.Yahoo.BaseURL,
		newsCount:  config.Yahoo.NewsCount,
	}

	if client.BaseURL == "" {
		client.BaseURL = "https://query1.finance.yahoo.com"
	}
	if client.newsCount <= 0 {
		client.newsCount = defaultNewsCount
	}

	client.HTTPClient.RetryWaitMin = config.Extract.Backoff.RetryWaitMin
	client.HTTPClient.RetryWaitMax = config.Extract.Backoff.RetryWaitMax
	client.HTTPClient.RetryMax = config.Extract.Backoff.RetryMax
	client.HTTPClient.Logger = logger

	return client
}

// GetNews fetches the raw news records for a ticker, in whatever order the
// provider returns them. Records without a parseable publish time get a
// zero PublishedAt and are left for the date filter to drop.
func (c *YahooClient) GetNews(ctx context.Context, ticker string) ([]NewsItem, error) {
	newsURL, err := c.searchURL(ticker)
	if err != nil {
		return nil, err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, newsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build news request for ticker %s: %w", ticker, err)
	}
	// Yahoo rejects requests without a browser-like User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64)")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news for ticker %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read news response for ticker %s: %w", ticker, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch news for ticker %s, status: %s, body: %s",
			ticker, resp.Status, string(body))
	}

	var raw searchResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode news response for ticker %s: %w", ticker, err)
	}

	items := make([]NewsItem, 0, len(raw.News))
	for _, n := range raw.News {
		var publishedAt time.Time
		if n.ProviderPublishTime > 0 {
			publishedAt = time.Unix(n.ProviderPublishTime, 0).UTC()
		}

		var imageURL string
		if len(n.Thumbnail.Resolutions) > 0 {
			imageURL = n.Thumbnail.Resolutions[0].URL
		}

		items = append(items, NewsItem{
			Ticker:      ticker,
			Title:       n.Title,
			Summary:     n.Summary,
			Publisher:   n.Publisher,
			Link:        n.Link,
			PublishedAt: publishedAt,
			ImageURL:    imageURL,
		})
	}

	return items, nil
}

// searchURL builds the news search URL for a ticker
func (c *YahooClient) searchURL(ticker string) (string, error) {
	parsedURL, err := url.Parse(c.BaseURL + "/v1/finance/search")
	if err != nil {
		return "", fmt.Errorf("failed to parse news URL: %w", err)
	}

	query := parsedURL.Query()
	query.Set("q", ticker)
	query.Set("newsCount", fmt.Sprintf("%d", c.newsCount))
	query.Set("quotesCount", "0")
	parsedURL.RawQuery = query.Encode()

	return parsedURL.String(), nil
}

type searchResponse struct {
	News []searchNewsItem `json:"news"`
}

type searchNewsItem struct {
	UUID                string          `json:"uuid"`
	Title               string          `json:"title"`
	Summary             string          `json:"summary"`
	Publisher           string          `json:"publisher"`
	Link                string          `json:"link"`
	ProviderPublishTime int64           `json:"providerPublishTime"`
	Thumbnail           searchThumbnail `json:"thumbnail"`
}

type searchThumbnail struct {
	Resolutions []searchResolution `json:"resolutions"`
}

type searchResolution struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}
