package extract

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alphacrucible/news-etl/config"
	"github.com/stretchr/testify/assert"
)

func getTestConfig() *config.Config {
	return &config.Config{
		Extract: config.ExtractConfig{
			Backoff: config.BackoffConfig{
				RetryWaitMin: 10 * time.Millisecond,
				RetryWaitMax: 20 * time.Millisecond,
				RetryMax:     1,
			},
		},
		Yahoo: config.YahooConfig{
			NewsCount: 10,
		},
	}
}

func getTestLogger(buffer *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buffer, nil))
}

func setupNewsServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not found"))
			return
		}

		switch r.URL.Query().Get("q") {
		case "AAPL":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"news": [
					{
						"uuid": "a1",
						"title": "Apple unveils new chip",
						"summary": "The company announced a new processor.",
						"publisher": "Reuters",
						"link": "https://example.com/apple-chip",
						"providerPublishTime": 1736899200,
						"thumbnail": {"resolutions": [{"url": "https://img.example.com/a1.jpg", "width": 640, "height": 360}]}
					},
					{
						"uuid": "a2",
						"title": "Untimed item",
						"publisher": "Unknown",
						"link": "https://example.com/untimed",
						"providerPublishTime": 0
					}
				]
			}`))
		case "EMPTY":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"news": []}`))
		case "BROKEN":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"news": [`))
		case "DENIED":
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte("rate limited"))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not found"))
		}
	}))
}

func setupTestClient(server *httptest.Server) *YahooClient {
	cfg := getTestConfig()
	client := NewYahooClient(cfg, getTestLogger(&bytes.Buffer{}))
	client.BaseURL = server.URL
	client.HTTPClient.HTTPClient = server.Client()
	client.HTTPClient.RetryMax = 0
	return client
}

func TestNewYahooClient_Defaults(t *testing.T) {
	cfg := getTestConfig()
	cfg.Yahoo.NewsCount = 0

	client := NewYahooClient(cfg, getTestLogger(&bytes.Buffer{}))
	assert.Equal(t, "https://query1.finance.yahoo.com", client.BaseURL)
	assert.Equal(t, defaultNewsCount, client.newsCount)
	assert.Equal(t, cfg.Extract.Backoff.RetryMax, client.HTTPClient.RetryMax)
}

func TestYahooClient_SearchURL(t *testing.T) {
	client := NewYahooClient(getTestConfig(), getTestLogger(&bytes.Buffer{}))
	client.BaseURL = "https://example.com"

	url, err := client.searchURL("MSFT")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/v1/finance/search?newsCount=10&q=MSFT&quotesCount=0", url)
}

func TestYahooClient_GetNews(t *testing.T) {
	server := setupNewsServer()
	defer server.Close()

	client := setupTestClient(server)

	items, err := client.GetNews(context.Background(), "AAPL")
	assert.NoError(t, err)
	assert.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "AAPL", first.Ticker)
	assert.Equal(t, "Apple unveils new chip", first.Title)
	assert.Equal(t, "The company announced a new processor.", first.Summary)
	assert.Equal(t, "Reuters", first.Publisher)
	assert.Equal(t, "https://example.com/apple-chip", first.Link)
	assert.Equal(t, "https://img.example.com/a1.jpg", first.ImageURL)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first.PublishedAt)

	// Missing publish time comes through as a zero timestamp
	assert.True(t, items[1].PublishedAt.IsZero())
	assert.Empty(t, items[1].ImageURL)
}

func TestYahooClient_GetNews_Empty(t *testing.T) {
	server := setupNewsServer()
	defer server.Close()

	client := setupTestClient(server)

	items, err := client.GetNews(context.Background(), "EMPTY")
	assert.NoError(t, err)
	assert.Empty(t, items)
}

func TestYahooClient_GetNews_Errors(t *testing.T) {
	server := setupNewsServer()
	defer server.Close()

	client := setupTestClient(server)

	tests := []struct {
		name        string
		ticker      string
		errContains string
	}{
		{
			name:        "malformed body",
			ticker:      "BROKEN",
			errContains: "failed to decode news response for ticker BROKEN",
		},
		{
			name:        "unknown ticker",
			ticker:      "NOPE",
			errContains: "failed to fetch news for ticker NOPE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := client.GetNews(context.Background(), tt.ticker)
			assert.Error(t, err)
			assert.Nil(t, items)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}
