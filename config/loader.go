package config

import (
	"fmt"
	"io"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/alphacrucible/news-etl/utils"
	"github.com/spf13/viper"
)

type Config struct {
	Extract  ExtractConfig
	Yahoo    YahooConfig
	Pipeline PipelineConfig
	Env      string
}

type ExtractConfig struct {
	Backoff BackoffConfig
}

type BackoffConfig struct {
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`
	RetryMax     int           `mapstructure:"retry_max"`
}

type YahooConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	NewsCount int    `mapstructure:"news_count"`
}

type PipelineConfig struct {
	// FailOnTickerError flips the process exit code when any ticker
	// failed during the run, even though the run itself completed.
	FailOnTickerError bool `mapstructure:"fail_on_ticker_error"`
}

// NewConfig loads the configuration from the provided base config reader
// and merges it with the environment-specific configuration.
func NewConfig(baseConfigReader io.Reader, envConfigReader io.Reader, env string) (*Config, error) {
	if env == "" { // Use the provided 'env' or default to "dev"
		env = "dev"
	}

	viper.SetConfigType("yaml")

	// Read the base configuration
	if err := viper.ReadConfig(baseConfigReader); err != nil {
		return nil, fmt.Errorf("error reading base config: %w", err)
	}

	// Merge with environment-specific configuration (only if provided)
	if envConfigReader != nil {
		if err := viper.MergeConfig(envConfigReader); err != nil {
			log.Printf("Error merging environment-specific config: %s", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Set the environment directly
	config.Env = env

	return &config, nil
}

// SourceDSN resolves the source database connection string: DATABASE_URL
// takes precedence, else the DSN is composed from the DB_* parts.
func (c *Config) SourceDSN() (string, error) {
	return resolveDSN("DATABASE_URL", "DB")
}

// OreDSN resolves the destination (ORE) database connection string from
// ORE_DATABASE_URL or the ORE_DB_* parts.
func (c *Config) OreDSN() (string, error) {
	return resolveDSN("ORE_DATABASE_URL", "ORE_DB")
}

func resolveDSN(urlVar, prefix string) (string, error) {
	if dsn := os.Getenv(urlVar); dsn != "" {
		return dsn, nil
	}

	host := os.Getenv(prefix + "_HOST")
	name := os.Getenv(prefix + "_NAME")
	if host == "" || name == "" {
		return "", fmt.Errorf("neither %s nor %s_HOST/%s_NAME are set", urlVar, prefix, prefix)
	}

	port := os.Getenv(prefix + "_PORT")
	if port == "" {
		port = "5432"
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%s", host, port),
		Path:   name,
	}
	if user := os.Getenv(prefix + "_USER"); user != "" {
		u.User = url.UserPassword(user, os.Getenv(prefix+"_PASSWORD"))
	}
	if sslmode := os.Getenv(prefix + "_SSLMODE"); sslmode != "" {
		q := u.Query()
		q.Set("sslmode", sslmode)
		u.RawQuery = q.Encode()
	}

	return u.String(), nil
}

// DateRange returns the inclusive [start, end] range from START_DATE and
// END_DATE (YYYY-MM-DD). Either bound defaults to today when unset.
func (c *Config) DateRange(tp utils.TimeProvider) (time.Time, time.Time, error) {
	today := utils.Midnight(tp.Now())

	start, err := parseDateOr("START_DATE", today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDateOr("END_DATE", today)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("END_DATE %s is before START_DATE %s",
			end.Format(time.DateOnly), start.Format(time.DateOnly))
	}

	return start, end, nil
}

func parseDateOr(envVar string, fallback time.Time) (time.Time, error) {
	raw := os.Getenv(envVar)
	if raw == "" {
		return fallback, nil
	}

	date, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s %q: %w", envVar, raw, err)
	}

	return date, nil
}
