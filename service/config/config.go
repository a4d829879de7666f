package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	ex "stockdash/data/extensions"
)

const (
	ProviderAlphaVantage = "alphavantage"
	ProviderPolygon      = "polygon"
	ProviderCsv          = "csv"
)

var (
	DefaultTickers = []string{"AAPL", "GOOG", "MSFT", "NFLX", "TSLA"}
	DefaultStart   = time.Date(2018, time.January, 1, 0, 0, 0, 0, time.UTC)
	DefaultEnd     = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
)

type Config struct {
	// Universe
	Tickers   []string  `validate:"min=2,unique,dive,required"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required"`

	// Market data
	Provider           string `validate:"oneof=alphavantage polygon csv"`
	AlphaVantageApiKey string `validate:"required_if=Provider alphavantage"`
	PolygonApiKey      string `validate:"required_if=Provider polygon"`
	PricesCsv          string `validate:"required_if=Provider csv"`
	FetchConcurrency   int    `validate:"min=1,max=16"`

	// Storage, optional
	DatabaseUrl string

	// HTTP
	HttpAddr         string `validate:"required"`
	CorsAllowOrigins []string `validate:"min=1,dive,required"`

	// Logging
	LogLevel string `validate:"oneof=debug info warn error"`

	// EnvFileError is why .env was not loaded, nil when it was
	EnvFileError error `validate:"-"`
}

// Load reads .env (if present) and the environment, falling back to the
// fixed ticker universe and date range
func Load() (*Config, error) {
	envFileErr := godotenv.Load()

	start, err := envDate("START_DATE", DefaultStart)
	if err != nil {
		return nil, err
	}

	end, err := envDate("END_DATE", DefaultEnd)
	if err != nil {
		return nil, err
	}

	concurrency, err := envInt("FETCH_CONCURRENCY", 1)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Tickers:   envList("TICKERS", DefaultTickers),
		StartDate: start,
		EndDate:   end,

		Provider:           strings.ToLower(envStr("MARKET_DATA_PROVIDER", ProviderAlphaVantage)),
		AlphaVantageApiKey: envStr("ALPHAVANTAGE_API_KEY", ""),
		PolygonApiKey:      envStr("POLYGON_API_KEY", ""),
		PricesCsv:          envStr("PRICES_CSV", ""),
		FetchConcurrency:   concurrency,

		DatabaseUrl: envStr("DATABASE_URL", ""),

		HttpAddr:         envStr("HTTP_ADDR", ":5006"),
		CorsAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{"http://localhost:5006"}),

		LogLevel: strings.ToLower(envStr("LOG_LEVEL", "info")),

		EnvFileError: envFileErr,
	}

	for i, t := range cfg.Tickers {
		cfg.Tickers[i] = ex.NormalizeSymbol(t)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	// the same checks cors.New panics on when the engine is built
	if err := (cors.Config{AllowOrigins: c.CorsAllowOrigins}).Validate(); err != nil {
		return fmt.Errorf("config validation failed: CORS_ALLOW_ORIGINS: %w", err)
	}

	if !c.StartDate.Before(c.EndDate) {
		return fmt.Errorf("config validation failed: START_DATE %s must be before END_DATE %s", ex.FmtShort(c.StartDate), ex.FmtShort(c.EndDate))
	}

	return nil
}

// UsesDatabase reports if downloaded prices should be stored in postgres
func (c *Config) UsesDatabase() bool {
	return c.DatabaseUrl != ""
}

// --- helpers ---

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("error parsing %s=%q as an integer: %w", key, v, err)
	}
	return n, nil
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), fallback...)
	}

	var res []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			res = append(res, s)
		}
	}
	return res
}

func envDate(key string, fallback time.Time) (time.Time, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("error parsing %s=%q as a date: %w", key, v, err)
	}
	return t, nil
}
