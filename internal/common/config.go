// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string        `toml:"environment"`
	Portfolio   string        `toml:"portfolio"` // path to the portfolio JSON file
	Reports     ReportsConfig `toml:"reports"`
	Benchmark   string        `toml:"benchmark"` // benchmark index symbol, default "^GSPC"
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ReportsConfig holds report output configuration
type ReportsConfig struct {
	Path  string `toml:"path"`  // output directory for report artifacts
	Chart bool   `toml:"chart"` // render the performance chart PNG
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Quotes QuoteClientConfig `toml:"quotes"`
	Rates  RateClientConfig  `toml:"rates"`
}

// QuoteClientConfig holds market quote API configuration
type QuoteClientConfig struct {
	BaseURL     string `toml:"base_url"`
	RateLimit   int    `toml:"rate_limit"`
	Timeout     string `toml:"timeout"`
	Concurrency int    `toml:"concurrency"` // parallel symbol lookups per batch
}

// GetTimeout parses and returns the timeout duration
func (c *QuoteClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// RateClientConfig holds exchange-rate API configuration
type RateClientConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *RateClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Portfolio:   "data/portfolio.json",
		Benchmark:   "^GSPC",
		Reports: ReportsConfig{
			Path:  "results",
			Chart: true,
		},
		Clients: ClientsConfig{
			Quotes: QuoteClientConfig{
				BaseURL:     "https://query2.finance.yahoo.com",
				RateLimit:   5,
				Timeout:     "30s",
				Concurrency: 4,
			},
			Rates: RateClientConfig{
				BaseURL: "https://api.exchangerate-api.com/v4",
				Timeout: "10s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if path := os.Getenv("FOLIO_PORTFOLIO"); path != "" {
		config.Portfolio = path
	}

	if path := os.Getenv("FOLIO_REPORTS_PATH"); path != "" {
		config.Reports.Path = path
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if symbol := os.Getenv("FOLIO_BENCHMARK"); symbol != "" {
		config.Benchmark = symbol
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolvePaths makes relative portfolio/report paths absolute against base.
func (c *Config) ResolvePaths(base string) {
	if c.Portfolio != "" && !filepath.IsAbs(c.Portfolio) {
		c.Portfolio = filepath.Join(base, c.Portfolio)
	}
	if c.Reports.Path != "" && !filepath.IsAbs(c.Reports.Path) {
		c.Reports.Path = filepath.Join(base, c.Reports.Path)
	}
}
