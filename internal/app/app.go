// Package app wires configuration, clients, storage and services into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/clients/exchangerate"
	"github.com/bobmcallan/folio/internal/clients/yahoo"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/fx"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/storage/portfoliofs"
)

// App holds all initialized clients, storage and services.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Store            *portfoliofs.Store
	QuoteClient      interfaces.QuoteClient
	RatesClient      interfaces.RatesClient
	Converter        interfaces.Converter
	PortfolioService interfaces.PortfolioService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Config resolution: explicit path, FOLIO_CONFIG, binary dir, dev fallback
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	config.ResolvePaths(binDir)

	logger := common.NewLoggerFromConfig(config.Logging)

	store, err := portfoliofs.NewStore(logger, config.Portfolio, config.Reports.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open portfolio store: %w", err)
	}

	quoteClient := yahoo.NewClient(
		yahoo.WithBaseURL(config.Clients.Quotes.BaseURL),
		yahoo.WithRateLimit(config.Clients.Quotes.RateLimit),
		yahoo.WithTimeout(config.Clients.Quotes.GetTimeout()),
		yahoo.WithLogger(logger),
	)
	ratesClient := exchangerate.NewClient(
		exchangerate.WithBaseURL(config.Clients.Rates.BaseURL),
		exchangerate.WithTimeout(config.Clients.Rates.GetTimeout()),
		exchangerate.WithLogger(logger),
	)
	converter := fx.NewConverter(ratesClient, logger)

	portfolioService := portfolio.NewService(
		store,
		quoteClient,
		converter,
		logger,
		portfolio.WithBenchmark(config.Benchmark),
		portfolio.WithConcurrency(config.Clients.Quotes.Concurrency),
	)

	logger.Info().
		Str("version", common.GetVersion()).
		Dur("startup", time.Since(startupStart)).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Store:            store,
		QuoteClient:      quoteClient,
		RatesClient:      ratesClient,
		Converter:        converter,
		PortfolioService: portfolioService,
		StartupTime:      startupStart,
	}, nil
}

// Run executes one full analysis and writes the report artifacts.
// Returns the path of the report JSON.
func (a *App) Run(ctx context.Context) (string, error) {
	report, err := a.PortfolioService.BuildReport(ctx)
	if err != nil {
		return "", err
	}

	reportPath, err := a.Store.SaveReportJSON("portfolio_report.json", report)
	if err != nil {
		return "", err
	}

	if a.Config.Reports.Chart && len(report.Performance) >= 2 {
		png, err := portfolio.RenderPerformanceChart(report.Performance, a.Config.Benchmark)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("Chart render failed")
		} else if _, err := a.Store.SaveReport("performance_chart.png", png); err != nil {
			a.Logger.Warn().Err(err).Msg("Chart write failed")
		}
	}

	return reportPath, nil
}
