package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// Converter converts amounts between currencies through anchor rate tables.
// Both methods are total functions: a zero amount or unknown currency never
// fails, and a missing rate falls through to 1.0.
type Converter interface {
	ToUSD(amount float64, currency string) float64
	ToEUR(amount float64, currency string) float64
	Table() *models.RateTable
}

// PortfolioService exposes the accounting and analytics engine.
type PortfolioService interface {
	// BuildReport runs the full analysis over the loaded portfolio
	BuildReport(ctx context.Context) (*models.Report, error)

	// Valuation computes priced holdings sections (per account + global views)
	Valuation(ctx context.Context) ([]models.ValuationSection, *models.ValuationSection, *models.ValuationSection, error)

	// Performance computes the monthly performance series versus the benchmark
	Performance(ctx context.Context) ([]models.MonthlyPerformanceRecord, error)

	// SellAnalysis attributes realized P&L to individual sell events
	SellAnalysis(ctx context.Context) ([]models.SellAnalysisRecord, *models.SellAnalysisSummary, []models.SymbolSellSummary, error)
}

// PortfolioStore loads the externally owned portfolio file and persists
// report artifacts.
type PortfolioStore interface {
	// Load reads and normalizes the portfolio file
	Load(ctx context.Context) (*PortfolioData, error)

	// SaveReport writes a report artifact atomically, returning the path
	SaveReport(name string, data []byte) (string, error)
}

// PortfolioData is the normalized content of the portfolio file.
type PortfolioData struct {
	Accounts  []models.Account
	Watchlist []models.WatchlistItem
	Targets   map[string]float64 // asset class -> target percent (0-100)
	UpdatedAt time.Time
}
