// Package interfaces defines service contracts for Folio
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// QuoteClient provides access to live and historical market prices.
// "No data" is a valid outcome: GetQuote returns (nil, nil) when the symbol
// is unknown to the provider.
type QuoteClient interface {
	// GetQuote retrieves the current quote and descriptive fields for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.StockInfo, error)

	// GetHistory retrieves daily price bars for a date range
	GetHistory(ctx context.Context, symbol string, from, to time.Time) ([]models.PriceBar, error)
}

// RatesClient provides exchange rates anchored at a base currency.
// Rates returns how much one unit of each listed currency is worth in the
// base currency.
type RatesClient interface {
	// Rates retrieves anchor rates for the given base currency code
	Rates(ctx context.Context, base string) (map[string]float64, error)
}
