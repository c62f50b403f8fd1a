package models

import (
	"strings"
	"time"
)

// StockInfo is a live market quote with the descriptive fields used for
// enrichment and classification.
type StockInfo struct {
	Symbol        string    `json:"symbol"`
	CompanyName   string    `json:"company_name"`
	Country       string    `json:"country,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Industry      string    `json:"industry,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	QuoteType     string    `json:"quote_type,omitempty"`
	CurrentPrice  float64   `json:"current_price"`
	High52Week    float64   `json:"high_52_week,omitempty"`
	Low52Week     float64   `json:"low_52_week,omitempty"`
	MarketCap     float64   `json:"market_cap,omitempty"`
	PERatio       float64   `json:"pe_ratio,omitempty"`
	DividendYield float64   `json:"dividend_yield,omitempty"`
	LastUpdated   time.Time `json:"last_updated"`
}

// PriceBar is one day of historical price data.
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Asset class names produced by AssetClass.
const (
	AssetClassUSStocks       = "US Stocks"
	AssetClassRomanianStocks = "Romanian Stocks"
	AssetClassIntlStocks     = "International Stocks"
	AssetClassETF            = "ETF"
	AssetClassCrypto         = "Crypto"
	AssetClassCash           = "Cash"
	AssetClassUnknown        = "Unknown"
)

// AssetClass classifies a position from its quote type and country.
func AssetClass(quoteType, country string) string {
	switch strings.ToUpper(strings.TrimSpace(quoteType)) {
	case "EQUITY":
		switch country {
		case "United States":
			return AssetClassUSStocks
		case "Romania":
			return AssetClassRomanianStocks
		default:
			return AssetClassIntlStocks
		}
	case "ETF":
		return AssetClassETF
	case "CRYPTOCURRENCY":
		return AssetClassCrypto
	default:
		return AssetClassUnknown
	}
}

// WatchlistItem is an entry from the portfolio file's watchlist.
type WatchlistItem struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name,omitempty"`
	Currency    string  `json:"currency,omitempty"`
	TargetPrice float64 `json:"target_price,omitempty"`
	Note        string  `json:"note,omitempty"`
}
