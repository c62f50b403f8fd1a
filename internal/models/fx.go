package models

import (
	"strings"
	"time"
)

// RateTable holds exchange rates anchored at two base currencies: ToUSD maps
// a currency code to its USD value per unit, ToEUR likewise for EUR. The two
// tables are independent and never composed through each other.
type RateTable struct {
	ToUSD     map[string]float64 `json:"to_usd"`
	ToEUR     map[string]float64 `json:"to_eur"`
	Source    string             `json:"source"` // "live" or "static"
	FetchedAt time.Time          `json:"fetched_at"`
}

// Static fallback rates, used whenever the live source is unreachable.
var (
	staticUSDRates = map[string]float64{
		"USD": 1.0,
		"EUR": 1.10,
		"RON": 0.22,
		"GBP": 1.25,
		"JPY": 0.007,
	}
	staticEURRates = map[string]float64{
		"USD": 0.91,
		"EUR": 1.0,
		"RON": 0.20,
		"GBP": 1.14,
		"JPY": 0.0064,
	}
)

// StaticRateTable returns the static fallback table.
func StaticRateTable() *RateTable {
	usd := make(map[string]float64, len(staticUSDRates))
	for k, v := range staticUSDRates {
		usd[k] = v
	}
	eur := make(map[string]float64, len(staticEURRates))
	for k, v := range staticEURRates {
		eur[k] = v
	}
	return &RateTable{ToUSD: usd, ToEUR: eur, Source: "static"}
}

// currencySymbols maps display symbols in transaction data to ISO codes.
var currencySymbols = map[string]string{
	"$": "USD",
	"€": "EUR",
	"£": "GBP",
	"¥": "JPY",
}

// CurrencyCode normalizes a currency symbol or ISO code to an ISO code.
// Unrecognized input passes through uppercased; the converter treats an
// unknown code as rate 1.0.
func CurrencyCode(s string) string {
	s = strings.TrimSpace(s)
	if code, ok := currencySymbols[s]; ok {
		return code
	}
	return strings.ToUpper(s)
}
