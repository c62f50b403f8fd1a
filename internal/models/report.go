package models

import "time"

// Report is the full output document of one analysis run: plain data for
// rendering collaborators, no behavior.
type Report struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	UpdatedAt   time.Time `json:"updated_at"` // data freshness date from the portfolio file

	Accounts  []ValuationSection `json:"accounts"`
	GlobalUSD *ValuationSection  `json:"global_usd,omitempty"`
	GlobalEUR *ValuationSection  `json:"global_eur,omitempty"`

	Allocation  []AllocationRow            `json:"allocation,omitempty"`
	Performance []MonthlyPerformanceRecord `json:"performance,omitempty"`
	Sells       []SellAnalysisRecord       `json:"sells,omitempty"`
	SellSummary *SellAnalysisSummary       `json:"sell_summary,omitempty"`
	SellSymbols []SymbolSellSummary        `json:"sell_symbols,omitempty"`
	Dividends   []DividendRow              `json:"dividends,omitempty"`
	Watchlist   []WatchlistRow             `json:"watchlist,omitempty"`

	Rates *RateTable `json:"rates,omitempty"`
}
