package models

// Price source markers on valuation rows.
const (
	PriceSourceLive    = "live"
	PriceSourceAvgCost = "avg_cost" // no quote available; weighted avg cost stands in
)

// ValuationRow is one priced position (or the synthetic cash row) within a
// valuation scope.
type ValuationRow struct {
	Symbol         string  `json:"symbol"`
	CompanyName    string  `json:"company_name"`
	Shares         float64 `json:"shares,omitempty"`
	AvgCost        float64 `json:"avg_cost,omitempty"`
	CurrentPrice   float64 `json:"current_price,omitempty"`
	MarketValue    float64 `json:"market_value"`
	UnrealizedGain float64 `json:"unrealized_gain"`
	PctGainLoss    float64 `json:"pct_gain_loss"`
	PctOfPortfolio float64 `json:"pct_of_portfolio"`
	Sector         string  `json:"sector,omitempty"`
	AssetClass     string  `json:"asset_class,omitempty"`
	Currency       string  `json:"currency"`
	PriceSource    string  `json:"price_source,omitempty"`
	IsCash         bool    `json:"is_cash,omitempty"`
}

// ValuationSection is one scope of the holdings report: a single account, or
// the global portfolio converted to USD or EUR. Percent-of-portfolio on each
// row is against this section's own total, cash included.
type ValuationSection struct {
	Title            string         `json:"title"`
	Scope            string         `json:"scope"` // account name, "global_usd", "global_eur"
	Currency         string         `json:"currency"`
	Rows             []ValuationRow `json:"rows"`
	TotalMarketValue float64        `json:"total_market_value"`
	TotalUnrealized  float64        `json:"total_unrealized"`
	TotalPctGainLoss float64        `json:"total_pct_gain_loss"`
}

// AllocationRow compares current and target allocation for one asset class.
type AllocationRow struct {
	AssetClass   string  `json:"asset_class"`
	CurrentPct   float64 `json:"current_pct"`
	TargetPct    float64 `json:"target_pct"`
	CurrentValue float64 `json:"current_value"`
	TargetValue  float64 `json:"target_value"`
	Difference   float64 `json:"difference"`
	Action       string  `json:"action"`
}

// DividendRow projects dividend income for one stock holding.
type DividendRow struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"company_name"`
	Shares            float64 `json:"shares"`
	CurrentPrice      float64 `json:"current_price"`
	AnnualDividend    float64 `json:"annual_dividend"`
	QuarterlyDividend float64 `json:"quarterly_dividend"`
	YieldPct          float64 `json:"yield_pct"`
	YTDReceived       float64 `json:"ytd_received"`
	ProjectedAnnual   float64 `json:"projected_annual"`
	Currency          string  `json:"currency"`
}

// WatchlistRow is a watchlist entry enriched with live quote data.
type WatchlistRow struct {
	Symbol        string  `json:"symbol"`
	CompanyName   string  `json:"company_name"`
	CurrentPrice  float64 `json:"current_price"`
	High52Week    float64 `json:"high_52_week"`
	Low52Week     float64 `json:"low_52_week"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	MarketCapB    float64 `json:"market_cap_b"` // billions
	TargetPrice   float64 `json:"target_price"`
	Note          string  `json:"note,omitempty"`
	Sector        string  `json:"sector,omitempty"`
	Currency      string  `json:"currency,omitempty"`
}
