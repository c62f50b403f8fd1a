package models

import "time"

// SellAnalysisRecord captures one Sell event with its FIFO-matched cost
// basis. The current_*/unrealized_*/opportunity fields are nil, not zero,
// when no current price could be obtained for the symbol.
type SellAnalysisRecord struct {
	Symbol   string    `json:"symbol"`
	SellDate time.Time `json:"sell_date"`
	Account  string    `json:"account,omitempty"`
	Currency string    `json:"currency,omitempty"`

	SharesSold      float64 `json:"shares_sold"`
	SellPrice       float64 `json:"sell_price"`
	GrossProceeds   float64 `json:"gross_proceeds"`
	Fees            float64 `json:"fees"`
	NetProceeds     float64 `json:"net_proceeds"`
	WeightedAvgCost float64 `json:"weighted_avg_cost"`
	TotalCostBasis  float64 `json:"total_cost_basis"`
	RealizedPnL     float64 `json:"realized_pnl"`
	RealizedPnLPct  float64 `json:"realized_pnl_pct"`

	CurrentPrice          *float64 `json:"current_price,omitempty"`
	CurrentMarketValue    *float64 `json:"current_market_value,omitempty"`
	CurrentNetProceeds    *float64 `json:"current_net_proceeds,omitempty"`
	UnrealizedPnL         *float64 `json:"unrealized_pnl,omitempty"`
	UnrealizedPnLPct      *float64 `json:"unrealized_pnl_pct,omitempty"`
	OpportunityDifference *float64 `json:"opportunity_difference,omitempty"`
}

// SellAnalysisSummary aggregates the full sell record set.
type SellAnalysisSummary struct {
	TotalRealizedPnL     float64  `json:"total_realized_pnl"`
	AvgRealizedPnLPct    float64  `json:"avg_realized_pnl_pct"`
	TotalUnrealizedPnL   *float64 `json:"total_unrealized_pnl,omitempty"`
	AvgUnrealizedPnLPct  *float64 `json:"avg_unrealized_pnl_pct,omitempty"`
	TotalOpportunityDiff *float64 `json:"total_opportunity_diff,omitempty"`
	BestRealizedSymbol   string   `json:"best_realized_symbol,omitempty"`
	BestRealizedPct      float64  `json:"best_realized_pct,omitempty"`
	WorstRealizedSymbol  string   `json:"worst_realized_symbol,omitempty"`
	WorstRealizedPct     float64  `json:"worst_realized_pct,omitempty"`
	SoldTooEarly         int      `json:"sold_too_early"`
	SoldAtRightTime      int      `json:"sold_at_right_time"`
}

// SymbolSellSummary aggregates sell records per symbol.
type SymbolSellSummary struct {
	Symbol              string   `json:"symbol"`
	SharesSold          float64  `json:"shares_sold"`
	GrossProceeds       float64  `json:"gross_proceeds"`
	TotalCostBasis      float64  `json:"total_cost_basis"`
	RealizedPnL         float64  `json:"realized_pnl"`
	RealizedPnLTotalPct float64  `json:"realized_pnl_total_pct"`
	UnrealizedPnL       *float64 `json:"unrealized_pnl,omitempty"`
	OpportunityDiff     *float64 `json:"opportunity_difference,omitempty"`
}
