package models

import "time"

// MonthlyPerformanceRecord is one row of the monthly performance series.
// Records are produced oldest first and never reordered; the cumulative
// columns compound across the series as built.
type MonthlyPerformanceRecord struct {
	Month             time.Time `json:"month"` // first day of the month
	Label             string    `json:"label"` // e.g. "Jan 2024"
	PortfolioValueUSD float64   `json:"portfolio_value_usd"`
	HoldingCount      int       `json:"holding_count"`

	// AvgPctGainLoss is the unweighted mean of per-holding
	// (price - avg cost) / avg cost for the month. Monthly return is the
	// month-over-month difference of this signal.
	AvgPctGainLoss      float64 `json:"avg_pct_gain_loss"`
	MonthlyReturn       float64 `json:"monthly_return"`
	BenchmarkReturn     float64 `json:"benchmark_return"`
	Outperformance      float64 `json:"outperformance"`
	CumulativeReturn    float64 `json:"cumulative_return"`
	BenchmarkCumulative float64 `json:"benchmark_cumulative_return"`
	Alpha               float64 `json:"alpha"`
}
