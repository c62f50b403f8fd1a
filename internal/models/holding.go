package models

import "time"

// Lot is an unconsumed slice of a past Buy carrying its own price and date.
// Lots are never merged, even when price and date match.
type Lot struct {
	Shares float64   `json:"shares"`
	Price  float64   `json:"price"`
	Date   time.Time `json:"date"`
}

// Holding is the replayed position for one symbol within one scope (a single
// account, or all accounts merged). Lots are ordered oldest first.
type Holding struct {
	Symbol          string  `json:"symbol"`
	Name            string  `json:"name"`
	Currency        string  `json:"currency"`
	Lots            []Lot   `json:"lots"`
	TotalShares     float64 `json:"total_shares"`
	TotalCost       float64 `json:"total_cost"`
	WeightedAvgCost float64 `json:"weighted_avg_cost"`
}

// RecalculateTotals recomputes share and cost totals from the surviving lots.
// Totals are always derived from lots, never tracked incrementally.
func (h *Holding) RecalculateTotals() {
	var shares, cost float64
	for _, lot := range h.Lots {
		shares += lot.Shares
		cost += lot.Shares * lot.Price
	}
	h.TotalShares = shares
	h.TotalCost = cost
	if shares > 0 {
		h.WeightedAvgCost = cost / shares
	} else {
		h.WeightedAvgCost = 0
	}
}
