package models

import "testing"

func TestAssetClass(t *testing.T) {
	tests := []struct {
		quoteType string
		country   string
		want      string
	}{
		{"EQUITY", "United States", AssetClassUSStocks},
		{"equity", "United States", AssetClassUSStocks},
		{"EQUITY", "Romania", AssetClassRomanianStocks},
		{"EQUITY", "Germany", AssetClassIntlStocks},
		{"EQUITY", "", AssetClassIntlStocks},
		{"ETF", "United States", AssetClassETF},
		{"CRYPTOCURRENCY", "", AssetClassCrypto},
		{"MUTUALFUND", "", AssetClassUnknown},
		{"", "United States", AssetClassUnknown},
	}
	for _, tc := range tests {
		if got := AssetClass(tc.quoteType, tc.country); got != tc.want {
			t.Errorf("AssetClass(%q, %q) = %q, want %q", tc.quoteType, tc.country, got, tc.want)
		}
	}
}

func TestCurrencyCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"$", "USD"},
		{"€", "EUR"},
		{"£", "GBP"},
		{"¥", "JPY"},
		{"usd", "USD"},
		{" ron ", "RON"},
		{"XYZ", "XYZ"},
	}
	for _, tc := range tests {
		if got := CurrencyCode(tc.in); got != tc.want {
			t.Errorf("CurrencyCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStaticRateTableIsACopy(t *testing.T) {
	a := StaticRateTable()
	a.ToUSD["EUR"] = 999
	b := StaticRateTable()
	if b.ToUSD["EUR"] == 999 {
		t.Error("static table must hand out independent copies")
	}
}

func TestHoldingRecalculateTotals(t *testing.T) {
	h := &Holding{Lots: []Lot{
		{Shares: 10, Price: 100},
		{Shares: 5, Price: 120},
	}}
	h.RecalculateTotals()
	if h.TotalShares != 15 || h.TotalCost != 1600 {
		t.Errorf("totals = %.2f shares / %.2f cost", h.TotalShares, h.TotalCost)
	}
	if got := h.WeightedAvgCost; got < 106.66 || got > 106.67 {
		t.Errorf("weighted avg = %.4f, want 1600/15", got)
	}

	h.Lots = nil
	h.RecalculateTotals()
	if h.TotalShares != 0 || h.WeightedAvgCost != 0 {
		t.Errorf("empty holding totals = %+v", h)
	}
}
