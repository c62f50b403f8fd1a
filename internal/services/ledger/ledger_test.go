package ledger

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func day(s string) time.Time {
	t := models.ParseDate(s)
	if t.IsZero() {
		panic("bad test date: " + s)
	}
	return t
}

func buy(symbol string, shares, price float64, date string) models.Transaction {
	return models.Transaction{Symbol: symbol, Kind: models.TxBuy, Shares: shares, Price: price, Date: day(date), DateRaw: date}
}

func sell(symbol string, shares, price, fee float64, date string) models.Transaction {
	return models.Transaction{Symbol: symbol, Kind: models.TxSell, Shares: shares, Price: price, Fee: fee, Date: day(date), DateRaw: date}
}

func TestReplayPartialSellSplitsHeadLot(t *testing.T) {
	txns := []models.Transaction{
		buy("AAPL", 10, 100, "01-01-2024"),
		buy("AAPL", 5, 120, "01-02-2024"),
		sell("AAPL", 12, 150, 5, "01-03-2024"),
	}

	book, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}

	if len(book.Sells) != 1 {
		t.Fatalf("expected 1 sell fill, got %d", len(book.Sells))
	}
	fill := book.Sells[0]
	if !approxEqual(fill.CostBasis, 1240, 0.01) {
		t.Errorf("cost basis = %.2f, want 1240", fill.CostBasis)
	}
	if !approxEqual(fill.Realized, 555, 0.01) {
		t.Errorf("realized = %.2f, want 555 (12*150 - 5 - 1240)", fill.Realized)
	}

	h := book.Holding("AAPL")
	if h == nil {
		t.Fatal("expected AAPL holding to remain")
	}
	if len(h.Lots) != 1 {
		t.Fatalf("expected 1 remaining lot, got %d", len(h.Lots))
	}
	lot := h.Lots[0]
	if !approxEqual(lot.Shares, 3, 0.0001) || !approxEqual(lot.Price, 120, 0.01) {
		t.Errorf("remaining lot = %.4f @ %.2f, want 3 @ 120", lot.Shares, lot.Price)
	}
	if !lot.Date.Equal(day("01-02-2024")) {
		t.Errorf("split lot lost its acquisition date: %v", lot.Date)
	}
	if !approxEqual(h.TotalShares, 3, 0.0001) {
		t.Errorf("total shares = %.4f, want 3", h.TotalShares)
	}
	if !approxEqual(h.WeightedAvgCost, 120, 0.01) {
		t.Errorf("weighted avg cost = %.2f, want 120", h.WeightedAvgCost)
	}
}

func TestReplayExactSellRemovesHolding(t *testing.T) {
	txns := []models.Transaction{
		buy("MSFT", 4, 50, "05-01-2024"),
		sell("MSFT", 4, 60, 0, "06-01-2024"),
	}

	book, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if book.Holding("MSFT") != nil {
		t.Error("fully sold holding should be pruned from the book")
	}
	if !approxEqual(book.Sells[0].Realized, 40, 0.01) {
		t.Errorf("realized = %.2f, want 40", book.Sells[0].Realized)
	}
}

func TestReplayOversellFailsWithoutPartialState(t *testing.T) {
	txns := []models.Transaction{
		buy("TSLA", 5, 200, "01-01-2024"),
		sell("TSLA", 8, 250, 0, "02-01-2024"),
	}

	book, err := Replay(txns)
	if err == nil {
		t.Fatal("expected insufficient shares error")
	}
	var insErr *InsufficientSharesError
	if !errors.As(err, &insErr) {
		t.Fatalf("expected *InsufficientSharesError, got %T", err)
	}
	if !approxEqual(insErr.Requested, 8, 0.0001) || !approxEqual(insErr.Available, 5, 0.0001) {
		t.Errorf("error carries requested=%.2f available=%.2f, want 8 and 5", insErr.Requested, insErr.Available)
	}
	if book != nil {
		t.Error("failed replay must not return a partially applied book")
	}
}

func TestReplaySellOfUnknownSymbolFails(t *testing.T) {
	txns := []models.Transaction{
		sell("NVDA", 1, 900, 0, "01-01-2024"),
	}
	_, err := Replay(txns)
	var insErr *InsufficientSharesError
	if !errors.As(err, &insErr) {
		t.Fatalf("expected *InsufficientSharesError, got %v", err)
	}
	if insErr.Available != 0 {
		t.Errorf("available = %.2f, want 0", insErr.Available)
	}
}

func TestReplayNeverMergesLots(t *testing.T) {
	txns := []models.Transaction{
		buy("VOO", 2, 400, "01-01-2024"),
		buy("VOO", 2, 400, "02-01-2024"),
		buy("VOO", 2, 400, "03-01-2024"),
	}
	book, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	h := book.Holding("VOO")
	if len(h.Lots) != 3 {
		t.Errorf("identical buys must stay distinct lots, got %d", len(h.Lots))
	}
	if !approxEqual(h.TotalCost, 2400, 0.01) {
		t.Errorf("total cost = %.2f, want 2400", h.TotalCost)
	}
}

func TestReplayConsumesLotsInAcquisitionOrder(t *testing.T) {
	txns := []models.Transaction{
		buy("AMZN", 1, 100, "01-01-2024"),
		buy("AMZN", 1, 200, "02-01-2024"),
		buy("AMZN", 1, 300, "03-01-2024"),
		sell("AMZN", 2, 250, 0, "04-01-2024"),
	}
	book, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if !approxEqual(book.Sells[0].CostBasis, 300, 0.01) {
		t.Errorf("basis = %.2f, want 300 (oldest two lots)", book.Sells[0].CostBasis)
	}
	h := book.Holding("AMZN")
	if len(h.Lots) != 1 || !approxEqual(h.Lots[0].Price, 300, 0.01) {
		t.Errorf("newest lot should survive, got %+v", h.Lots)
	}
}

func TestReplayAsOfSkipsLaterTransactions(t *testing.T) {
	txns := []models.Transaction{
		buy("AAPL", 10, 100, "15-01-2024"),
		sell("AAPL", 10, 150, 0, "15-03-2024"),
	}
	book, err := ReplayAsOf(txns, day("31-01-2024"))
	if err != nil {
		t.Fatalf("ReplayAsOf failed: %v", err)
	}
	h := book.Holding("AAPL")
	if h == nil || !approxEqual(h.TotalShares, 10, 0.0001) {
		t.Fatalf("cutoff replay should still hold 10 shares, got %+v", h)
	}
	if len(book.Sells) != 0 {
		t.Errorf("sell after cutoff must not be applied")
	}
}

func TestReplayAsOfRejectsUnparsableDate(t *testing.T) {
	txns := []models.Transaction{
		{Symbol: "AAPL", Kind: models.TxBuy, Shares: 1, Price: 100, DateRaw: "not-a-date"},
	}
	if _, err := ReplayAsOf(txns, day("31-01-2024")); err == nil {
		t.Error("unparsable date must be fatal when a cutoff is in force")
	}
	if _, err := Replay(txns); err != nil {
		t.Errorf("unparsable date is tolerable without a cutoff: %v", err)
	}
}

func TestReplayIsDeterministic(t *testing.T) {
	txns := []models.Transaction{
		buy("aapl", 3, 90, "01-01-2024"),
		buy("AAPL", 2, 110, "02-01-2024"),
		sell("Aapl", 4, 120, 1, "03-01-2024"),
	}
	first, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	second, err := Replay(txns)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	a, b := first.Holding("AAPL"), second.Holding("AAPL")
	if a == nil || b == nil {
		t.Fatal("case-insensitive symbol keying broke holdings")
	}
	if !approxEqual(a.TotalShares, b.TotalShares, 1e-9) || !approxEqual(a.TotalCost, b.TotalCost, 1e-9) {
		t.Error("replays over identical input diverged")
	}
}
