// Package ledger replays transaction histories into FIFO cost-basis state.
//
// A replay walks buys and sells in date order. Buys append a lot to the tail
// of a holding, sells consume lots from the head, splitting the head lot when
// a sell is smaller than it. Lots are never merged, so the acquisition price
// and date of every remaining share survive intact.
package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// InsufficientSharesError is returned when a sell asks for more shares than
// the holding carries at that point in the replay. It is structural: the
// transaction record itself is inconsistent and nothing downstream can
// repair it.
type InsufficientSharesError struct {
	Symbol    string
	Account   string
	Date      time.Time
	Requested float64
	Available float64
}

func (e *InsufficientSharesError) Error() string {
	scope := e.Symbol
	if e.Account != "" {
		scope = e.Account + "/" + e.Symbol
	}
	return fmt.Sprintf("ledger: sell of %.4f %s on %s exceeds held %.4f shares",
		e.Requested, scope, e.Date.Format("2006-01-02"), e.Available)
}

// SellFill records how one sell transaction consumed lots during a replay.
type SellFill struct {
	Txn       models.Transaction
	CostBasis float64 // sum of shares*price over consumed lot slices
	AvgCost   float64 // CostBasis / shares sold
	Realized  float64 // proceeds net of fee, minus CostBasis
}

// Book is the holdings state produced by a replay, keyed by symbol.
type Book struct {
	Holdings map[string]*models.Holding
	Sells    []SellFill
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{Holdings: make(map[string]*models.Holding)}
}

// Replay applies every transaction in txns, in slice order, to a fresh book.
// Callers sort beforehand; replay itself never reorders.
func Replay(txns []models.Transaction) (*Book, error) {
	return ReplayAsOf(txns, time.Time{})
}

// ReplayAsOf replays transactions dated at or before cutoff. A zero cutoff
// replays everything. A transaction with an unparsable date is fatal when a
// cutoff is set, because it cannot be placed on either side of it.
func ReplayAsOf(txns []models.Transaction, cutoff time.Time) (*Book, error) {
	book := NewBook()
	for i := range txns {
		t := &txns[i]
		if !cutoff.IsZero() {
			if t.Date.IsZero() {
				return nil, fmt.Errorf("ledger: transaction %d (%s) has unusable date %q for cutoff replay",
					i, t.Symbol, t.DateRaw)
			}
			if t.Date.After(cutoff) {
				continue
			}
		}
		if err := book.Apply(t); err != nil {
			return nil, err
		}
	}
	return book, nil
}

// Apply folds a single transaction into the book. Dividends pass through
// without touching lots.
func (b *Book) Apply(t *models.Transaction) error {
	switch t.Kind {
	case models.TxBuy:
		b.applyBuy(t)
	case models.TxSell:
		fill, err := b.applySell(t)
		if err != nil {
			return err
		}
		b.Sells = append(b.Sells, fill)
	case models.TxDividend:
		// cash event, no lot movement
	default:
		return fmt.Errorf("ledger: unknown transaction kind %q for %s", t.Kind, t.Symbol)
	}
	return nil
}

func (b *Book) applyBuy(t *models.Transaction) {
	key := strings.ToUpper(t.Symbol)
	h, ok := b.Holdings[key]
	if !ok {
		h = &models.Holding{
			Symbol:   key,
			Name:     t.Name,
			Currency: t.Currency,
		}
		b.Holdings[key] = h
	}
	if h.Name == "" {
		h.Name = t.Name
	}
	h.Lots = append(h.Lots, models.Lot{
		Shares: t.Shares,
		Price:  t.Price,
		Date:   t.Date,
	})
	h.RecalculateTotals()
}

func (b *Book) applySell(t *models.Transaction) (SellFill, error) {
	key := strings.ToUpper(t.Symbol)
	h := b.Holdings[key]
	available := 0.0
	if h != nil {
		available = h.TotalShares
	}
	if h == nil || available < t.Shares {
		return SellFill{}, &InsufficientSharesError{
			Symbol:    key,
			Account:   t.Account,
			Date:      t.Date,
			Requested: t.Shares,
			Available: available,
		}
	}

	remaining := t.Shares
	basis := 0.0
	for remaining > 0 && len(h.Lots) > 0 {
		lot := &h.Lots[0]
		if lot.Shares <= remaining {
			basis += lot.Shares * lot.Price
			remaining -= lot.Shares
			h.Lots = h.Lots[1:]
		} else {
			basis += remaining * lot.Price
			lot.Shares -= remaining
			remaining = 0
		}
	}
	h.RecalculateTotals()
	if h.TotalShares <= 0 {
		delete(b.Holdings, key)
	}

	proceeds := t.Shares*t.Price - t.Fee
	fill := SellFill{
		Txn:       *t,
		CostBasis: basis,
		AvgCost:   basis / t.Shares,
		Realized:  proceeds - basis,
	}
	return fill, nil
}

// Holding returns the holding for symbol, or nil when none remains.
func (b *Book) Holding(symbol string) *models.Holding {
	return b.Holdings[strings.ToUpper(symbol)]
}

// Symbols returns the held symbols in no particular order.
func (b *Book) Symbols() []string {
	out := make([]string, 0, len(b.Holdings))
	for s := range b.Holdings {
		out = append(out, s)
	}
	return out
}
