// Package models defines data structures for Folio
package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// TransactionKind categorizes ledger transactions
type TransactionKind string

const (
	TxBuy      TransactionKind = "buy"
	TxSell     TransactionKind = "sell"
	TxDividend TransactionKind = "dividend"
)

// ParseTransactionKind normalizes a raw transaction type string.
// Returns an empty kind when the string is unrecognised.
func ParseTransactionKind(s string) TransactionKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return TxBuy
	case "sell":
		return TxSell
	case "dividend", "div":
		return TxDividend
	}
	return TransactionKind("")
}

// Transaction is a single immutable ledger entry. Dates are calendar dates
// without time-of-day; Date is zero when DateRaw could not be parsed.
type Transaction struct {
	Symbol          string          `json:"symbol"`
	Name            string          `json:"name,omitempty"`
	Kind            TransactionKind `json:"kind"`
	Shares          float64         `json:"shares,omitempty"`
	Price           float64         `json:"price"`
	Fee             float64         `json:"fee,omitempty"`
	Date            time.Time       `json:"date"`
	DateRaw         string          `json:"date_raw,omitempty"`
	Currency        string          `json:"currency"`
	Note            string          `json:"note,omitempty"`
	Account         string          `json:"account,omitempty"`
	AccountCurrency string          `json:"account_currency,omitempty"`
}

// Account groups a currency, a cash balance, and an ordered transaction list.
type Account struct {
	Name         string        `json:"name"`
	Currency     string        `json:"currency"`
	Cash         float64       `json:"cash"`
	Transactions []Transaction `json:"transactions"`
}

// InvalidTransactionError reports a transaction missing a required field.
type InvalidTransactionError struct {
	Account string
	Symbol  string
	Index   int
	Field   string
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("invalid transaction %d (account=%q symbol=%q): missing %s",
		e.Index, e.Account, e.Symbol, e.Field)
}

// dateLayouts accepted for transaction dates. The portfolio file uses
// DD-MM-YYYY; ISO dates are accepted for convenience.
var dateLayouts = []string{"02-01-2006", "2006-01-02"}

// ParseDate parses a calendar date string. Returns a zero time on failure.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Validate checks the required fields for replay. Shares are required only
// for Buy/Sell; dividends carry an amount in Price.
func (t *Transaction) Validate(index int) error {
	if t.Symbol == "" {
		return &InvalidTransactionError{Account: t.Account, Index: index, Field: "symbol"}
	}
	if t.Kind == "" {
		return &InvalidTransactionError{Account: t.Account, Symbol: t.Symbol, Index: index, Field: "type"}
	}
	if t.DateRaw == "" && t.Date.IsZero() {
		return &InvalidTransactionError{Account: t.Account, Symbol: t.Symbol, Index: index, Field: "date"}
	}
	if t.Kind == TxBuy || t.Kind == TxSell {
		if t.Shares <= 0 {
			return &InvalidTransactionError{Account: t.Account, Symbol: t.Symbol, Index: index, Field: "shares"}
		}
		if t.Price < 0 {
			return &InvalidTransactionError{Account: t.Account, Symbol: t.Symbol, Index: index, Field: "price"}
		}
	}
	return nil
}

// SortTransactionsByDate sorts transactions chronologically, keeping input
// order for same-date entries. If any transaction date failed to parse the
// slice is left entirely in input order.
func SortTransactionsByDate(txs []Transaction) {
	for i := range txs {
		if txs[i].Date.IsZero() {
			return
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}

// MergeTransactions flattens account transaction lists into one globally
// sorted stream. Account name and currency are stamped onto each entry.
func MergeTransactions(accounts []Account) []Transaction {
	var all []Transaction
	for _, a := range accounts {
		for _, t := range a.Transactions {
			t.Account = a.Name
			t.AccountCurrency = a.Currency
			all = append(all, t)
		}
	}
	SortTransactionsByDate(all)
	return all
}
