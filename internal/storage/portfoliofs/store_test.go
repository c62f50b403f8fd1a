package portfoliofs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

const samplePortfolio = `{
  "updated_at": "15-08-2026",
  "accounts": [
    {
      "name": "IBKR",
      "currency": "USD",
      "cash": 1250.50,
      "transactions": [
        {"symbol": "aapl", "name": "Apple", "type": "BUY", "shares": 10, "price": 150, "fee": 1, "date": "02-01-2024"},
        {"symbol": "AAPL", "type": "sell", "shares": 4, "price": 180, "fee": 1, "date": "10-03-2024"},
        {"symbol": "AAPL", "type": "dividend", "price": 2.4, "date": "15-05-2024"}
      ]
    },
    {
      "name": "Tradeville",
      "currency": "RON",
      "cash": 400,
      "transactions": [
        {"symbol": "TLV.RO", "type": "buy", "shares": 100, "price": 25.5, "date": "20-02-2024", "currency": "RON"}
      ]
    }
  ],
  "watchlist": [
    {"symbol": "nvda", "name": "NVIDIA", "target_price": 100}
  ],
  "allocation_targets": {"US Stocks": 60, "ETF": 25, "Cash": 15}
}`

func newTestStore(t *testing.T, portfolioJSON string) *Store {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "portfolio.json")
	require.NoError(t, os.WriteFile(path, []byte(portfolioJSON), 0644))

	store, err := NewStore(common.NewSilentLogger(), path, filepath.Join(dir, "reports"))
	require.NoError(t, err)
	return store
}

func TestLoadNormalizesPortfolio(t *testing.T) {
	store := newTestStore(t, samplePortfolio)

	data, err := store.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, data.Accounts, 2)
	ibkr := data.Accounts[0]
	assert.Equal(t, "IBKR", ibkr.Name)
	assert.InDelta(t, 1250.50, ibkr.Cash, 0.001)
	require.Len(t, ibkr.Transactions, 3)

	first := ibkr.Transactions[0]
	assert.Equal(t, "AAPL", first.Symbol, "symbols are uppercased")
	assert.Equal(t, models.TxBuy, first.Kind, "type strings are case-insensitive")
	assert.Equal(t, "USD", first.Currency, "account currency fills a missing transaction currency")
	assert.Equal(t, "IBKR", first.Account)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), first.Date)

	assert.Equal(t, models.TxDividend, ibkr.Transactions[2].Kind)

	require.Len(t, data.Watchlist, 1)
	assert.Equal(t, "NVDA", data.Watchlist[0].Symbol)

	assert.InDelta(t, 60, data.Targets["US Stocks"], 0.001)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), data.UpdatedAt)
}

func TestLoadRejectsInvalidTransaction(t *testing.T) {
	store := newTestStore(t, `{
  "accounts": [{"name": "X", "currency": "USD", "transactions": [
    {"symbol": "AAPL", "type": "buy", "shares": 0, "price": 100, "date": "01-01-2024"}
  ]}]
}`)

	_, err := store.Load(context.Background())
	require.Error(t, err)
	var invErr *models.InvalidTransactionError
	require.ErrorAs(t, err, &invErr)
	assert.Equal(t, "shares", invErr.Field)
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(common.NewSilentLogger(), filepath.Join(dir, "absent.json"), filepath.Join(dir, "reports"))
	require.NoError(t, err)

	_, err = store.Load(context.Background())
	require.Error(t, err)
}

func TestSaveReportIsAtomicAndSanitized(t *testing.T) {
	store := newTestStore(t, samplePortfolio)

	path, err := store.SaveReport("run one/../latest.json", []byte(`{"ok":true}`))
	require.NoError(t, err)
	assert.Equal(t, filepath.Dir(path), store.ReportsDir())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(content))

	entries, err := os.ReadDir(store.ReportsDir())
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestSaveReportJSON(t *testing.T) {
	store := newTestStore(t, samplePortfolio)

	path, err := store.SaveReportJSON("report.json", map[string]int{"holdings": 3})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"holdings":3}`, string(content))
}
