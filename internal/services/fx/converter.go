// Package fx converts monetary amounts through anchor rate tables.
//
// The converter fetches live rates once, on first use, from a rates client.
// Any fetch failure swaps in the static table so conversion never fails:
// downstream valuation code treats ToUSD and ToEUR as total functions.
package fx

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Converter resolves amounts into USD and EUR.
type Converter struct {
	client interfaces.RatesClient
	logger *common.Logger

	once  sync.Once
	table *models.RateTable
}

// NewConverter returns a converter backed by client. A nil client uses the
// static rate table directly.
func NewConverter(client interfaces.RatesClient, logger *common.Logger) *Converter {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Converter{client: client, logger: logger}
}

// NewStaticConverter returns a converter pinned to the static fallback table.
func NewStaticConverter() *Converter {
	c := &Converter{logger: common.NewSilentLogger()}
	c.once.Do(func() { c.table = models.StaticRateTable() })
	return c
}

// Prime fetches the rate tables if they have not been loaded yet. Conversion
// methods call it implicitly with a background context.
func (c *Converter) Prime(ctx context.Context) {
	c.once.Do(func() { c.table = c.load(ctx) })
}

func (c *Converter) load(ctx context.Context) *models.RateTable {
	if c.client == nil {
		return models.StaticRateTable()
	}

	usd, errUSD := c.client.Rates(ctx, "USD")
	eur, errEUR := c.client.Rates(ctx, "EUR")
	if errUSD != nil || errEUR != nil {
		c.logger.Warn().
			AnErr("usd_error", errUSD).
			AnErr("eur_error", errEUR).
			Msg("Live exchange rates unavailable, using static fallback table")
		return models.StaticRateTable()
	}

	table := &models.RateTable{
		ToUSD:     make(map[string]float64, len(usd)),
		ToEUR:     make(map[string]float64, len(eur)),
		Source:    "live",
		FetchedAt: time.Now(),
	}
	// Provider quotes are anchor->currency, conversion needs currency->anchor.
	for code, rate := range usd {
		if rate > 0 {
			table.ToUSD[code] = 1 / rate
		}
	}
	for code, rate := range eur {
		if rate > 0 {
			table.ToEUR[code] = 1 / rate
		}
	}
	table.ToUSD["USD"] = 1.0
	table.ToEUR["EUR"] = 1.0

	c.logger.Info().
		Int("usd_rates", len(table.ToUSD)).
		Int("eur_rates", len(table.ToEUR)).
		Msg("Loaded live exchange rates")
	return table
}

// ToUSD converts amount from currency into US dollars.
func (c *Converter) ToUSD(amount float64, currency string) float64 {
	return c.convert(amount, currency, true)
}

// ToEUR converts amount from currency into euros.
func (c *Converter) ToEUR(amount float64, currency string) float64 {
	return c.convert(amount, currency, false)
}

func (c *Converter) convert(amount float64, currency string, toUSD bool) float64 {
	if amount == 0 {
		return 0
	}
	c.Prime(context.Background())

	code := models.CurrencyCode(currency)
	rates := c.table.ToUSD
	if !toUSD {
		rates = c.table.ToEUR
	}
	rate, ok := rates[code]
	if !ok {
		// Unknown currency passes through at parity.
		rate = 1.0
	}
	return amount * rate
}

// Table returns the active rate table, priming it if needed.
func (c *Converter) Table() *models.RateTable {
	c.Prime(context.Background())
	return c.table
}
