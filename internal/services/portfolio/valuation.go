package portfolio

import (
	"context"
	"sort"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
)

// valuation prices each account's holdings in its own currency, then prices
// the merged global book twice, converted to USD and to EUR.
func (s *Service) valuation(ctx context.Context, data *interfaces.PortfolioData, quotes map[string]*models.StockInfo) ([]models.ValuationSection, *models.ValuationSection, *models.ValuationSection, error) {
	var sections []models.ValuationSection
	for _, account := range data.Accounts {
		book, err := replayAccount(account)
		if err != nil {
			return nil, nil, nil, err
		}
		section := s.buildSection(book, quotes, sectionSpec{
			title:    account.Name,
			scope:    account.Name,
			currency: account.Currency,
			cash:     account.Cash,
			convert:  nil,
		})
		sections = append(sections, section)
	}

	merged := models.MergeTransactions(data.Accounts)
	globalBook, err := ledger.Replay(merged)
	if err != nil {
		return nil, nil, nil, err
	}

	cashUSD, cashEUR := 0.0, 0.0
	for _, account := range data.Accounts {
		cashUSD += s.fx.ToUSD(account.Cash, account.Currency)
		cashEUR += s.fx.ToEUR(account.Cash, account.Currency)
	}

	globalUSD := s.buildSection(globalBook, quotes, sectionSpec{
		title:    "Global Portfolio (USD)",
		scope:    "global_usd",
		currency: "USD",
		cash:     cashUSD,
		convert:  s.fx.ToUSD,
	})
	globalEUR := s.buildSection(globalBook, quotes, sectionSpec{
		title:    "Global Portfolio (EUR)",
		scope:    "global_eur",
		currency: "EUR",
		cash:     cashEUR,
		convert:  s.fx.ToEUR,
	})

	return sections, &globalUSD, &globalEUR, nil
}

// sectionSpec describes one valuation scope. A nil convert keeps native
// holding amounts; cash is already in the section currency.
type sectionSpec struct {
	title    string
	scope    string
	currency string
	cash     float64
	convert  func(amount float64, currency string) float64
}

func (s *Service) buildSection(book *ledger.Book, quotes map[string]*models.StockInfo, spec sectionSpec) models.ValuationSection {
	section := models.ValuationSection{
		Title:    spec.title,
		Scope:    spec.scope,
		Currency: spec.currency,
	}

	symbols := book.Symbols()
	sort.Strings(symbols)

	var totalCost float64
	for _, symbol := range symbols {
		h := book.Holdings[symbol]
		row := s.buildRow(h, quotes[symbol], spec.convert)
		totalCost += convertAmount(spec.convert, h.TotalCost, h.Currency)
		section.Rows = append(section.Rows, row)
		section.TotalMarketValue += row.MarketValue
		section.TotalUnrealized += row.UnrealizedGain
	}

	if spec.cash > 0 {
		section.Rows = append(section.Rows, models.ValuationRow{
			Symbol:      "CASH",
			CompanyName: "Cash Balance",
			MarketValue: spec.cash,
			AssetClass:  models.AssetClassCash,
			Currency:    spec.currency,
			IsCash:      true,
		})
		section.TotalMarketValue += spec.cash
	}

	if totalCost > 0 {
		section.TotalPctGainLoss = section.TotalUnrealized / totalCost * 100
	}
	for i := range section.Rows {
		if section.TotalMarketValue > 0 {
			section.Rows[i].PctOfPortfolio = section.Rows[i].MarketValue / section.TotalMarketValue * 100
		}
	}

	return section
}

func (s *Service) buildRow(h *models.Holding, info *models.StockInfo, convert func(float64, string) float64) models.ValuationRow {
	row := models.ValuationRow{
		Symbol:      h.Symbol,
		CompanyName: h.Name,
		Shares:      h.TotalShares,
		Currency:    h.Currency,
	}

	price := h.WeightedAvgCost
	row.PriceSource = models.PriceSourceAvgCost
	if info != nil && info.CurrentPrice > 0 {
		price = info.CurrentPrice
		row.PriceSource = models.PriceSourceLive
	}
	if info != nil {
		if info.CompanyName != "" {
			row.CompanyName = info.CompanyName
		}
		row.Sector = info.Sector
		row.AssetClass = models.AssetClass(info.QuoteType, info.Country)
	} else {
		row.AssetClass = models.AssetClassUnknown
	}

	avgCost := h.WeightedAvgCost
	if convert != nil {
		// Global views show per-share figures in the section currency too.
		price = convert(price, h.Currency)
		avgCost = convert(avgCost, h.Currency)
	}
	row.AvgCost = avgCost
	row.CurrentPrice = price
	row.MarketValue = h.TotalShares * price

	// A position priced at its own average cost carries zero unrealized gain.
	costBasis := h.TotalShares * avgCost
	row.UnrealizedGain = row.MarketValue - costBasis
	if costBasis > 0 {
		row.PctGainLoss = row.UnrealizedGain / costBasis * 100
	}

	return row
}

func convertAmount(convert func(float64, string) float64, amount float64, currency string) float64 {
	if convert == nil {
		return amount
	}
	return convert(amount, currency)
}
