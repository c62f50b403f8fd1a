package portfolio

import (
	"context"
	"sort"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
)

// actionThresholdUSD is the allocation drift below which no rebalancing
// action is suggested.
const actionThresholdUSD = 1000.0

// dividends projects dividend income for the merged holdings that pay one.
// Year-to-date received assumes three of four quarterly payments.
func (s *Service) dividends(data *interfaces.PortfolioData, quotes map[string]*models.StockInfo) []models.DividendRow {
	merged := models.MergeTransactions(data.Accounts)
	book, err := ledger.Replay(merged)
	if err != nil {
		return nil
	}

	var rows []models.DividendRow
	for _, symbol := range book.Symbols() {
		h := book.Holdings[symbol]
		info := quotes[symbol]
		if info == nil || info.DividendYield <= 0 || info.CurrentPrice <= 0 {
			continue
		}
		// Stock holdings only; ETF and crypto positions are not projected.
		switch models.AssetClass(info.QuoteType, info.Country) {
		case models.AssetClassUSStocks, models.AssetClassRomanianStocks, models.AssetClassIntlStocks:
		default:
			continue
		}

		annualPerShare := info.CurrentPrice * info.DividendYield
		projected := annualPerShare * h.TotalShares
		rows = append(rows, models.DividendRow{
			Symbol:            symbol,
			CompanyName:       info.CompanyName,
			Shares:            h.TotalShares,
			CurrentPrice:      info.CurrentPrice,
			AnnualDividend:    annualPerShare,
			QuarterlyDividend: annualPerShare / 4,
			YieldPct:          info.DividendYield * 100,
			YTDReceived:       projected * 0.75,
			ProjectedAnnual:   projected,
			Currency:          info.Currency,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })
	return rows
}

// watchlist enriches watchlist entries with live quotes. Entries without a
// resolvable quote are kept, with price fields zero.
func (s *Service) watchlist(ctx context.Context, items []models.WatchlistItem) []models.WatchlistRow {
	if len(items) == 0 {
		return nil
	}

	symbols := make([]string, 0, len(items))
	for _, item := range items {
		symbols = append(symbols, item.Symbol)
	}
	quotes := s.fetchQuotes(ctx, symbols)

	rows := make([]models.WatchlistRow, 0, len(items))
	for _, item := range items {
		row := models.WatchlistRow{
			Symbol:      item.Symbol,
			CompanyName: item.Name,
			TargetPrice: item.TargetPrice,
			Note:        item.Note,
			Currency:    item.Currency,
		}
		if info := quotes[item.Symbol]; info != nil {
			if info.CompanyName != "" {
				row.CompanyName = info.CompanyName
			}
			row.CurrentPrice = info.CurrentPrice
			row.High52Week = info.High52Week
			row.Low52Week = info.Low52Week
			row.PERatio = info.PERatio
			row.DividendYield = info.DividendYield * 100
			row.MarketCapB = info.MarketCap / 1e9
			row.Sector = info.Sector
			if info.Currency != "" {
				row.Currency = info.Currency
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// allocation compares the global USD section's asset class mix against the
// configured targets and suggests rebalancing actions.
func (s *Service) allocation(globalUSD *models.ValuationSection, targets map[string]float64) []models.AllocationRow {
	if globalUSD == nil || globalUSD.TotalMarketValue <= 0 {
		return nil
	}
	total := globalUSD.TotalMarketValue

	current := make(map[string]float64)
	for _, row := range globalUSD.Rows {
		class := row.AssetClass
		if class == "" {
			class = models.AssetClassUnknown
		}
		current[class] += row.MarketValue
	}

	classes := make(map[string]bool)
	for class := range current {
		classes[class] = true
	}
	for class := range targets {
		classes[class] = true
	}

	names := make([]string, 0, len(classes))
	for class := range classes {
		names = append(names, class)
	}
	sort.Strings(names)

	rows := make([]models.AllocationRow, 0, len(names))
	for _, class := range names {
		currentValue := current[class]
		targetPct := targets[class]
		targetValue := targetPct / 100 * total
		difference := targetValue - currentValue

		action := "HOLD"
		switch {
		case difference > actionThresholdUSD:
			action = "BUY"
		case difference < -actionThresholdUSD:
			action = "SELL"
		}

		rows = append(rows, models.AllocationRow{
			AssetClass:   class,
			CurrentPct:   currentValue / total * 100,
			TargetPct:    targetPct,
			CurrentValue: currentValue,
			TargetValue:  targetValue,
			Difference:   difference,
			Action:       action,
		})
	}
	return rows
}
