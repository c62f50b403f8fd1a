package portfolio

import (
	"context"
	"sort"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
)

// sellAnalysis replays the merged ledger and turns every sell fill into a
// record with its FIFO cost basis, then revisits each record with today's
// price to ask what holding on would have been worth.
func (s *Service) sellAnalysis(ctx context.Context, data *interfaces.PortfolioData, quotes map[string]*models.StockInfo) ([]models.SellAnalysisRecord, *models.SellAnalysisSummary, []models.SymbolSellSummary, error) {
	merged := models.MergeTransactions(data.Accounts)
	book, err := ledger.Replay(merged)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(book.Sells) == 0 {
		return nil, nil, nil, nil
	}

	records := make([]models.SellAnalysisRecord, 0, len(book.Sells))
	for _, fill := range book.Sells {
		t := fill.Txn
		record := models.SellAnalysisRecord{
			Symbol:          t.Symbol,
			SellDate:        t.Date,
			Account:         t.Account,
			Currency:        t.Currency,
			SharesSold:      t.Shares,
			SellPrice:       t.Price,
			GrossProceeds:   t.Shares * t.Price,
			Fees:            t.Fee,
			NetProceeds:     t.Shares*t.Price - t.Fee,
			WeightedAvgCost: fill.AvgCost,
			TotalCostBasis:  fill.CostBasis,
			RealizedPnL:     fill.Realized,
		}
		if fill.CostBasis > 0 {
			record.RealizedPnLPct = fill.Realized / fill.CostBasis * 100
		}

		// Second pass: same shares and fee at today's price. Absent quotes
		// leave the pointer fields nil rather than zero.
		if info := quotes[t.Symbol]; info != nil && info.CurrentPrice > 0 {
			price := info.CurrentPrice
			marketValue := t.Shares * price
			netProceeds := marketValue - t.Fee
			unrealized := netProceeds - fill.CostBasis
			opportunity := unrealized - fill.Realized

			record.CurrentPrice = &price
			record.CurrentMarketValue = &marketValue
			record.CurrentNetProceeds = &netProceeds
			record.UnrealizedPnL = &unrealized
			if fill.CostBasis > 0 {
				pct := unrealized / fill.CostBasis * 100
				record.UnrealizedPnLPct = &pct
			}
			record.OpportunityDifference = &opportunity
		}

		records = append(records, record)
	}

	summary := summarizeSells(records)
	symbols := summarizeSellsBySymbol(records)

	s.logger.Info().
		Int("sells", len(records)).
		Float64("total_realized", summary.TotalRealizedPnL).
		Msg("Sell analysis complete")
	return records, summary, symbols, nil
}

func summarizeSells(records []models.SellAnalysisRecord) *models.SellAnalysisSummary {
	summary := &models.SellAnalysisSummary{}

	var (
		pctSum         float64
		unrealizedSum  float64
		unrealizedPcts []float64
		opportunitySum float64
		priced         int
	)
	for i, r := range records {
		summary.TotalRealizedPnL += r.RealizedPnL
		pctSum += r.RealizedPnLPct

		if i == 0 || r.RealizedPnLPct > summary.BestRealizedPct {
			summary.BestRealizedSymbol = r.Symbol
			summary.BestRealizedPct = r.RealizedPnLPct
		}
		if i == 0 || r.RealizedPnLPct < summary.WorstRealizedPct {
			summary.WorstRealizedSymbol = r.Symbol
			summary.WorstRealizedPct = r.RealizedPnLPct
		}

		if r.UnrealizedPnL != nil {
			priced++
			unrealizedSum += *r.UnrealizedPnL
			if r.UnrealizedPnLPct != nil {
				unrealizedPcts = append(unrealizedPcts, *r.UnrealizedPnLPct)
			}
		}
		if r.OpportunityDifference != nil {
			opportunitySum += *r.OpportunityDifference
			if *r.OpportunityDifference > 0 {
				summary.SoldTooEarly++
			} else if *r.OpportunityDifference < 0 {
				summary.SoldAtRightTime++
			}
		}
	}

	summary.AvgRealizedPnLPct = pctSum / float64(len(records))
	if priced > 0 {
		summary.TotalUnrealizedPnL = &unrealizedSum
		summary.TotalOpportunityDiff = &opportunitySum
		if len(unrealizedPcts) > 0 {
			avg := 0.0
			for _, p := range unrealizedPcts {
				avg += p
			}
			avg /= float64(len(unrealizedPcts))
			summary.AvgUnrealizedPnLPct = &avg
		}
	}

	return summary
}

func summarizeSellsBySymbol(records []models.SellAnalysisRecord) []models.SymbolSellSummary {
	bySymbol := make(map[string]*models.SymbolSellSummary)
	for _, r := range records {
		agg, ok := bySymbol[r.Symbol]
		if !ok {
			agg = &models.SymbolSellSummary{Symbol: r.Symbol}
			bySymbol[r.Symbol] = agg
		}
		agg.SharesSold += r.SharesSold
		agg.GrossProceeds += r.GrossProceeds
		agg.TotalCostBasis += r.TotalCostBasis
		agg.RealizedPnL += r.RealizedPnL

		if r.UnrealizedPnL != nil {
			if agg.UnrealizedPnL == nil {
				agg.UnrealizedPnL = new(float64)
			}
			*agg.UnrealizedPnL += *r.UnrealizedPnL
		}
		if r.OpportunityDifference != nil {
			if agg.OpportunityDiff == nil {
				agg.OpportunityDiff = new(float64)
			}
			*agg.OpportunityDiff += *r.OpportunityDifference
		}
	}

	out := make([]models.SymbolSellSummary, 0, len(bySymbol))
	for _, agg := range bySymbol {
		if agg.TotalCostBasis > 0 {
			agg.RealizedPnLTotalPct = agg.RealizedPnL / agg.TotalCostBasis * 100
		}
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}
