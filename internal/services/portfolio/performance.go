package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
)

// Historical price resolution window around a cutoff date.
const (
	maxLookback  = 10 * 24 * time.Hour
	maxLookahead = 5 * 24 * time.Hour
)

// performance builds the monthly performance series from the first
// transaction month to the current month, compared against the benchmark.
//
// Each month replays the merged ledger to the month-end cutoff and prices
// the resulting holdings with closes as of that date. The current month uses
// live quotes only. The portfolio signal is the unweighted mean of
// per-holding percent gain; the monthly return is its month-over-month
// difference. Benchmark returns are plain price ratios.
func (s *Service) performance(ctx context.Context, data *interfaces.PortfolioData, quotes map[string]*models.StockInfo) ([]models.MonthlyPerformanceRecord, error) {
	merged := models.MergeTransactions(data.Accounts)
	if len(merged) == 0 {
		return nil, nil
	}
	for i := range merged {
		if merged[i].Date.IsZero() {
			return nil, fmt.Errorf("performance: transaction %d (%s) has unusable date %q",
				i, merged[i].Symbol, merged[i].DateRaw)
		}
	}

	now := time.Now().UTC()
	first := merged[0].Date
	start := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)

	symbols := allSymbols(data.Accounts)
	histories := s.fetchHistories(ctx, append(symbols, s.benchmark), start.AddDate(0, 0, -15), now)
	benchBars := histories[s.benchmark]
	if len(benchBars) == 0 {
		s.logger.Warn().Str("benchmark", s.benchmark).Msg("No benchmark history, benchmark columns will be zero")
	}

	var (
		records        []models.MonthlyPerformanceRecord
		prevAvg        float64
		prevBenchPrice float64
		cumulative     = 1.0
		benchCum       = 1.0
	)

	for month := start; !month.After(now); month = month.AddDate(0, 1, 0) {
		isCurrent := month.Year() == now.Year() && month.Month() == now.Month()
		cutoff := month.AddDate(0, 1, 0).Add(-time.Second)
		if isCurrent {
			cutoff = now
		}

		book, err := ledger.ReplayAsOf(merged, cutoff)
		if err != nil {
			return nil, err
		}

		var (
			valueUSD float64
			pctSum   float64
			pctCount int
		)
		for symbol, h := range book.Holdings {
			var price float64
			if isCurrent {
				if info := quotes[symbol]; info != nil {
					price = info.CurrentPrice
				}
			} else {
				price, _ = resolveCloseAsOf(histories[symbol], cutoff)
			}
			if price <= 0 {
				// No resolvable price: the weighted average cost stands in,
				// keeping the holding in the value sum at a 0% gain.
				price = h.WeightedAvgCost
			}
			if price <= 0 {
				continue
			}
			valueUSD += s.fx.ToUSD(h.TotalShares*price, h.Currency)
			if h.WeightedAvgCost > 0 {
				pctSum += (price - h.WeightedAvgCost) / h.WeightedAvgCost * 100
				pctCount++
			}
		}

		avg := 0.0
		if pctCount > 0 {
			avg = pctSum / float64(pctCount)
		}

		monthlyReturn := avg
		if len(records) > 0 {
			monthlyReturn = avg - prevAvg
		}

		benchReturn := 0.0
		benchPrice, ok := resolveCloseAsOf(benchBars, cutoff)
		if isCurrent && !ok {
			if info := quotes[s.benchmark]; info != nil {
				benchPrice, ok = info.CurrentPrice, info.CurrentPrice > 0
			}
		}
		if ok && prevBenchPrice > 0 {
			benchReturn = (benchPrice/prevBenchPrice - 1) * 100
		}
		if ok {
			// Months with no benchmark price carry the previous one forward.
			prevBenchPrice = benchPrice
		}

		cumulative *= 1 + monthlyReturn/100
		benchCum *= 1 + benchReturn/100
		cumulativePct := (cumulative - 1) * 100
		benchCumPct := (benchCum - 1) * 100

		records = append(records, models.MonthlyPerformanceRecord{
			Month:               month,
			Label:               month.Format("Jan 2006"),
			PortfolioValueUSD:   valueUSD,
			HoldingCount:        len(book.Holdings),
			AvgPctGainLoss:      avg,
			MonthlyReturn:       monthlyReturn,
			BenchmarkReturn:     benchReturn,
			Outperformance:      monthlyReturn - benchReturn,
			CumulativeReturn:    cumulativePct,
			BenchmarkCumulative: benchCumPct,
			Alpha:               cumulativePct - benchCumPct,
		})
		prevAvg = avg
	}

	return records, nil
}

// fetchHistories downloads daily bars for symbols with bounded parallelism.
// Failed fetches leave the symbol out of the map.
func (s *Service) fetchHistories(ctx context.Context, symbols []string, from, to time.Time) map[string][]models.PriceBar {
	histories := make(map[string][]models.PriceBar, len(symbols))
	if s.quotes == nil {
		return histories
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.concurrency)
	)
	for _, symbol := range symbols {
		symbol := symbol
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			bars, err := s.quotes.GetHistory(ctx, symbol, from, to)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("History fetch failed")
				return
			}
			if len(bars) == 0 {
				return
			}
			mu.Lock()
			histories[symbol] = bars
			mu.Unlock()
		}()
	}
	wg.Wait()
	return histories
}

// resolveCloseAsOf picks the close for a cutoff date from daily bars ordered
// oldest first: the latest bar at or before the cutoff within the lookback
// window, else the earliest bar after it within the lookahead window. A
// cutoff with no bar in either window resolves to nothing.
func resolveCloseAsOf(bars []models.PriceBar, cutoff time.Time) (float64, bool) {
	if len(bars) == 0 {
		return 0, false
	}

	best := -1
	for i, bar := range bars {
		if bar.Date.After(cutoff) {
			break
		}
		best = i
	}
	if best >= 0 && cutoff.Sub(bars[best].Date) <= maxLookback {
		return bars[best].Close, true
	}

	for _, bar := range bars {
		if bar.Date.After(cutoff) {
			if bar.Date.Sub(cutoff) <= maxLookahead {
				return bar.Close, true
			}
			break
		}
	}

	return 0, false
}
