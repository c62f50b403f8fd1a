// Package portfolio implements the accounting and analytics engine: holdings
// valuation, monthly performance against a benchmark, and sell attribution.
package portfolio

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/ledger"
)

// Service implements PortfolioService
type Service struct {
	store       interfaces.PortfolioStore
	quotes      interfaces.QuoteClient
	fx          interfaces.Converter
	logger      *common.Logger
	benchmark   string
	concurrency int

	mu     sync.Mutex
	loaded *interfaces.PortfolioData
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithBenchmark sets the benchmark symbol for performance comparison
func WithBenchmark(symbol string) ServiceOption {
	return func(s *Service) {
		if symbol != "" {
			s.benchmark = symbol
		}
	}
}

// WithConcurrency sets the quote fetch parallelism
func WithConcurrency(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a new portfolio service
func NewService(
	store interfaces.PortfolioStore,
	quotes interfaces.QuoteClient,
	fx interfaces.Converter,
	logger *common.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		store:       store,
		quotes:      quotes,
		fx:          fx,
		logger:      logger,
		benchmark:   "^GSPC",
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load reads the portfolio file once per service lifetime.
func (s *Service) load(ctx context.Context) (*interfaces.PortfolioData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded != nil {
		return s.loaded, nil
	}
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	s.loaded = data
	return data, nil
}

// fetchQuotes retrieves live quotes for symbols with bounded parallelism.
// Symbols the provider does not know are simply absent from the result map.
func (s *Service) fetchQuotes(ctx context.Context, symbols []string) map[string]*models.StockInfo {
	quotes := make(map[string]*models.StockInfo, len(symbols))
	if s.quotes == nil || len(symbols) == 0 {
		return quotes
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

			info, err := s.quotes.GetQuote(ctx, symbol)
			if err != nil {
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Quote fetch failed")
				return
			}
			if info == nil {
				s.logger.Debug().Str("symbol", symbol).Msg("Symbol unknown to quote provider")
				return
			}
			mu.Lock()
			quotes[symbol] = info
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.logger.Info().
		Int("requested", len(symbols)).
		Int("resolved", len(quotes)).
		Msg("Live quotes fetched")
	return quotes
}

// allSymbols collects the unique transaction symbols across accounts, sorted.
func allSymbols(accounts []models.Account) []string {
	seen := make(map[string]bool)
	for _, a := range accounts {
		for _, t := range a.Transactions {
			seen[strings.ToUpper(t.Symbol)] = true
		}
	}
	out := make([]string, 0, len(seen))
	for sym := range seen {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// replayAccount sorts and replays one account's transactions.
func replayAccount(a models.Account) (*ledger.Book, error) {
	txns := make([]models.Transaction, len(a.Transactions))
	copy(txns, a.Transactions)
	models.SortTransactionsByDate(txns)
	book, err := ledger.Replay(txns)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", a.Name, err)
	}
	return book, nil
}

// BuildReport runs the full analysis and assembles the report document.
func (s *Service) BuildReport(ctx context.Context) (*models.Report, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	quotes := s.fetchQuotes(ctx, allSymbols(data.Accounts))

	accounts, globalUSD, globalEUR, err := s.valuation(ctx, data, quotes)
	if err != nil {
		return nil, err
	}

	performance, err := s.performance(ctx, data, quotes)
	if err != nil {
		return nil, err
	}

	sells, sellSummary, sellSymbols, err := s.sellAnalysis(ctx, data, quotes)
	if err != nil {
		return nil, err
	}

	report := &models.Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now(),
		UpdatedAt:   data.UpdatedAt,
		Accounts:    accounts,
		GlobalUSD:   globalUSD,
		GlobalEUR:   globalEUR,
		Allocation:  s.allocation(globalUSD, data.Targets),
		Performance: performance,
		Sells:       sells,
		SellSummary: sellSummary,
		SellSymbols: sellSymbols,
		Dividends:   s.dividends(data, quotes),
		Watchlist:   s.watchlist(ctx, data.Watchlist),
		Rates:       s.fx.Table(),
	}

	s.logger.Info().
		Str("report_id", report.ID).
		Int("accounts", len(report.Accounts)).
		Int("performance_months", len(report.Performance)).
		Int("sells", len(report.Sells)).
		Msg("Report built")
	return report, nil
}

// Valuation computes the priced holdings sections.
func (s *Service) Valuation(ctx context.Context) ([]models.ValuationSection, *models.ValuationSection, *models.ValuationSection, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	quotes := s.fetchQuotes(ctx, allSymbols(data.Accounts))
	return s.valuation(ctx, data, quotes)
}

// Performance computes the monthly performance series.
func (s *Service) Performance(ctx context.Context) ([]models.MonthlyPerformanceRecord, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	quotes := s.fetchQuotes(ctx, allSymbols(data.Accounts))
	return s.performance(ctx, data, quotes)
}

// SellAnalysis attributes realized P&L to individual sell events.
func (s *Service) SellAnalysis(ctx context.Context) ([]models.SellAnalysisRecord, *models.SellAnalysisSummary, []models.SymbolSellSummary, error) {
	data, err := s.load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	quotes := s.fetchQuotes(ctx, allSymbols(data.Accounts))
	return s.sellAnalysis(ctx, data, quotes)
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
