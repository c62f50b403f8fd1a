// Package portfoliofs implements file-based storage for the portfolio file
// and generated report artifacts.
package portfoliofs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Store reads the externally owned portfolio file and writes report
// artifacts. The portfolio file is never written back.
type Store struct {
	portfolioPath string
	reportsDir    string
	logger        *common.Logger
}

// NewStore creates a portfolio file store. The reports directory is created
// if missing.
func NewStore(logger *common.Logger, portfolioPath, reportsDir string) (*Store, error) {
	if err := os.MkdirAll(reportsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports path %s: %w", reportsDir, err)
	}

	logger.Info().
		Str("portfolio", portfolioPath).
		Str("reports", reportsDir).
		Msg("Portfolio store opened")
	return &Store{
		portfolioPath: portfolioPath,
		reportsDir:    reportsDir,
		logger:        logger,
	}, nil
}

// ReportsDir returns the reports directory path.
func (s *Store) ReportsDir() string {
	return s.reportsDir
}

// portfolioFile mirrors the on-disk portfolio JSON layout.
type portfolioFile struct {
	UpdatedAt string             `json:"updated_at"`
	Accounts  []accountEntry     `json:"accounts"`
	Watchlist []watchlistEntry   `json:"watchlist"`
	Targets   map[string]float64 `json:"allocation_targets"`
}

type accountEntry struct {
	Name         string             `json:"name"`
	Currency     string             `json:"currency"`
	Cash         float64            `json:"cash"`
	Transactions []transactionEntry `json:"transactions"`
}

type transactionEntry struct {
	Symbol   string  `json:"symbol"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Shares   float64 `json:"shares"`
	Price    float64 `json:"price"`
	Fee      float64 `json:"fee"`
	Date     string  `json:"date"`
	Currency string  `json:"currency"`
	Note     string  `json:"note"`
}

type watchlistEntry struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Currency    string  `json:"currency"`
	TargetPrice float64 `json:"target_price"`
	Note        string  `json:"note"`
}

// Load reads, parses and validates the portfolio file.
func (s *Store) Load(ctx context.Context) (*interfaces.PortfolioData, error) {
	data, err := os.ReadFile(s.portfolioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read portfolio file %s: %w", s.portfolioPath, err)
	}

	var file portfolioFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse portfolio file %s: %w", s.portfolioPath, err)
	}

	out := &interfaces.PortfolioData{
		Targets:   file.Targets,
		UpdatedAt: models.ParseDate(file.UpdatedAt),
	}

	for _, a := range file.Accounts {
		account := models.Account{
			Name:     a.Name,
			Currency: a.Currency,
			Cash:     a.Cash,
		}
		for i, e := range a.Transactions {
			txn := models.Transaction{
				Symbol:          strings.ToUpper(strings.TrimSpace(e.Symbol)),
				Name:            e.Name,
				Kind:            models.ParseTransactionKind(e.Type),
				Shares:          e.Shares,
				Price:           e.Price,
				Fee:             e.Fee,
				Date:            models.ParseDate(e.Date),
				DateRaw:         e.Date,
				Currency:        e.Currency,
				Note:            e.Note,
				Account:         a.Name,
				AccountCurrency: a.Currency,
			}
			if txn.Currency == "" {
				txn.Currency = a.Currency
			}
			if txn.Currency == "" {
				txn.Currency = "$"
			}
			if err := txn.Validate(i); err != nil {
				return nil, err
			}
			account.Transactions = append(account.Transactions, txn)
		}
		out.Accounts = append(out.Accounts, account)
	}

	for _, w := range file.Watchlist {
		out.Watchlist = append(out.Watchlist, models.WatchlistItem{
			Symbol:      strings.ToUpper(strings.TrimSpace(w.Symbol)),
			Name:        w.Name,
			Currency:    w.Currency,
			TargetPrice: w.TargetPrice,
			Note:        w.Note,
		})
	}

	txnCount := 0
	for _, a := range out.Accounts {
		txnCount += len(a.Transactions)
	}
	s.logger.Info().
		Int("accounts", len(out.Accounts)).
		Int("transactions", txnCount).
		Int("watchlist", len(out.Watchlist)).
		Msg("Portfolio loaded")

	return out, nil
}

// SaveReport writes a report artifact atomically and returns its path.
func (s *Store) SaveReport(name string, data []byte) (string, error) {
	target := filepath.Join(s.reportsDir, sanitizeName(name))

	tmpFile, err := os.CreateTemp(s.reportsDir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Info().Str("path", target).Int("bytes", len(data)).Msg("Report written")
	return target, nil
}

// SaveReportJSON marshals v with indentation and writes it as a report.
func (s *Store) SaveReportJSON(name string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return s.SaveReport(name, data)
}

// sanitizeName keeps report names filesystem safe.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	out := replacer.Replace(name)
	if out == "" {
		out = fmt.Sprintf("report-%d.json", time.Now().Unix())
	}
	return out
}

// Ensure Store implements PortfolioStore
var _ interfaces.PortfolioStore = (*Store)(nil)
