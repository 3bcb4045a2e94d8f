package reports

import (
	"context"
	"fmt"

	"minibooks/internal/core/types"
	"minibooks/pkg/logger"
)

// Service assembles reports from the read-side repository.
type Service struct {
	repo Repository
}

// NewService creates a reports service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// TrialBalance builds the trial balance for a period. A grand total mismatch
// beyond the balance tolerance is reported, not swallowed: it means a journal
// entry violated the invariant and the books need investigation.
func (s *Service) TrialBalance(ctx context.Context, period JournalPeriod) (*TrialBalance, error) {
	rows, err := s.repo.TrialBalanceRows(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("trial balance rows: %w", err)
	}

	report := &TrialBalance{
		Rows:        rows,
		TotalDebit:  types.Zero(),
		TotalCredit: types.Zero(),
	}
	for _, row := range rows {
		report.TotalDebit = report.TotalDebit.Add(row.TotalDebit)
		report.TotalCredit = report.TotalCredit.Add(row.TotalCredit)
	}

	report.Balanced = !report.TotalDebit.Sub(report.TotalCredit).Abs().GreaterThan(types.BalanceTolerance)
	if !report.Balanced {
		logger.Error(ctx, "trial balance does not balance",
			"total_debit", report.TotalDebit.String(),
			"total_credit", report.TotalCredit.String(),
		)
	}

	return report, nil
}

// Stock builds the stock valuation report.
func (s *Service) Stock(ctx context.Context) (*StockReport, error) {
	rows, err := s.repo.StockRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock rows: %w", err)
	}

	report := &StockReport{
		Rows:       rows,
		TotalValue: types.Zero(),
	}
	for _, row := range rows {
		report.TotalValue = report.TotalValue.Add(row.StockValue)
	}

	return report, nil
}

// DocumentJournal lists documents across all kinds for a period.
func (s *Service) DocumentJournal(ctx context.Context, period JournalPeriod, limit, offset int) ([]DocumentJournalRow, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.DocumentJournalRows(ctx, period, limit, offset)
}
