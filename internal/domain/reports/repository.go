package reports

import (
	"context"
)

// Repository defines the read-side queries behind the reports.
// Aggregation happens in SQL; the service layer only assembles totals.
type Repository interface {
	// TrialBalanceRows returns per-account debit/credit turnover for the
	// period, ordered by account code. Accounts without postings are omitted.
	TrialBalanceRows(ctx context.Context, period JournalPeriod) ([]TrialBalanceRow, error)

	// StockRows returns stock positions for all undeleted products with the
	// average cost folded from the movement register.
	StockRows(ctx context.Context) ([]StockRow, error)

	// DocumentJournalRows returns documents across all kinds for the period,
	// newest first.
	DocumentJournalRows(ctx context.Context, period JournalPeriod, limit, offset int) ([]DocumentJournalRow, error)
}
