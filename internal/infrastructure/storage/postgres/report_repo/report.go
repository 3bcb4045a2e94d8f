// Package report_repo provides the read-side SQL behind the reports.
// Aggregation runs in PostgreSQL; the service layer only assembles totals.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/domain/reports"
	"minibooks/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func (r *ReportRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// TrialBalanceRows returns per-account debit/credit turnover for the period.
func (r *ReportRepo) TrialBalanceRows(ctx context.Context, period reports.JournalPeriod) ([]reports.TrialBalanceRow, error) {
	q := r.builder().
		Select(
			"a.id AS account_id",
			"a.code AS account_code",
			"a.name AS account_name",
			"a.type AS account_type",
			"COALESCE(SUM(l.debit), 0) AS total_debit",
			"COALESCE(SUM(l.credit), 0) AS total_credit",
		).
		From("journal_lines l").
		Join("journal_entries e ON e.id = l.entry_id").
		Join("accounts a ON a.id = l.account_id").
		GroupBy("a.id", "a.code", "a.name", "a.type").
		OrderBy("a.code")

	if period.From != nil {
		q = q.Where(squirrel.GtOrEq{"e.date": *period.From})
	}
	if period.To != nil {
		q = q.Where(squirrel.LtOrEq{"e.date": *period.To})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.TrialBalanceRow, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("trial balance rows: %w", err)
	}

	return rows, nil
}

// StockRows returns the stock position of every undeleted product with the
// average cost folded from the movement register. The quantity column is a
// fixed-point integer with 4 decimal places, hence the 10000 divisors.
func (r *ReportRepo) StockRows(ctx context.Context) ([]reports.StockRow, error) {
	sql := `
		SELECT
			p.id AS product_id,
			p.code AS product_code,
			p.name AS product_name,
			p.quantity_on_hand,
			ROUND(COALESCE(inc.avg_cost, 0), 2) AS average_cost,
			ROUND(p.quantity_on_hand::numeric / 10000 * COALESCE(inc.avg_cost, 0), 2) AS stock_value,
			p.min_stock_level,
			(p.min_stock_level > 0 AND p.quantity_on_hand <= p.min_stock_level) AS low_stock
		FROM products p
		LEFT JOIN (
			SELECT
				product_id,
				SUM(total_cost) / NULLIF(SUM(quantity)::numeric / 10000, 0) AS avg_cost
			FROM inventory_movements
			WHERE movement_type IN ('purchase', 'opening_balance')
			GROUP BY product_id
		) inc ON inc.product_id = p.id
		WHERE p.deletion_mark = false
		ORDER BY p.code
	`

	rows := make([]reports.StockRow, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql); err != nil {
		return nil, fmt.Errorf("stock rows: %w", err)
	}

	return rows, nil
}

// DocumentJournalRows returns documents across all kinds, newest first.
func (r *ReportRepo) DocumentJournalRows(ctx context.Context, period reports.JournalPeriod, limit, offset int) ([]reports.DocumentJournalRow, error) {
	q := r.builder().
		Select(
			"d.id AS document_id",
			"d.kind",
			"d.number",
			"d.date",
			"d.status",
			"COALESCE(c.name, '') AS counterparty_name",
			"d.total",
			"d.paid_amount",
		).
		From("documents d").
		LeftJoin("counterparties c ON c.id = d.counterparty_id").
		OrderBy("d.date DESC", "d.number DESC")

	if period.From != nil {
		q = q.Where(squirrel.GtOrEq{"d.date": *period.From})
	}
	if period.To != nil {
		q = q.Where(squirrel.LtOrEq{"d.date": *period.To})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.DocumentJournalRow, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("document journal rows: %w", err)
	}

	return rows, nil
}
