// Package journal_repo provides the PostgreSQL repository for the
// double-entry journal. Entries and lines are insert-only.
package journal_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/domain"
	"minibooks/internal/domain/journal"
	"minibooks/internal/infrastructure/storage/postgres"
)

const (
	entriesTable = "journal_entries"
	linesTable   = "journal_lines"
)

var entryCols = postgres.ExtractDBColumns[journal.Entry]()

// JournalRepo implements journal.Repository.
type JournalRepo struct {
	txManager *postgres.TxManager
}

var _ journal.Repository = (*JournalRepo)(nil)

// NewJournalRepo creates a journal repository.
func NewJournalRepo(txManager *postgres.TxManager) *JournalRepo {
	return &JournalRepo{txManager: txManager}
}

func (r *JournalRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *JournalRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateEntry inserts the header and all lines together.
func (r *JournalRepo) CreateEntry(ctx context.Context, entry *journal.Entry, lines []journal.Line) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		data := postgres.StructToMap(entry)
		filteredData := make(map[string]any, len(entryCols))
		for _, col := range entryCols {
			if val, ok := data[col]; ok {
				filteredData[col] = val
			}
		}

		sql, args, err := r.builder().
			Insert(entriesTable).
			SetMap(filteredData).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert entry: %w", err)
		}
		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert journal entry: %w", err)
		}

		if len(lines) == 0 {
			return nil
		}

		q := r.builder().
			Insert(linesTable).
			Columns("line_id", "entry_id", "line_no", "account_id", "debit", "credit")
		for _, line := range lines {
			q = q.Values(line.LineID, line.EntryID, line.LineNo, line.AccountID, line.Debit, line.Credit)
		}

		sql, args, err = q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert lines: %w", err)
		}
		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert journal lines: %w", err)
		}

		return nil
	})
}

// GetEntry retrieves a header by ID.
func (r *JournalRepo) GetEntry(ctx context.Context, entryID id.ID) (*journal.Entry, error) {
	sql, args, err := r.builder().
		Select(entryCols...).
		From(entriesTable).
		Where(squirrel.Eq{"id": entryID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entry := &journal.Entry{}
	if err := pgxscan.Get(ctx, r.querier(ctx), entry, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(entriesTable, entryID.String())
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}

	return entry, nil
}

// GetLines retrieves the lines of an entry ordered by line number.
func (r *JournalRepo) GetLines(ctx context.Context, entryID id.ID) ([]journal.Line, error) {
	sql, args, err := r.builder().
		Select("line_id", "entry_id", "line_no", "account_id", "debit", "credit").
		From(linesTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []journal.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get journal lines: %w", err)
	}

	return lines, nil
}

// List retrieves entry headers with filtering, newest first by default.
func (r *JournalRepo) List(ctx context.Context, filter journal.ListFilter) (domain.ListResult[*journal.Entry], error) {
	result := domain.ListResult[*journal.Entry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(entryCols...).
		From(entriesTable)

	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"description": pattern},
		})
	}

	countSQL, countArgs, err := r.builder().
		Select("COUNT(*)").
		FromSelect(q, "sub").
		ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}
	if err := r.querier(ctx).QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy := "date DESC, number DESC"
	if trimmed := strings.TrimSpace(filter.OrderBy); trimmed != "" {
		allowed := false
		field := strings.TrimPrefix(trimmed, "-")
		for _, col := range entryCols {
			if col == field {
				allowed = true
				break
			}
		}
		if !allowed {
			return result, apperror.NewValidation("invalid orderBy").
				WithDetail("orderBy", filter.OrderBy)
		}
		orderBy = field
		if strings.HasPrefix(trimmed, "-") {
			orderBy += " DESC"
		}
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list journal entries: %w", err)
	}

	return result, nil
}
