// Package document_repo provides the PostgreSQL repository for commercial
// documents. Documents are a header row plus an items table part; the two are
// always written together inside the caller's transaction.
package document_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/internal/domain/documents"
	"minibooks/internal/infrastructure/storage/postgres"
)

const (
	documentsTable     = "documents"
	documentItemsTable = "document_items"
)

// DocumentRepo implements documents.Repository.
type DocumentRepo struct {
	txManager  *postgres.TxManager
	selectCols []string
}

var _ documents.Repository = (*DocumentRepo)(nil)

// NewDocumentRepo creates a document repository.
func NewDocumentRepo(txManager *postgres.TxManager) *DocumentRepo {
	return &DocumentRepo{
		txManager:  txManager,
		selectCols: postgres.ExtractDBColumns[documents.Document](),
	}
}

func (r *DocumentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *DocumentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *DocumentRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(documentsTable)
}

// Create persists a document header with its items.
func (r *DocumentRepo) Create(ctx context.Context, doc *documents.Document) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		data := postgres.StructToMap(doc)
		filteredData := make(map[string]any, len(r.selectCols))
		for _, col := range r.selectCols {
			if val, ok := data[col]; ok {
				filteredData[col] = val
			}
		}

		sql, args, err := r.builder().
			Insert(documentsTable).
			SetMap(filteredData).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}

		return r.insertItems(ctx, doc.ID, doc.Items)
	})
}

// GetByID retrieves a document with its items.
func (r *DocumentRepo) GetByID(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return r.getOne(ctx, docID, false)
}

// GetForUpdate retrieves a document with a row lock. Callers must be inside a
// transaction or the lock is released immediately.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, docID id.ID) (*documents.Document, error) {
	return r.getOne(ctx, docID, true)
}

func (r *DocumentRepo) getOne(ctx context.Context, docID id.ID, forUpdate bool) (*documents.Document, error) {
	q := r.baseSelect().Where(squirrel.Eq{"id": docID})
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := &documents.Document{}
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(documentsTable, docID.String())
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	items, err := r.getItems(ctx, docID)
	if err != nil {
		return nil, err
	}
	doc.Items = items

	return doc, nil
}

func (r *DocumentRepo) getItems(ctx context.Context, docID id.ID) ([]documents.Item, error) {
	sql, args, err := r.builder().
		Select(
			"line_id", "line_no", "product_id",
			"quantity", "actual_quantity",
			"unit_price", "discount", "line_total",
		).
		From(documentItemsTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]documents.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	return items, nil
}

func (r *DocumentRepo) insertItems(ctx context.Context, docID id.ID, items []documents.Item) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder().
		Insert(documentItemsTable).
		Columns(
			"line_id", "document_id", "line_no", "product_id",
			"quantity", "actual_quantity",
			"unit_price", "discount", "line_total",
		)

	for _, item := range items {
		q = q.Values(
			item.LineID, docID, item.LineNo, item.ProductID,
			item.Quantity, item.ActualQuantity,
			item.UnitPrice, item.Discount, item.LineTotal,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}

	return nil
}

// Update replaces header fields and items with an optimistic version check.
func (r *DocumentRepo) Update(ctx context.Context, doc *documents.Document) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		data := postgres.StructToMap(doc)

		version, ok := data["version"].(int)
		if !ok {
			return fmt.Errorf("document has no 'version' field or it is not an int")
		}

		filteredData := make(map[string]any, len(r.selectCols))
		for _, col := range r.selectCols {
			switch col {
			case "id", "version", "created_at", "updated_at":
				continue
			}
			if val, ok := data[col]; ok {
				filteredData[col] = val
			}
		}

		sql, args, err := r.builder().
			Update(documentsTable).
			SetMap(filteredData).
			Set("version", squirrel.Expr("version + 1")).
			Set("updated_at", squirrel.Expr("NOW()")).
			Where(squirrel.Eq{"id": doc.ID}).
			Where(squirrel.Eq{"version": version}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}

		result, err := r.querier(ctx).Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewConcurrentModification(documentsTable, doc.ID)
		}

		deleteSQL := "DELETE FROM " + documentItemsTable + " WHERE document_id = $1"
		if _, err := r.querier(ctx).Exec(ctx, deleteSQL, doc.ID); err != nil {
			return fmt.Errorf("delete existing items: %w", err)
		}

		return r.insertItems(ctx, doc.ID, doc.Items)
	})
}

// UpdateStatus persists the fields changed by posting and cancellation. The
// document row is already locked by GetForUpdate, so no version check here.
func (r *DocumentRepo) UpdateStatus(ctx context.Context, doc *documents.Document) error {
	sql, args, err := r.builder().
		Update(documentsTable).
		Set("status", doc.Status).
		Set("posted_version", doc.PostedVersion).
		Set("journal_entry_id", doc.JournalEntryID).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": doc.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(documentsTable, doc.ID.String())
	}

	return nil
}

// UpdatePaidAmount overwrites the derived paid_amount cache.
func (r *DocumentRepo) UpdatePaidAmount(ctx context.Context, docID id.ID, paidAmount types.Money) error {
	sql, args, err := r.builder().
		Update(documentsTable).
		Set("paid_amount", paidAmount).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": docID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update paid amount: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(documentsTable, docID.String())
	}

	return nil
}

// Delete removes a draft document with its items. Posted documents are never
// deleted; the service layer enforces that before calling here.
func (r *DocumentRepo) Delete(ctx context.Context, docID id.ID) error {
	return r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		deleteItemsSQL := "DELETE FROM " + documentItemsTable + " WHERE document_id = $1"
		if _, err := r.querier(ctx).Exec(ctx, deleteItemsSQL, docID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}

		sql, args, err := r.builder().
			Delete(documentsTable).
			Where(squirrel.Eq{"id": docID}).
			Where(squirrel.Eq{"status": entity.StatusDraft}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build delete: %w", err)
		}

		result, err := r.querier(ctx).Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("delete document: %w", err)
		}
		if result.RowsAffected() == 0 {
			return apperror.NewNotFound(documentsTable, docID.String())
		}

		return nil
	})
}

// List retrieves document headers with filtering. Items are not loaded; use
// GetByID for the full document.
func (r *DocumentRepo) List(ctx context.Context, filter documents.ListFilter) (domain.ListResult[*documents.Document], error) {
	result := domain.ListResult[*documents.Document]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.Kind != nil {
		q = q.Where(squirrel.Eq{"kind": *filter.Kind})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
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

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return result, err
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
		return result, fmt.Errorf("list documents: %w", err)
	}

	return result, nil
}

func (r *DocumentRepo) parseOrderBy(orderBy string) (string, error) {
	if strings.TrimSpace(orderBy) == "" {
		return "date DESC, number DESC", nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	}
	field = strings.TrimSpace(field)

	allowed := false
	for _, col := range r.selectCols {
		if col == field {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", apperror.NewValidation("invalid orderBy").
			WithDetail("orderBy", orderBy)
	}

	return field + " " + direction, nil
}
