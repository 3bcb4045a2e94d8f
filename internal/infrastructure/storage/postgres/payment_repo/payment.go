// Package payment_repo provides the PostgreSQL repository for payments and
// their invoice allocations.
package payment_repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
	"minibooks/internal/domain/payments"
	"minibooks/internal/infrastructure/storage/postgres"
)

const (
	paymentsTable    = "payments"
	allocationsTable = "payment_allocations"
)

var (
	paymentCols    = postgres.ExtractDBColumns[payments.Payment]()
	allocationCols = postgres.ExtractDBColumns[payments.Allocation]()
)

// PaymentRepo implements payments.Repository.
type PaymentRepo struct {
	txManager *postgres.TxManager
}

var _ payments.Repository = (*PaymentRepo)(nil)

// NewPaymentRepo creates a payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{txManager: txManager}
}

func (r *PaymentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *PaymentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

func (r *PaymentRepo) insert(ctx context.Context, table string, cols []string, row any) error {
	data := postgres.StructToMap(row)
	filteredData := make(map[string]any, len(cols))
	for _, col := range cols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	sql, args, err := r.builder().
		Insert(table).
		SetMap(filteredData).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}

	return nil
}

// CreatePayment inserts a payment.
func (r *PaymentRepo) CreatePayment(ctx context.Context, p *payments.Payment) error {
	return r.insert(ctx, paymentsTable, paymentCols, p)
}

// GetPayment retrieves a payment.
func (r *PaymentRepo) GetPayment(ctx context.Context, paymentID id.ID) (*payments.Payment, error) {
	sql, args, err := r.builder().
		Select(paymentCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"id": paymentID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p := &payments.Payment{}
	if err := pgxscan.Get(ctx, r.querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(paymentsTable, paymentID.String())
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return p, nil
}

// ListPayments retrieves payments with filtering, newest first by default.
func (r *PaymentRepo) ListPayments(ctx context.Context, filter payments.ListFilter) (domain.ListResult[*payments.Payment], error) {
	result := domain.ListResult[*payments.Payment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(paymentCols...).
		From(paymentsTable)

	if filter.CounterpartyID != nil {
		q = q.Where(squirrel.Eq{"counterparty_id": *filter.CounterpartyID})
	}
	if filter.Direction != nil {
		q = q.Where(squirrel.Eq{"direction": *filter.Direction})
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

	orderBy := "date DESC, number DESC"
	if trimmed := strings.TrimSpace(filter.OrderBy); trimmed != "" {
		field := strings.TrimPrefix(trimmed, "-")
		allowed := false
		for _, col := range paymentCols {
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
		return result, fmt.Errorf("list payments: %w", err)
	}

	return result, nil
}

// CreateAllocation inserts an allocation.
func (r *PaymentRepo) CreateAllocation(ctx context.Context, a *payments.Allocation) error {
	return r.insert(ctx, allocationsTable, allocationCols, a)
}

// GetAllocation retrieves an allocation.
func (r *PaymentRepo) GetAllocation(ctx context.Context, allocationID id.ID) (*payments.Allocation, error) {
	sql, args, err := r.builder().
		Select(allocationCols...).
		From(allocationsTable).
		Where(squirrel.Eq{"id": allocationID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	a := &payments.Allocation{}
	if err := pgxscan.Get(ctx, r.querier(ctx), a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(allocationsTable, allocationID.String())
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}

	return a, nil
}

// DeleteAllocation removes an allocation.
func (r *PaymentRepo) DeleteAllocation(ctx context.Context, allocationID id.ID) error {
	sql, args, err := r.builder().
		Delete(allocationsTable).
		Where(squirrel.Eq{"id": allocationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(allocationsTable, allocationID.String())
	}

	return nil
}

// GetAllocationsByPayment lists a payment's allocations, oldest first.
func (r *PaymentRepo) GetAllocationsByPayment(ctx context.Context, paymentID id.ID) ([]payments.Allocation, error) {
	return r.getAllocations(ctx, squirrel.Eq{"payment_id": paymentID})
}

// GetAllocationsByInvoice lists an invoice's allocations, oldest first.
func (r *PaymentRepo) GetAllocationsByInvoice(ctx context.Context, invoiceID id.ID) ([]payments.Allocation, error) {
	return r.getAllocations(ctx, squirrel.Eq{"invoice_id": invoiceID})
}

func (r *PaymentRepo) getAllocations(ctx context.Context, where squirrel.Sqlizer) ([]payments.Allocation, error) {
	sql, args, err := r.builder().
		Select(allocationCols...).
		From(allocationsTable).
		Where(where).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	allocations := make([]payments.Allocation, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &allocations, sql, args...); err != nil {
		return nil, fmt.Errorf("get allocations: %w", err)
	}

	return allocations, nil
}

// SumAllocationsByPayment folds the allocated amount of a payment.
func (r *PaymentRepo) SumAllocationsByPayment(ctx context.Context, paymentID id.ID) (types.Money, error) {
	return r.sumAllocations(ctx, squirrel.Eq{"payment_id": paymentID})
}

// SumAllocationsByInvoice folds the allocated amount of an invoice.
func (r *PaymentRepo) SumAllocationsByInvoice(ctx context.Context, invoiceID id.ID) (types.Money, error) {
	return r.sumAllocations(ctx, squirrel.Eq{"invoice_id": invoiceID})
}

func (r *PaymentRepo) sumAllocations(ctx context.Context, where squirrel.Sqlizer) (types.Money, error) {
	sql, args, err := r.builder().
		Select("COALESCE(SUM(amount), 0)").
		From(allocationsTable).
		Where(where).
		ToSql()
	if err != nil {
		return types.Zero(), fmt.Errorf("build query: %w", err)
	}

	var total types.Money
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum allocations: %w", err)
	}

	return total, nil
}
