// Package register_repo provides the PostgreSQL repository for the inventory
// movement register.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/registers/inventory"
	"minibooks/internal/infrastructure/storage/postgres"
)

const movementsTable = "inventory_movements"

var movementCols = postgres.ExtractDBColumns[entity.InventoryMovement]()

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txManager *postgres.TxManager
}

var _ inventory.Repository = (*InventoryRepo)(nil)

// NewInventoryRepo creates an inventory register repository.
func NewInventoryRepo(txManager *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{txManager: txManager}
}

func (r *InventoryRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *InventoryRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateMovements batch inserts movements.
func (r *InventoryRepo) CreateMovements(ctx context.Context, movements []entity.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}

	q := r.builder().
		Insert(movementsTable).
		Columns(movementCols...)

	for _, m := range movements {
		data := postgres.StructToMap(m)
		values := make([]any, 0, len(movementCols))
		for _, col := range movementCols {
			values = append(values, data[col])
		}
		q = q.Values(values...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert movements: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", err)
	}

	return nil
}

// DeleteMovementsByRecorder removes all movements created by a document.
func (r *InventoryRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	sql, args, err := r.builder().
		Delete(movementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	return nil
}

// GetMovementsByRecorder retrieves all movements for a document.
func (r *InventoryRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.InventoryMovement, error) {
	sql, args, err := r.builder().
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.InventoryMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movements by recorder: %w", err)
	}

	return movements, nil
}

// SumIncoming folds total cost and quantity over the movements that feed the
// moving average (purchase and opening_balance).
func (r *InventoryRepo) SumIncoming(ctx context.Context, productID id.ID) (types.Money, types.Quantity, error) {
	sql, args, err := r.builder().
		Select(
			"COALESCE(SUM(total_cost), 0) AS total_cost",
			"COALESCE(SUM(quantity), 0)::bigint AS total_qty",
		).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		Where(squirrel.Eq{"movement_type": []entity.MovementType{
			entity.MovementPurchase,
			entity.MovementOpeningBalance,
		}}).
		ToSql()
	if err != nil {
		return types.Zero(), 0, fmt.Errorf("build query: %w", err)
	}

	var (
		totalCost types.Money
		totalQty  int64
	)
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&totalCost, &totalQty); err != nil {
		return types.Zero(), 0, fmt.Errorf("sum incoming: %w", err)
	}

	return totalCost, types.Quantity(totalQty), nil
}

// SumQuantity folds the signed quantities of all movements for a product.
func (r *InventoryRepo) SumQuantity(ctx context.Context, productID id.ID) (types.Quantity, error) {
	sql, args, err := r.builder().
		Select("COALESCE(SUM(quantity), 0)::bigint").
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var total int64
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum quantity: %w", err)
	}

	return types.Quantity(total), nil
}

// GetMovementHistory returns movement history for a product, newest first.
func (r *InventoryRepo) GetMovementHistory(ctx context.Context, productID id.ID, filter inventory.MovementFilter) ([]entity.InventoryMovement, error) {
	q := r.builder().
		Select(movementCols...).
		From(movementsTable).
		Where(squirrel.Eq{"product_id": productID})

	if filter.MovementType != nil {
		q = q.Where(squirrel.Eq{"movement_type": *filter.MovementType})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *filter.ToDate})
	}

	q = q.OrderBy("period DESC, created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.InventoryMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("get movement history: %w", err)
	}

	return movements, nil
}
