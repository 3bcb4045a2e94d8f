package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo is the PostgreSQL repository for products.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
	txManager *postgres.TxManager
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			productsTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
		txManager: txManager,
	}
}

// GetForUpdate retrieves a product with a row lock. Callers must be inside a
// transaction or the lock is released immediately.
func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"id": productID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	p := &product.Product{}
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(productsTable, productID.String())
		}
		return nil, fmt.Errorf("get product for update: %w", err)
	}

	return p, nil
}

// AdjustQuantity applies a signed delta to quantity_on_hand in a single
// UPDATE, so concurrent postings cannot lose increments.
func (r *ProductRepo) AdjustQuantity(ctx context.Context, productID id.ID, delta types.Quantity) error {
	sql, args, err := r.Builder().
		Update(productsTable).
		Set("quantity_on_hand", squirrel.Expr("quantity_on_hand + ?", int64(delta))).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("adjust quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// SetQuantity overwrites quantity_on_hand with an absolute value.
func (r *ProductRepo) SetQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error {
	sql, args, err := r.Builder().
		Update(productsTable).
		Set("quantity_on_hand", int64(quantity)).
		Where(squirrel.Eq{"id": productID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txManager.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(productsTable, productID.String())
	}

	return nil
}

// ListLowStock returns undeleted products at or below their minimum stock
// level. Products with a zero minimum never qualify.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*product.Product, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Gt{"min_stock_level": 0}).
		Where(squirrel.Expr("quantity_on_hand <= min_stock_level")).
		OrderBy("code").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*product.Product
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}

	return rows, nil
}
