package product

import (
	"context"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
)

// Repository defines operations for products.
type Repository interface {
	domain.CatalogRepository[*Product]

	// GetForUpdate retrieves a product with a row lock. Posting reads stock
	// through this before computing deltas, so the read-compute-write
	// sequence is serialized per product.
	GetForUpdate(ctx context.Context, productID id.ID) (*Product, error)

	// AdjustQuantity applies a signed delta to quantity_on_hand with
	// arithmetic done in the store (single UPDATE, no read-then-write race).
	AdjustQuantity(ctx context.Context, productID id.ID, delta types.Quantity) error

	// SetQuantity overwrites quantity_on_hand (inventory adjustment posting).
	SetQuantity(ctx context.Context, productID id.ID, quantity types.Quantity) error

	// ListLowStock returns products at or below their minimum stock level.
	ListLowStock(ctx context.Context) ([]*Product, error)
}
