// Package product provides the product catalog.
package product

import (
	"context"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/types"
)

// Product represents a stocked item.
//
// QuantityOnHand is the authoritative running stock level. It is mutated
// only by document posting and its reversal counterpart, never by direct
// user edit once movements exist; it must always equal the fold over the
// product's inventory movements.
type Product struct {
	entity.Catalog

	// PurchasePrice is the last known purchase price (informational)
	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`

	// SellingPrice is the default selling price
	SellingPrice types.Money `db:"selling_price" json:"sellingPrice"`

	// QuantityOnHand is the running stock level
	QuantityOnHand types.Quantity `db:"quantity_on_hand" json:"quantityOnHand"`

	// MinStockLevel triggers the low-stock report
	MinStockLevel types.Quantity `db:"min_stock_level" json:"minStockLevel"`
}

// NewProduct creates a new product.
func NewProduct(code, name string) *Product {
	return &Product{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price must not be negative").
			WithDetail("field", "purchasePrice")
	}

	if p.SellingPrice.IsNegative() {
		return apperror.NewValidation("selling price must not be negative").
			WithDetail("field", "sellingPrice")
	}

	if p.MinStockLevel.IsNegative() {
		return apperror.NewValidation("minimum stock level must not be negative").
			WithDetail("field", "minStockLevel")
	}

	return nil
}

// IsLowOnStock reports whether the product is at or below its minimum level.
func (p *Product) IsLowOnStock() bool {
	return !p.MinStockLevel.IsZero() && p.QuantityOnHand <= p.MinStockLevel
}
