// Package counterparty provides the counterparty catalog.
// Counterparties are business partners: customers, suppliers, or both.
package counterparty

import (
	"context"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/types"
)

// Type defines the role of a counterparty.
type Type string

const (
	TypeCustomer Type = "customer"
	TypeSupplier Type = "supplier"
	TypeBoth     Type = "both"
)

// Counterparty represents a business partner.
//
// Balance is a running total: receivable for customers (they owe us),
// payable for suppliers (we owe them). It is mutated only by document
// posting, cancellation, and payment settlement.
type Counterparty struct {
	entity.Catalog

	// Type defines whether this is a customer, supplier, or both
	Type Type `db:"type" json:"type"`

	// Balance is the running receivable/payable amount
	Balance types.Money `db:"balance" json:"balance"`

	// Phone is an optional contact number
	Phone *string `db:"phone" json:"phone,omitempty"`

	// Email is an optional contact address
	Email *string `db:"email" json:"email,omitempty"`
}

// NewCounterparty creates a new counterparty.
func NewCounterparty(code, name string, cpType Type) *Counterparty {
	return &Counterparty{
		Catalog: entity.NewCatalog(code, name),
		Type:    cpType,
		Balance: types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (c *Counterparty) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	switch c.Type {
	case TypeCustomer, TypeSupplier, TypeBoth:
	default:
		return apperror.NewValidation("invalid counterparty type").
			WithDetail("field", "type").
			WithDetail("value", string(c.Type))
	}

	return nil
}

// IsCustomer reports whether the counterparty can appear on sales documents.
func (c *Counterparty) IsCustomer() bool {
	return c.Type == TypeCustomer || c.Type == TypeBoth
}

// IsSupplier reports whether the counterparty can appear on purchase documents.
func (c *Counterparty) IsSupplier() bool {
	return c.Type == TypeSupplier || c.Type == TypeBoth
}
