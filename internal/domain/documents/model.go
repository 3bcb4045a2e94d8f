// Package documents provides the commercial document model shared by sales
// invoices, purchase invoices, returns, and inventory adjustments.
package documents

import (
	"context"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// Kind identifies the document type. All five kinds share one shape; the
// posting engine parameterizes journal lines and stock effects per kind.
type Kind string

const (
	KindSalesInvoice    Kind = "sales_invoice"
	KindPurchaseInvoice Kind = "purchase_invoice"
	KindSalesReturn     Kind = "sales_return"
	KindPurchaseReturn  Kind = "purchase_return"
	KindAdjustment      Kind = "inventory_adjustment"
)

// Kinds lists all document kinds.
var Kinds = []Kind{
	KindSalesInvoice,
	KindPurchaseInvoice,
	KindSalesReturn,
	KindPurchaseReturn,
	KindAdjustment,
}

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSalesInvoice, KindPurchaseInvoice, KindSalesReturn, KindPurchaseReturn, KindAdjustment:
		return true
	}
	return false
}

// NumberPrefix returns the numerator prefix for the kind.
func (k Kind) NumberPrefix() string {
	switch k {
	case KindSalesInvoice:
		return "INV"
	case KindPurchaseInvoice:
		return "PIN"
	case KindSalesReturn:
		return "SRT"
	case KindPurchaseReturn:
		return "PRT"
	case KindAdjustment:
		return "ADJ"
	}
	return "DOC"
}

// RequiresCounterparty reports whether documents of this kind must name a
// customer or supplier. Adjustments are internal.
func (k Kind) RequiresCounterparty() bool {
	return k != KindAdjustment
}

// Cancellable reports whether a posted document of this kind supports the
// posted -> cancelled transition. Only invoices do; returns and adjustments
// stop at posted.
func (k Kind) Cancellable() bool {
	return k == KindSalesInvoice || k == KindPurchaseInvoice
}

// IsInvoice reports whether the kind participates in payment allocation.
func (k Kind) IsInvoice() bool {
	return k == KindSalesInvoice || k == KindPurchaseInvoice
}

// Document is a commercial document: one shape for all five kinds.
type Document struct {
	entity.Document

	// Kind identifies the document type
	Kind Kind `db:"kind" json:"kind"`

	// CounterpartyID is the customer or supplier (nil for adjustments)
	CounterpartyID *id.ID `db:"counterparty_id" json:"counterpartyId,omitempty"`

	// Totals, fixed at posting time
	Subtotal types.Money `db:"subtotal" json:"subtotal"`
	Tax      types.Money `db:"tax" json:"tax"`
	Total    types.Money `db:"total" json:"total"`

	// PaidAmount is a derived cache over payment allocations (invoices only).
	// The reconciler keeps it equal to the sum of allocations after every
	// allocation-table mutation.
	PaidAmount types.Money `db:"paid_amount" json:"paidAmount"`

	// Table part
	Items []Item `db:"-" json:"items"`
}

// Item is one line of a commercial document.
type Item struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity: units sold/purchased/returned. For adjustments this is the
	// system (book) quantity.
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// ActualQuantity is the counted quantity (adjustments only)
	ActualQuantity *types.Quantity `db:"actual_quantity" json:"actualQuantity,omitempty"`

	UnitPrice types.Money `db:"unit_price" json:"unitPrice"`
	Discount  types.Money `db:"discount" json:"discount"`

	// LineTotal = Quantity x UnitPrice - Discount
	LineTotal types.Money `db:"line_total" json:"lineTotal"`
}

// Delta returns the adjustment delta (actual - system) for adjustment items.
func (i *Item) Delta() types.Quantity {
	if i.ActualQuantity == nil {
		return 0
	}
	return *i.ActualQuantity - i.Quantity
}

// New creates a new draft document of the given kind.
func New(kind Kind, counterpartyID *id.ID) *Document {
	return &Document{
		Document:       entity.NewDocument(),
		Kind:           kind,
		CounterpartyID: counterpartyID,
		Subtotal:       types.Zero(),
		Tax:            types.Zero(),
		Total:          types.Zero(),
		PaidAmount:     types.Zero(),
		Items:          make([]Item, 0),
	}
}

// AddItem adds a line and recalculates totals.
func (d *Document) AddItem(productID id.ID, quantity types.Quantity, unitPrice, discount types.Money) {
	line := Item{
		LineID:    id.New(),
		LineNo:    len(d.Items) + 1,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Discount:  discount,
		LineTotal: types.RoundMoney(unitPrice.Mul(quantity.Decimal()).Sub(discount)),
	}

	d.Items = append(d.Items, line)
	d.RecalculateTotals()
}

// AddAdjustmentItem adds an adjustment line carrying system and counted
// quantities. Line totals stay zero; adjustments are valued at average cost
// during posting, not priced.
func (d *Document) AddAdjustmentItem(productID id.ID, systemQty, actualQty types.Quantity) {
	line := Item{
		LineID:         id.New(),
		LineNo:         len(d.Items) + 1,
		ProductID:      productID,
		Quantity:       systemQty,
		ActualQuantity: &actualQty,
		UnitPrice:      types.Zero(),
		Discount:       types.Zero(),
		LineTotal:      types.Zero(),
	}

	d.Items = append(d.Items, line)
}

// RecalculateTotals recomputes subtotal and total from the items.
// Tax is set by the caller before posting; Total = Subtotal + Tax.
func (d *Document) RecalculateTotals() {
	subtotal := types.Zero()
	for _, item := range d.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}
	d.Subtotal = subtotal
	d.Total = subtotal.Add(d.Tax)
}

// Remaining returns the unpaid portion of an invoice.
func (d *Document) Remaining() types.Money {
	return d.Total.Sub(d.PaidAmount)
}

// Validate implements entity.Validatable.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.Document.Validate(ctx); err != nil {
		return err
	}

	if !d.Kind.Valid() {
		return apperror.NewValidation("invalid document kind").
			WithDetail("field", "kind").
			WithDetail("value", string(d.Kind))
	}

	if d.Kind.RequiresCounterparty() && (d.CounterpartyID == nil || id.IsNil(*d.CounterpartyID)) {
		return apperror.NewValidation("counterparty is required").
			WithDetail("field", "counterpartyId")
	}

	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range d.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}

		if d.Kind == KindAdjustment {
			if item.ActualQuantity == nil {
				return apperror.NewValidation("actual quantity is required").
					WithDetail("field", "items").
					WithDetail("lineNo", i+1)
			}
			if item.ActualQuantity.IsNegative() {
				return apperror.NewValidation("actual quantity must not be negative").
					WithDetail("field", "items").
					WithDetail("lineNo", i+1)
			}
			continue
		}

		if !item.Quantity.IsPositive() {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperror.NewValidation("unit price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
