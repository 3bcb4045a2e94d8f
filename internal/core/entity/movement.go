package entity

import (
	"time"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// MovementType classifies an inventory movement. The sign of the quantity is
// stored explicitly; the type records the business origin of the change.
type MovementType string

const (
	MovementOpeningBalance MovementType = "opening_balance"
	MovementPurchase       MovementType = "purchase"
	MovementPurchaseReturn MovementType = "purchase_return"
	MovementSale           MovementType = "sale"
	MovementSaleReturn     MovementType = "sale_return"
	MovementAdjustment     MovementType = "adjustment"
)

// IncomingCost reports whether the movement type contributes to the moving
// weighted-average cost base (incoming cost / incoming quantity).
func (t MovementType) IncomingCost() bool {
	return t == MovementPurchase || t == MovementOpeningBalance
}

// InventoryMovement is one row in the append-only stock ledger.
// Movements are immutable: they are never updated, only deleted when the
// recorder document is cancelled and recreated on re-posting.
type InventoryMovement struct {
	// LineID is unique identifier for this movement line (UUIDv7)
	LineID id.ID `db:"line_id" json:"lineId"`

	// RecorderID is the document that created this movement
	RecorderID id.ID `db:"recorder_id" json:"recorderId"`

	// RecorderType is the document type (e.g., "sales_invoice")
	RecorderType string `db:"recorder_type" json:"recorderType"`

	// RecorderVersion tracks which posting iteration created this movement.
	// Allows cleanup: DELETE WHERE recorder_id = X AND recorder_version < Y
	RecorderVersion int `db:"recorder_version" json:"recorderVersion"`

	// Period is the business date for the movement
	Period time.Time `db:"period" json:"period"`

	// MovementType records the business origin
	MovementType MovementType `db:"movement_type" json:"movementType"`

	ProductID id.ID `db:"product_id" json:"productId"`

	// Quantity is signed: positive increases stock, negative decreases it
	Quantity types.Quantity `db:"quantity" json:"quantity"`

	// UnitCost is the valuation rate applied to this movement
	UnitCost types.Money `db:"unit_cost" json:"unitCost"`

	// TotalCost = |Quantity| x UnitCost, rounded to 2 decimal places at persist time
	TotalCost types.Money `db:"total_cost" json:"totalCost"`

	// CreatedAt is when the movement was recorded
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewInventoryMovement creates a movement with generated LineID.
// TotalCost is rounded here, the unit cost keeps full precision.
func NewInventoryMovement(
	recorderID id.ID,
	recorderType string,
	recorderVersion int,
	period time.Time,
	movementType MovementType,
	productID id.ID,
	quantity types.Quantity,
	unitCost types.Money,
) InventoryMovement {
	return InventoryMovement{
		LineID:          id.New(),
		RecorderID:      recorderID,
		RecorderType:    recorderType,
		RecorderVersion: recorderVersion,
		Period:          period,
		MovementType:    movementType,
		ProductID:       productID,
		Quantity:        quantity,
		UnitCost:        unitCost,
		TotalCost:       types.RoundMoney(unitCost.Mul(quantity.Abs().Decimal())),
		CreatedAt:       time.Now().UTC(),
	}
}
