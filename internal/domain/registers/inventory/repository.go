// Package inventory provides the inventory movement register and the moving
// weighted-average valuation engine.
package inventory

import (
	"context"
	"time"

	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

// Repository defines operations for the inventory movement register.
type Repository interface {
	// CreateMovements batch inserts movements (used during posting).
	CreateMovements(ctx context.Context, movements []entity.InventoryMovement) error

	// DeleteMovementsByRecorder removes all movements created by a document.
	// Used during cancellation.
	DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error

	// GetMovementsByRecorder retrieves all movements for a document.
	GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.InventoryMovement, error)

	// SumIncoming returns the total cost and total quantity over all
	// movements that contribute to the average cost base
	// (purchase and opening_balance).
	SumIncoming(ctx context.Context, productID id.ID) (totalCost types.Money, totalQty types.Quantity, err error)

	// SumQuantity folds the signed quantities of all movements for a
	// product. Used to verify the running stock cache has not drifted.
	SumQuantity(ctx context.Context, productID id.ID) (types.Quantity, error)

	// GetMovementHistory returns movement history for a product.
	GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.InventoryMovement, error)
}

// MovementFilter for filtering movement history.
type MovementFilter struct {
	MovementType *entity.MovementType
	FromDate     *time.Time
	ToDate       *time.Time
	Limit        int
	Offset       int
}
