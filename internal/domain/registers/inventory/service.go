package inventory

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/pkg/logger"
)

// Service provides operations on the inventory movement register, including
// the moving weighted-average cost used by every outgoing movement.
type Service struct {
	repo Repository
}

// NewService creates a new inventory register service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// AverageCost computes the current moving weighted-average unit cost of a
// product: sum(total_cost) / sum(quantity) over purchase and opening-balance
// movements. Returns zero when no such movements exist.
//
// The average is recomputed from the full movement history on every call
// rather than cached incrementally, so it self-corrects if historical
// movements are deleted. The returned rate keeps full decimal precision;
// rounding to 2 decimal places happens only where a journal line or
// movement total is persisted.
func (s *Service) AverageCost(ctx context.Context, productID id.ID) (types.Money, error) {
	totalCost, totalQty, err := s.repo.SumIncoming(ctx, productID)
	if err != nil {
		return types.Zero(), fmt.Errorf("sum incoming movements: %w", err)
	}

	if totalQty.IsZero() || totalQty.IsNegative() {
		return types.Zero(), nil
	}

	return totalCost.Div(totalQty.Decimal()), nil
}

// RecordMovements appends movements to the register. Called during document
// posting within the posting transaction.
func (s *Service) RecordMovements(ctx context.Context, movements []entity.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}

	for i, m := range movements {
		if m.Quantity.IsZero() {
			return apperror.NewValidation(fmt.Sprintf("movement %d: quantity must not be zero", i))
		}
		if id.IsNil(m.RecorderID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: recorder_id is required", i))
		}
		if id.IsNil(m.ProductID) {
			return apperror.NewValidation(fmt.Sprintf("movement %d: product_id is required", i))
		}
	}

	if err := s.repo.CreateMovements(ctx, movements); err != nil {
		return fmt.Errorf("create movements: %w", err)
	}

	logger.Info(ctx, "recorded inventory movements",
		"count", len(movements),
		"recorder_id", movements[0].RecorderID,
	)

	return nil
}

// DeleteByRecorder removes the movements a document created. This is the
// cancellation reversal strategy: the stock ledger drops the cancelled
// document's rows while the journal keeps the full mirror-entry trail.
func (s *Service) DeleteByRecorder(ctx context.Context, recorderID id.ID) error {
	if err := s.repo.DeleteMovementsByRecorder(ctx, recorderID); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	logger.Info(ctx, "deleted inventory movements", "recorder_id", recorderID)
	return nil
}

// GetByRecorder retrieves the movements a document created.
func (s *Service) GetByRecorder(ctx context.Context, recorderID id.ID) ([]entity.InventoryMovement, error) {
	return s.repo.GetMovementsByRecorder(ctx, recorderID)
}

// QuantityFromMovements folds the signed quantities of every movement for a
// product. The running quantity_on_hand cache must always equal this fold;
// tests assert the equality after every posting sequence.
func (s *Service) QuantityFromMovements(ctx context.Context, productID id.ID) (types.Quantity, error) {
	return s.repo.SumQuantity(ctx, productID)
}

// GetMovementHistory returns movement history for a product.
func (s *Service) GetMovementHistory(ctx context.Context, productID id.ID, filter MovementFilter) ([]entity.InventoryMovement, error) {
	return s.repo.GetMovementHistory(ctx, productID, filter)
}
