package posting

import (
	"context"
	"fmt"

	"minibooks/internal/core/entity"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
)

// buildAdjustmentPlan builds the posting plan for an inventory adjustment.
//
// The book quantity is the product row's quantity_on_hand read under lock at
// posting time, not the system quantity captured on the draft; stock may have
// moved since the count sheet was created, and the recorded movement delta
// must agree with the SetQuantity override or the stock cache drifts from the
// movement fold. Each line with a non-zero delta (counted minus book) is
// valued at the moving average and classified as gain or loss. Losses
// aggregate into one debit inventory-loss / credit inventory pair, gains into
// one debit inventory / credit inventory-gain pair; a pair is omitted when
// its aggregate is zero. Stock is set to the counted quantity directly, and
// one adjustment movement per line records the signed delta.
func (e *Engine) buildAdjustmentPlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	plan := newPlan(fmt.Sprintf("Inventory adjustment %s", doc.Number))
	recorderVersion := doc.PostedVersion + 1

	totalLoss := types.Zero()
	totalGain := types.Zero()

	for _, item := range doc.Items {
		prod, err := e.products.GetForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", item.ProductID, err)
		}

		actual := *item.ActualQuantity
		delta := actual - prod.QuantityOnHand

		// Counted quantity overwrites the book quantity even at zero delta,
		// so a confirmed count still realigns a drifted cache.
		plan.Stock = append(plan.Stock, StockEffect{ProductID: item.ProductID, Absolute: &actual})

		if delta.IsZero() {
			continue
		}

		avgCost, err := e.register.AverageCost(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		movement := entity.NewInventoryMovement(
			doc.ID, string(doc.Kind), recorderVersion,
			doc.Date, entity.MovementAdjustment,
			item.ProductID, delta, avgCost,
		)
		plan.Movements = append(plan.Movements, movement)

		if delta.IsNegative() {
			totalLoss = totalLoss.Add(movement.TotalCost)
		} else {
			totalGain = totalGain.Add(movement.TotalCost)
		}
	}

	if totalLoss.IsPositive() {
		plan.Lines = append(plan.Lines,
			journal.DebitLine(accts[accounts.CodeInventoryLoss].ID, totalLoss),
			journal.CreditLine(accts[accounts.CodeInventory].ID, totalLoss),
		)
	}
	if totalGain.IsPositive() {
		plan.Lines = append(plan.Lines,
			journal.DebitLine(accts[accounts.CodeInventory].ID, totalGain),
			journal.CreditLine(accts[accounts.CodeInventoryGain].ID, totalGain),
		)
	}

	return plan, nil
}
