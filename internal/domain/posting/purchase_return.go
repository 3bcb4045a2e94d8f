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

// buildPurchaseReturnPlan builds the posting plan for a purchase return.
//
// Goods leave at the current moving average regardless of the original
// purchase price. Journal: debit suppliers / credit inventory for the cost.
// Stock decreases, supplier balance decreases by the same cost so payables
// stay aligned with the ledger.
func (e *Engine) buildPurchaseReturnPlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	plan := newPlan(fmt.Sprintf("Purchase return %s", doc.Number))
	recorderVersion := doc.PostedVersion + 1

	totalCost := types.Zero()

	for _, item := range doc.Items {
		avgCost, err := e.register.AverageCost(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		movement := entity.NewInventoryMovement(
			doc.ID, string(doc.Kind), recorderVersion,
			doc.Date, entity.MovementPurchaseReturn,
			item.ProductID, item.Quantity.Neg(), avgCost,
		)
		plan.Movements = append(plan.Movements, movement)
		plan.Stock = append(plan.Stock, StockEffect{ProductID: item.ProductID, Delta: item.Quantity.Neg()})

		totalCost = totalCost.Add(movement.TotalCost)
	}

	if totalCost.IsPositive() {
		plan.Lines = append(plan.Lines,
			journal.DebitLine(accts[accounts.CodeSuppliers].ID, totalCost),
			journal.CreditLine(accts[accounts.CodeInventory].ID, totalCost),
		)
	}

	plan.BalanceDelta = totalCost.Neg()

	return plan, nil
}
