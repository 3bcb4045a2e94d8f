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

// buildSalesReturnPlan builds the posting plan for a sales return.
//
// Returned goods come back at the current moving average, reversing the COGS
// the sale recognized. Journal: debit revenue / credit customers for the
// return value, debit inventory / credit COGS for the cost (omitted at zero
// cost). Stock increases, customer balance decreases by the return value.
func (e *Engine) buildSalesReturnPlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	plan := newPlan(fmt.Sprintf("Sales return %s", doc.Number))
	recorderVersion := doc.PostedVersion + 1

	totalCost := types.Zero()

	for _, item := range doc.Items {
		avgCost, err := e.register.AverageCost(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		movement := entity.NewInventoryMovement(
			doc.ID, string(doc.Kind), recorderVersion,
			doc.Date, entity.MovementSaleReturn,
			item.ProductID, item.Quantity, avgCost,
		)
		plan.Movements = append(plan.Movements, movement)
		plan.Stock = append(plan.Stock, StockEffect{ProductID: item.ProductID, Delta: item.Quantity})

		totalCost = totalCost.Add(movement.TotalCost)
	}

	plan.Lines = append(plan.Lines,
		journal.DebitLine(accts[accounts.CodeRevenue].ID, doc.Subtotal),
		journal.CreditLine(accts[accounts.CodeCustomers].ID, doc.Subtotal),
	)
	if totalCost.IsPositive() {
		plan.Lines = append(plan.Lines,
			journal.DebitLine(accts[accounts.CodeInventory].ID, totalCost),
			journal.CreditLine(accts[accounts.CodeCOGS].ID, totalCost),
		)
	}

	plan.BalanceDelta = doc.Subtotal.Neg()

	return plan, nil
}
