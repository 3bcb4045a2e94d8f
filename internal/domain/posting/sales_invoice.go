package posting

import (
	"context"
	"fmt"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
)

// buildSalesInvoicePlan builds the posting plan for a sales invoice.
//
// Every item is checked against quantity_on_hand (product rows locked), then
// costed at the current moving average. Journal: debit customers / credit
// revenue for the subtotal, debit COGS / credit inventory for the total cost
// (cost legs omitted when the cost is zero). Stock decreases, customer
// balance increases by the subtotal.
func (e *Engine) buildSalesInvoicePlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	plan := newPlan(fmt.Sprintf("Sales invoice %s", doc.Number))
	recorderVersion := doc.PostedVersion + 1

	totalCost := types.Zero()

	for _, item := range doc.Items {
		prod, err := e.products.GetForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", item.ProductID, err)
		}

		if prod.QuantityOnHand < item.Quantity {
			return nil, apperror.NewInsufficientStock(
				prod.ID.String(),
				item.Quantity.Float64(),
				prod.QuantityOnHand.Float64(),
			)
		}

		// Average captured per item before any mutation, so a later line
		// cannot see a cost shifted by an earlier one.
		avgCost, err := e.register.AverageCost(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		movement := entity.NewInventoryMovement(
			doc.ID, string(doc.Kind), recorderVersion,
			doc.Date, entity.MovementSale,
			item.ProductID, item.Quantity.Neg(), avgCost,
		)
		plan.Movements = append(plan.Movements, movement)
		plan.Stock = append(plan.Stock, StockEffect{ProductID: item.ProductID, Delta: item.Quantity.Neg()})

		totalCost = totalCost.Add(movement.TotalCost)
	}

	plan.Lines = append(plan.Lines,
		journal.DebitLine(accts[accounts.CodeCustomers].ID, doc.Subtotal),
		journal.CreditLine(accts[accounts.CodeRevenue].ID, doc.Subtotal),
	)
	if totalCost.IsPositive() {
		plan.Lines = append(plan.Lines,
			journal.DebitLine(accts[accounts.CodeCOGS].ID, totalCost),
			journal.CreditLine(accts[accounts.CodeInventory].ID, totalCost),
		)
	}

	plan.BalanceDelta = doc.Subtotal

	return plan, nil
}
