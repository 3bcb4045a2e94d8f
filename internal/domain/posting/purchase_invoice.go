package posting

import (
	"context"
	"fmt"

	"minibooks/internal/core/entity"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
)

// buildPurchaseInvoicePlan builds the posting plan for a purchase invoice.
//
// No stock check. Each item enters the register at its actual line cost,
// which is what feeds the moving-average base. Journal: debit inventory /
// credit suppliers for the document total. Stock increases, supplier balance
// increases by the total.
func (e *Engine) buildPurchaseInvoicePlan(ctx context.Context, doc *documents.Document, accts map[string]*accounts.Account) (*Plan, error) {
	plan := newPlan(fmt.Sprintf("Purchase invoice %s", doc.Number))
	recorderVersion := doc.PostedVersion + 1

	for _, item := range doc.Items {
		// Unit cost keeps full precision; the movement rounds its total.
		unitCost := item.LineTotal.Div(item.Quantity.Decimal())

		movement := entity.NewInventoryMovement(
			doc.ID, string(doc.Kind), recorderVersion,
			doc.Date, entity.MovementPurchase,
			item.ProductID, item.Quantity, unitCost,
		)
		plan.Movements = append(plan.Movements, movement)
		plan.Stock = append(plan.Stock, StockEffect{ProductID: item.ProductID, Delta: item.Quantity})
	}

	plan.Lines = append(plan.Lines,
		journal.DebitLine(accts[accounts.CodeInventory].ID, doc.Total),
		journal.CreditLine(accts[accounts.CodeSuppliers].ID, doc.Total),
	)

	plan.BalanceDelta = doc.Total

	return plan, nil
}
