// Package posting implements the document posting state machine and the
// cancellation engine. Posting turns a draft commercial document into a
// journal entry plus inventory and balance side effects, atomically.
package posting

import (
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/journal"
)

// StockEffect is one stock mutation a posting applies.
// When Absolute is nil the Delta is added to quantity_on_hand; otherwise
// quantity_on_hand is overwritten (inventory adjustments set the counted
// quantity directly instead of applying increments).
type StockEffect struct {
	ProductID id.ID
	Delta     types.Quantity
	Absolute  *types.Quantity
}

// Plan is the full set of side effects a posting will apply. It is built
// read-only per document kind, then applied in one transaction: a plan that
// cannot be built leaves nothing behind.
type Plan struct {
	Description string

	// Lines for the journal generator. May be empty for a zero-effect
	// adjustment, in which case no journal entry is created.
	Lines []journal.Line

	// Movements appended to the inventory register
	Movements []entity.InventoryMovement

	// Stock mutations, one per document item
	Stock []StockEffect

	// BalanceDelta applied to the document's counterparty (zero for
	// adjustments)
	BalanceDelta types.Money
}

func newPlan(description string) *Plan {
	return &Plan{
		Description:  description,
		Lines:        make([]journal.Line, 0, 4),
		Movements:    make([]entity.InventoryMovement, 0),
		Stock:        make([]StockEffect, 0),
		BalanceDelta: types.Zero(),
	}
}
