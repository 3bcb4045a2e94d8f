package counterparty

import (
	"context"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain"
)

// Repository defines operations for counterparties.
type Repository interface {
	domain.CatalogRepository[*Counterparty]

	// AdjustBalance applies a signed delta to the running balance with
	// arithmetic done in the store (single UPDATE, no read-then-write race).
	AdjustBalance(ctx context.Context, counterpartyID id.ID, delta types.Money) error
}
