package accounts

import (
	"context"

	"minibooks/internal/domain"
)

// Repository defines operations for the chart of accounts.
type Repository interface {
	domain.CatalogRepository[*Account]

	// GetByCodes retrieves accounts for a set of codes in one query.
	// Missing codes are simply absent from the result.
	GetByCodes(ctx context.Context, codes []string) (map[string]*Account, error)
}
