package accounts

import (
	"context"
	"fmt"
	"sort"

	"minibooks/internal/core/apperror"
	"minibooks/pkg/logger"
)

// onDemandDefaults lists accounts the resolver may create when a posting
// needs them and the chart of accounts does not have them yet. Adjustment
// gain/loss accounts are the only ones created this way; everything else
// must be set up by administration before posting.
var onDemandDefaults = map[string]struct {
	Name string
	Type AccountType
}{
	CodeInventoryGain: {Name: "Inventory Gain", Type: TypeRevenue},
	CodeInventoryLoss: {Name: "Inventory Loss", Type: TypeExpense},
}

// Resolver looks up the well-known accounts required to post a document type.
// A missing required account is fatal to the posting attempt: the resolver
// fails loudly and nothing is persisted.
type Resolver struct {
	repo Repository
}

// NewResolver creates a new chart of accounts resolver.
func NewResolver(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the accounts for the given codes, keyed by code.
// Accounts with on-demand defaults are created if absent; any other missing
// code results in a CONFIGURATION_ERROR naming all missing codes at once.
func (r *Resolver) Resolve(ctx context.Context, codes ...string) (map[string]*Account, error) {
	found, err := r.repo.GetByCodes(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("get accounts by codes: %w", err)
	}

	var missing []string
	for _, code := range codes {
		acc, ok := found[code]
		if ok {
			if !acc.AcceptsPostings() {
				missing = append(missing, code)
			}
			continue
		}

		def, creatable := onDemandDefaults[code]
		if !creatable {
			missing = append(missing, code)
			continue
		}

		created := NewAccount(code, def.Name, def.Type)
		if err := r.repo.Create(ctx, created); err != nil {
			return nil, fmt.Errorf("create on-demand account %s: %w", code, err)
		}
		logger.Info(ctx, "created on-demand account", "code", code, "type", def.Type)
		found[code] = created
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, apperror.NewConfiguration(missing)
	}

	return found, nil
}
