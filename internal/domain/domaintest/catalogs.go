package domaintest

import (
	"context"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
)

// AccountRepo is an in-memory accounts.Repository.
type AccountRepo struct {
	CatalogStore[*accounts.Account]
}

// NewAccountRepo creates an empty account fake.
func NewAccountRepo() *AccountRepo {
	return &AccountRepo{
		CatalogStore: newCatalogStore(
			"account",
			func(a *accounts.Account) id.ID { return a.ID },
			func(a *accounts.Account) string { return a.Code },
			func(a *accounts.Account) string { return a.Name },
			func(a *accounts.Account) bool { return a.DeletionMark },
			func(a *accounts.Account, m bool) { a.DeletionMark = m },
		),
	}
}

func (r *AccountRepo) GetByCodes(_ context.Context, codes []string) (map[string]*accounts.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(codes))
	for _, code := range codes {
		wanted[code] = true
	}

	found := make(map[string]*accounts.Account)
	for _, acc := range r.items {
		if wanted[acc.Code] && !acc.DeletionMark {
			found[acc.Code] = acc
		}
	}
	return found, nil
}

// ProductRepo is an in-memory product.Repository.
type ProductRepo struct {
	CatalogStore[*product.Product]
}

// NewProductRepo creates an empty product fake.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		CatalogStore: newCatalogStore(
			"product",
			func(p *product.Product) id.ID { return p.ID },
			func(p *product.Product) string { return p.Code },
			func(p *product.Product) string { return p.Name },
			func(p *product.Product) bool { return p.DeletionMark },
			func(p *product.Product, m bool) { p.DeletionMark = m },
		),
	}
}

func (r *ProductRepo) GetForUpdate(ctx context.Context, productID id.ID) (*product.Product, error) {
	return r.GetByID(ctx, productID)
}

func (r *ProductRepo) AdjustQuantity(_ context.Context, productID id.ID, delta types.Quantity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.QuantityOnHand += delta
	return nil
}

func (r *ProductRepo) SetQuantity(_ context.Context, productID id.ID, quantity types.Quantity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[productID]
	if !ok {
		return apperror.NewNotFound("product", productID.String())
	}
	p.QuantityOnHand = quantity
	return nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	low := make([]*product.Product, 0)
	for _, p := range r.items {
		if !p.DeletionMark && p.IsLowOnStock() {
			low = append(low, p)
		}
	}
	return low, nil
}

// CounterpartyRepo is an in-memory counterparty.Repository.
type CounterpartyRepo struct {
	CatalogStore[*counterparty.Counterparty]
}

// NewCounterpartyRepo creates an empty counterparty fake.
func NewCounterpartyRepo() *CounterpartyRepo {
	return &CounterpartyRepo{
		CatalogStore: newCatalogStore(
			"counterparty",
			func(c *counterparty.Counterparty) id.ID { return c.ID },
			func(c *counterparty.Counterparty) string { return c.Code },
			func(c *counterparty.Counterparty) string { return c.Name },
			func(c *counterparty.Counterparty) bool { return c.DeletionMark },
			func(c *counterparty.Counterparty, m bool) { c.DeletionMark = m },
		),
	}
}

func (r *CounterpartyRepo) AdjustBalance(_ context.Context, counterpartyID id.ID, delta types.Money) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[counterpartyID]
	if !ok {
		return apperror.NewNotFound("counterparty", counterpartyID.String())
	}
	c.Balance = c.Balance.Add(delta)
	return nil
}
