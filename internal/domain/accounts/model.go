// Package accounts provides the chart of accounts catalog and the resolver
// used by document posting.
package accounts

import (
	"context"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
)

// AccountType classifies an account for reporting purposes.
type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

// Well-known account codes required by document posting. The engine resolves
// these by code at posting time; administrators may rename accounts but the
// codes are stable keys.
const (
	CodeCash          = "1000"
	CodeCustomers     = "1100" // accounts receivable
	CodeInventory     = "1200"
	CodeSuppliers     = "2100" // accounts payable
	CodeRevenue       = "4000"
	CodeInventoryGain = "4200"
	CodeCOGS          = "5000"
	CodeInventoryLoss = "5200"
)

// Account represents one row in the chart of accounts.
// Only active, postable accounts may be referenced by journal lines.
type Account struct {
	entity.Catalog

	// Type classifies the account
	Type AccountType `db:"type" json:"type"`

	// Active accounts accept postings
	Active bool `db:"active" json:"active"`

	// Postable is false for grouping (parent) accounts
	Postable bool `db:"postable" json:"postable"`
}

// NewAccount creates a new active, postable account.
func NewAccount(code, name string, accountType AccountType) *Account {
	return &Account{
		Catalog:  entity.NewCatalog(code, name),
		Type:     accountType,
		Active:   true,
		Postable: true,
	}
}

// Validate implements entity.Validatable.
func (a *Account) Validate(ctx context.Context) error {
	if err := a.Catalog.Validate(ctx); err != nil {
		return err
	}

	if a.Code == "" {
		return apperror.NewValidation("account code is required").
			WithDetail("field", "code")
	}

	switch a.Type {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
	default:
		return apperror.NewValidation("invalid account type").
			WithDetail("field", "type").
			WithDetail("value", string(a.Type))
	}

	return nil
}

// AcceptsPostings reports whether journal lines may reference this account.
func (a *Account) AcceptsPostings() bool {
	return a.Active && a.Postable && !a.DeletionMark
}
