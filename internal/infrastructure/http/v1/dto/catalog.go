package dto

import (
	"minibooks/internal/core/types"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
)

// --- Accounts ---

// CreateAccountRequest for adding a chart-of-accounts row.
type CreateAccountRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type" binding:"required"`
	Postable *bool  `json:"postable"`
}

// ToEntity maps the request to a domain account.
func (r CreateAccountRequest) ToEntity() *accounts.Account {
	acc := accounts.NewAccount(r.Code, r.Name, accounts.AccountType(r.Type))
	if r.Postable != nil {
		acc.Postable = *r.Postable
	}
	return acc
}

// UpdateAccountRequest for renaming or toggling an account.
type UpdateAccountRequest struct {
	Name     *string `json:"name"`
	Active   *bool   `json:"active"`
	Postable *bool   `json:"postable"`
	Version  int     `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the request onto an existing account. Code and type are
// stable keys and stay untouched.
func (r UpdateAccountRequest) ApplyTo(acc *accounts.Account) {
	if r.Name != nil {
		acc.Name = *r.Name
	}
	if r.Active != nil {
		acc.Active = *r.Active
	}
	if r.Postable != nil {
		acc.Postable = *r.Postable
	}
	acc.Version = r.Version
}

// --- Products ---

// CreateProductRequest for adding a product.
type CreateProductRequest struct {
	Code          string         `json:"code" binding:"required"`
	Name          string         `json:"name" binding:"required"`
	PurchasePrice types.Money    `json:"purchasePrice"`
	SellingPrice  types.Money    `json:"sellingPrice"`
	MinStockLevel types.Quantity `json:"minStockLevel"`
}

// ToEntity maps the request to a domain product.
func (r CreateProductRequest) ToEntity() *product.Product {
	p := product.NewProduct(r.Code, r.Name)
	p.PurchasePrice = r.PurchasePrice
	p.SellingPrice = r.SellingPrice
	p.MinStockLevel = r.MinStockLevel
	return p
}

// UpdateProductRequest for editing a product. QuantityOnHand is owned by
// posting and is not accepted here.
type UpdateProductRequest struct {
	Name          *string         `json:"name"`
	PurchasePrice *types.Money    `json:"purchasePrice"`
	SellingPrice  *types.Money    `json:"sellingPrice"`
	MinStockLevel *types.Quantity `json:"minStockLevel"`
	Version       int             `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the request onto an existing product.
func (r UpdateProductRequest) ApplyTo(p *product.Product) {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.PurchasePrice != nil {
		p.PurchasePrice = *r.PurchasePrice
	}
	if r.SellingPrice != nil {
		p.SellingPrice = *r.SellingPrice
	}
	if r.MinStockLevel != nil {
		p.MinStockLevel = *r.MinStockLevel
	}
	p.Version = r.Version
}

// --- Counterparties ---

// CreateCounterpartyRequest for adding a customer or supplier.
type CreateCounterpartyRequest struct {
	Code  string  `json:"code" binding:"required"`
	Name  string  `json:"name" binding:"required"`
	Type  string  `json:"type" binding:"required"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// ToEntity maps the request to a domain counterparty.
func (r CreateCounterpartyRequest) ToEntity() *counterparty.Counterparty {
	c := counterparty.NewCounterparty(r.Code, r.Name, counterparty.Type(r.Type))
	c.Phone = r.Phone
	c.Email = r.Email
	return c
}

// UpdateCounterpartyRequest for editing a counterparty. Balance is owned by
// posting and settlement and is not accepted here.
type UpdateCounterpartyRequest struct {
	Name    *string `json:"name"`
	Type    *string `json:"type"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Version int     `json:"version" binding:"required,min=1"`
}

// ApplyTo maps the request onto an existing counterparty.
func (r UpdateCounterpartyRequest) ApplyTo(c *counterparty.Counterparty) {
	if r.Name != nil {
		c.Name = *r.Name
	}
	if r.Type != nil {
		c.Type = counterparty.Type(*r.Type)
	}
	if r.Phone != nil {
		c.Phone = r.Phone
	}
	if r.Email != nil {
		c.Email = r.Email
	}
	c.Version = r.Version
}
