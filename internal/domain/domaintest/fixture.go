package domaintest

import (
	"context"

	"minibooks/internal/core/numerator"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/journal"
	"minibooks/internal/domain/payments"
	"minibooks/internal/domain/posting"
	"minibooks/internal/domain/registers/inventory"
)

// Fixture wires the full domain stack over in-memory fakes. It gives tests
// the same object graph the server assembles, minus the database.
type Fixture struct {
	Accounts       *AccountRepo
	Products       *ProductRepo
	Counterparties *CounterpartyRepo
	Documents      *DocumentRepo
	Journal        *JournalRepo
	Inventory      *InventoryRepo
	Payments       *PaymentRepo

	Resolver   *accounts.Resolver
	JournalSvc *journal.Service
	Register   *inventory.Service
	DocSvc     *documents.Service
	Engine     *posting.Engine
	PaymentSvc *payments.Service

	TxManager TxManager
	Numerator *numerator.MockGenerator
}

// NewFixture builds the wired fixture.
func NewFixture() *Fixture {
	f := &Fixture{
		Accounts:       NewAccountRepo(),
		Products:       NewProductRepo(),
		Counterparties: NewCounterpartyRepo(),
		Documents:      NewDocumentRepo(),
		Journal:        NewJournalRepo(),
		Inventory:      NewInventoryRepo(),
		Payments:       NewPaymentRepo(),
		Numerator:      &numerator.MockGenerator{},
	}

	f.Resolver = accounts.NewResolver(f.Accounts)
	f.JournalSvc = journal.NewService(f.Journal, f.Numerator, f.TxManager)
	f.Register = inventory.NewService(f.Inventory)
	f.DocSvc = documents.NewService(f.Documents, f.Numerator, f.TxManager)
	f.Engine = posting.NewEngine(
		f.Documents, f.Products, f.Counterparties,
		f.Resolver, f.JournalSvc, f.Register,
		f.TxManager, nil,
	)
	f.PaymentSvc = payments.NewService(
		f.Payments, f.Documents, f.Counterparties,
		f.Resolver, f.JournalSvc, f.Numerator, f.TxManager,
	)

	return f
}

// SeedChartOfAccounts creates the well-known accounts posting requires.
// Gain/loss accounts are left out so resolver on-demand creation stays
// observable in tests.
func (f *Fixture) SeedChartOfAccounts(ctx context.Context) error {
	seed := []*accounts.Account{
		accounts.NewAccount(accounts.CodeCash, "Cash", accounts.TypeAsset),
		accounts.NewAccount(accounts.CodeCustomers, "Accounts Receivable", accounts.TypeAsset),
		accounts.NewAccount(accounts.CodeInventory, "Inventory", accounts.TypeAsset),
		accounts.NewAccount(accounts.CodeSuppliers, "Accounts Payable", accounts.TypeLiability),
		accounts.NewAccount(accounts.CodeRevenue, "Sales Revenue", accounts.TypeRevenue),
		accounts.NewAccount(accounts.CodeCOGS, "Cost of Goods Sold", accounts.TypeExpense),
	}

	for _, acc := range seed {
		if err := f.Accounts.Create(ctx, acc); err != nil {
			return err
		}
	}
	return nil
}
