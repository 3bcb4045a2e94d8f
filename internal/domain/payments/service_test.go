package payments_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/domaintest"
	"minibooks/internal/domain/payments"
)

// postedInvoice seeds stock and posts a sales invoice of the given amount so
// allocation tests start from a realistic ledger state.
func postedInvoice(t *testing.T, f *domaintest.Fixture, customer *counterparty.Counterparty, units int64, price string) *documents.Document {
	t.Helper()
	ctx := context.Background()

	prod := product.NewProduct("PRD-"+id.New().String()[:8], "Widget")
	require.NoError(t, f.Products.Create(ctx, prod))

	supplier := counterparty.NewCounterparty("SUP-"+id.New().String()[:8], "Supplier", counterparty.TypeSupplier)
	require.NoError(t, f.Counterparties.Create(ctx, supplier))

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(units), types.MustMoney("10"), types.Zero())
	require.NoError(t, f.DocSvc.Create(ctx, pi))
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	si := documents.New(documents.KindSalesInvoice, &customer.ID)
	si.AddItem(prod.ID, types.NewQuantityFromInt(units), types.MustMoney(price), types.Zero())
	require.NoError(t, f.DocSvc.Create(ctx, si))
	_, err = f.Engine.Post(ctx, si.ID)
	require.NoError(t, err)

	return si
}

func paymentSetup(t *testing.T) (*domaintest.Fixture, context.Context, *counterparty.Counterparty) {
	t.Helper()
	f := domaintest.NewFixture()
	ctx := context.Background()
	require.NoError(t, f.SeedChartOfAccounts(ctx))

	customer := counterparty.NewCounterparty("CUS-1", "Customer", counterparty.TypeCustomer)
	require.NoError(t, f.Counterparties.Create(ctx, customer))
	return f, ctx, customer
}

func TestCreateAndAllocate_FullFlow(t *testing.T) {
	f, ctx, customer := paymentSetup(t)
	invoice := postedInvoice(t, f, customer, 10, "100") // total 1000

	balanceBefore, _ := f.Counterparties.GetByID(ctx, customer.ID)

	p, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("400"), invoice.ID)
	require.NoError(t, err)
	require.Equal(t, payments.DirectionIncoming, p.Direction)
	require.NotEqual(t, id.Nil(), p.JournalEntryID)

	// Settlement entry: debit cash, credit customers.
	lines, err := f.JournalSvc.GetLines(ctx, p.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.True(t, types.MustMoney("400").Equal(lines[0].Debit))
	require.True(t, types.MustMoney("400").Equal(lines[1].Credit))

	inv, _ := f.Documents.GetByID(ctx, invoice.ID)
	require.True(t, types.MustMoney("400").Equal(inv.PaidAmount))

	balanceAfter, _ := f.Counterparties.GetByID(ctx, customer.ID)
	require.True(t, balanceBefore.Balance.Sub(types.MustMoney("400")).Equal(balanceAfter.Balance))
}

func TestCreateAndAllocate_RejectsOverpayment(t *testing.T) {
	f, ctx, customer := paymentSetup(t)
	invoice := postedInvoice(t, f, customer, 10, "100") // total 1000

	entriesBefore := len(f.Journal.AllEntries())

	_, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("1000.01"), invoice.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeAllocationLimit))

	// Nothing persisted on rejection.
	require.Len(t, f.Journal.AllEntries(), entriesBefore, "ledger state mutated")
	inv, _ := f.Documents.GetByID(ctx, invoice.ID)
	require.True(t, inv.PaidAmount.IsZero())
}

func TestCreateAndAllocate_RejectsDraftInvoice(t *testing.T) {
	f, ctx, customer := paymentSetup(t)

	prod := product.NewProduct("PRD-D", "Widget")
	require.NoError(t, f.Products.Create(ctx, prod))
	draft := documents.New(documents.KindSalesInvoice, &customer.ID)
	draft.AddItem(prod.ID, types.NewQuantityFromInt(1), types.MustMoney("100"), types.Zero())
	require.NoError(t, f.DocSvc.Create(ctx, draft))

	_, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("50"), draft.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
}

func TestLinkExisting_BoundaryIsExact(t *testing.T) {
	f, ctx, customer := paymentSetup(t)

	// Two invoices; the payment covers the first and leaves 200 free.
	inv1 := postedInvoice(t, f, customer, 10, "30") // total 300
	inv2 := postedInvoice(t, f, customer, 10, "25") // total 250

	p, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("300"), inv1.ID)
	require.NoError(t, err)

	// Nothing remains on the payment: linking any amount must fail.
	_, err = f.PaymentSvc.LinkExisting(ctx, p.ID, inv2.ID, types.MustMoney("0.01"))
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeAllocationLimit))

	// Free part of it and link exactly the freed amount.
	allocations, err := f.PaymentSvc.GetAllocationsByPayment(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.NoError(t, f.PaymentSvc.Unlink(ctx, allocations[0].ID))

	inv1Row, _ := f.Documents.GetByID(ctx, inv1.ID)
	require.True(t, inv1Row.PaidAmount.IsZero(), "paid amount not recomputed after unlink")

	// min(payment remaining 300, invoice2 remaining 250) = 250.
	_, err = f.PaymentSvc.LinkExisting(ctx, p.ID, inv2.ID, types.MustMoney("250"))
	require.NoError(t, err)

	inv2Row, _ := f.Documents.GetByID(ctx, inv2.ID)
	require.True(t, types.MustMoney("250").Equal(inv2Row.PaidAmount))

	// One cent above the remaining 50 fails.
	_, err = f.PaymentSvc.LinkExisting(ctx, p.ID, inv1.ID, types.MustMoney("50.01"))
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeAllocationLimit))

	// The exact remainder succeeds.
	_, err = f.PaymentSvc.LinkExisting(ctx, p.ID, inv1.ID, types.MustMoney("50"))
	require.NoError(t, err)

	sum, err := f.Payments.SumAllocationsByPayment(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, p.Amount.Equal(sum), "allocations exceed payment amount")
}

func TestLinkExisting_RejectsForeignInvoice(t *testing.T) {
	f, ctx, customer := paymentSetup(t)
	invoice := postedInvoice(t, f, customer, 10, "30") // total 300

	other := counterparty.NewCounterparty("CUS-2", "Other customer", counterparty.TypeCustomer)
	require.NoError(t, f.Counterparties.Create(ctx, other))
	otherInvoice := postedInvoice(t, f, other, 10, "25") // total 250

	// Pay 100 of the first customer's invoice, leaving 200 on the payment.
	p, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("300"), invoice.ID)
	require.NoError(t, err)
	allocations, _ := f.PaymentSvc.GetAllocationsByPayment(ctx, p.ID)
	require.Len(t, allocations, 1)
	require.NoError(t, f.PaymentSvc.Unlink(ctx, allocations[0].ID))

	// The freed amount cannot settle another customer's invoice.
	_, err = f.PaymentSvc.LinkExisting(ctx, p.ID, otherInvoice.ID, types.MustMoney("100"))
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeValidation))

	otherRow, _ := f.Documents.GetByID(ctx, otherInvoice.ID)
	require.True(t, otherRow.PaidAmount.IsZero())
}

func TestUnlink_LeavesPaymentAndBalanceAlone(t *testing.T) {
	f, ctx, customer := paymentSetup(t)
	invoice := postedInvoice(t, f, customer, 10, "100")

	p, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("500"), invoice.ID)
	require.NoError(t, err)

	balanceBefore, _ := f.Counterparties.GetByID(ctx, customer.ID)
	entriesBefore := len(f.Journal.AllEntries())

	allocations, _ := f.PaymentSvc.GetAllocationsByInvoice(ctx, invoice.ID)
	require.Len(t, allocations, 1)
	require.NoError(t, f.PaymentSvc.Unlink(ctx, allocations[0].ID))

	inv, _ := f.Documents.GetByID(ctx, invoice.ID)
	require.True(t, inv.PaidAmount.IsZero())

	// Payment row, journal, and balance untouched.
	kept, err := f.PaymentSvc.GetPayment(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, kept.Amount.Equal(types.MustMoney("500")))
	require.Len(t, f.Journal.AllEntries(), entriesBefore)
	balanceAfter, _ := f.Counterparties.GetByID(ctx, customer.ID)
	require.True(t, balanceBefore.Balance.Equal(balanceAfter.Balance))
}

func TestCreateAndAllocate_SupplierDirection(t *testing.T) {
	f, ctx, _ := paymentSetup(t)

	supplier := counterparty.NewCounterparty("SUP-PAY", "Supplier", counterparty.TypeSupplier)
	require.NoError(t, f.Counterparties.Create(ctx, supplier))

	prod := product.NewProduct("PRD-S", "Widget")
	require.NoError(t, f.Products.Create(ctx, prod))

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(5), types.MustMoney("100"), types.Zero())
	require.NoError(t, f.DocSvc.Create(ctx, pi))
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	p, err := f.PaymentSvc.CreateAndAllocate(ctx, supplier.ID, types.MustMoney("500"), pi.ID)
	require.NoError(t, err)
	require.Equal(t, payments.DirectionOutgoing, p.Direction)

	// Mirror settlement: debit suppliers, credit cash.
	lines, err := f.JournalSvc.GetLines(ctx, p.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	require.True(t, lines[0].Debit.Equal(types.MustMoney("500")))
	require.True(t, lines[1].Credit.Equal(types.MustMoney("500")))

	supplierRow, _ := f.Counterparties.GetByID(ctx, supplier.ID)
	require.True(t, supplierRow.Balance.IsZero(), "payable not settled")
}
