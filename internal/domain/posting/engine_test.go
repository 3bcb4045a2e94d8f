package posting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"minibooks/internal/core/apperror"
	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/accounts"
	"minibooks/internal/domain/catalogs/counterparty"
	"minibooks/internal/domain/catalogs/product"
	"minibooks/internal/domain/documents"
	"minibooks/internal/domain/domaintest"
)

func setup(t *testing.T) (*domaintest.Fixture, context.Context) {
	t.Helper()
	f := domaintest.NewFixture()
	ctx := context.Background()
	require.NoError(t, f.SeedChartOfAccounts(ctx))
	return f, ctx
}

func seedProduct(t *testing.T, f *domaintest.Fixture, code string) *product.Product {
	t.Helper()
	p := product.NewProduct(code, "Widget "+code)
	require.NoError(t, f.Products.Create(context.Background(), p))
	return p
}

func seedCounterparty(t *testing.T, f *domaintest.Fixture, code string, cpType counterparty.Type) *counterparty.Counterparty {
	t.Helper()
	c := counterparty.NewCounterparty(code, "Partner "+code, cpType)
	require.NoError(t, f.Counterparties.Create(context.Background(), c))
	return c
}

func createDoc(t *testing.T, f *domaintest.Fixture, doc *documents.Document) *documents.Document {
	t.Helper()
	require.NoError(t, f.DocSvc.Create(context.Background(), doc))
	return doc
}

func requireMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	require.True(t, types.MustMoney(want).Equal(got), "want %s, got %s", want, got.String())
}

// requireBalancedBooks sweeps every journal entry ever created and checks
// the double-entry invariant.
func requireBalancedBooks(t *testing.T, f *domaintest.Fixture) {
	t.Helper()
	for _, entry := range f.Journal.AllEntries() {
		debit := types.Zero()
		credit := types.Zero()
		for _, l := range entry.Lines {
			debit = debit.Add(l.Debit)
			credit = credit.Add(l.Credit)
		}
		require.False(t, debit.Sub(credit).Abs().GreaterThan(types.BalanceTolerance),
			"entry %s imbalanced: debit %s credit %s", entry.Number, debit, credit)
		require.True(t, entry.TotalDebit.Equal(debit), "entry %s header debit drifted", entry.Number)
		require.True(t, entry.TotalCredit.Equal(credit), "entry %s header credit drifted", entry.Number)
	}
}

// requireNoStockDrift checks quantity_on_hand against the movement fold.
func requireNoStockDrift(t *testing.T, f *domaintest.Fixture, productID id.ID) {
	t.Helper()
	ctx := context.Background()
	p, err := f.Products.GetByID(ctx, productID)
	require.NoError(t, err)
	fold, err := f.Register.QuantityFromMovements(ctx, productID)
	require.NoError(t, err)
	require.Equal(t, p.QuantityOnHand, fold, "stock cache drifted from movement fold")
}

func TestPost_EndToEndTradingCycle(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-1")
	supplier := seedCounterparty(t, f, "SUP-1", counterparty.TypeSupplier)
	customer := seedCounterparty(t, f, "CUS-1", counterparty.TypeCustomer)

	// Purchase 20 @ 100.
	pi1 := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi1.AddItem(prod.ID, types.NewQuantityFromInt(20), types.MustMoney("100"), types.Zero())
	createDoc(t, f, pi1)
	_, err := f.Engine.Post(ctx, pi1.ID)
	require.NoError(t, err)

	avg, err := f.Register.AverageCost(ctx, prod.ID)
	require.NoError(t, err)
	requireMoney(t, "100", types.RoundMoney(avg))

	supplierRow, _ := f.Counterparties.GetByID(ctx, supplier.ID)
	requireMoney(t, "2000", supplierRow.Balance)

	// Purchase 10 @ 120 moves the average to 106.67.
	pi2 := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi2.AddItem(prod.ID, types.NewQuantityFromInt(10), types.MustMoney("120"), types.Zero())
	createDoc(t, f, pi2)
	_, err = f.Engine.Post(ctx, pi2.ID)
	require.NoError(t, err)

	avg, err = f.Register.AverageCost(ctx, prod.ID)
	require.NoError(t, err)
	requireMoney(t, "106.67", types.RoundMoney(avg))
	requireNoStockDrift(t, f, prod.ID)

	// Sell 8 @ 200: COGS 853.33, receivable 1600.
	si := documents.New(documents.KindSalesInvoice, &customer.ID)
	si.AddItem(prod.ID, types.NewQuantityFromInt(8), types.MustMoney("200"), types.Zero())
	createDoc(t, f, si)
	posted, err := f.Engine.Post(ctx, si.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPosted, posted.Status)
	require.NotNil(t, posted.JournalEntryID)

	lines, err := f.JournalSvc.GetLines(ctx, *posted.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	requireMoney(t, "1600", lines[0].Debit)  // customers
	requireMoney(t, "1600", lines[1].Credit) // revenue
	requireMoney(t, "853.33", lines[2].Debit)  // COGS
	requireMoney(t, "853.33", lines[3].Credit) // inventory

	customerRow, _ := f.Counterparties.GetByID(ctx, customer.ID)
	requireMoney(t, "1600", customerRow.Balance)

	// Return 2 units: COGS reversed at the same average.
	sr := documents.New(documents.KindSalesReturn, &customer.ID)
	sr.AddItem(prod.ID, types.NewQuantityFromInt(2), types.MustMoney("200"), types.Zero())
	createDoc(t, f, sr)
	returned, err := f.Engine.Post(ctx, sr.ID)
	require.NoError(t, err)

	lines, err = f.JournalSvc.GetLines(ctx, *returned.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 4)
	requireMoney(t, "400", lines[0].Debit)     // revenue
	requireMoney(t, "400", lines[1].Credit)    // customers
	requireMoney(t, "213.33", lines[2].Debit)  // inventory
	requireMoney(t, "213.33", lines[3].Credit) // COGS

	customerRow, _ = f.Counterparties.GetByID(ctx, customer.ID)
	requireMoney(t, "1200", customerRow.Balance)

	// Pay 500 against the invoice.
	_, err = f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("500"), si.ID)
	require.NoError(t, err)

	customerRow, _ = f.Counterparties.GetByID(ctx, customer.ID)
	requireMoney(t, "700", customerRow.Balance)

	invoice, _ := f.Documents.GetByID(ctx, si.ID)
	requireMoney(t, "500", invoice.PaidAmount)

	// Final stock: 20 + 10 - 8 + 2 = 24.
	prodRow, _ := f.Products.GetByID(ctx, prod.ID)
	require.Equal(t, types.NewQuantityFromInt(24), prodRow.QuantityOnHand)
	requireNoStockDrift(t, f, prod.ID)
	requireBalancedBooks(t, f)
}

func TestPost_InsufficientStockAbortsEverything(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-2")
	customer := seedCounterparty(t, f, "CUS-2", counterparty.TypeCustomer)

	si := documents.New(documents.KindSalesInvoice, &customer.ID)
	si.AddItem(prod.ID, types.NewQuantityFromInt(5), types.MustMoney("200"), types.Zero())
	createDoc(t, f, si)

	_, err := f.Engine.Post(ctx, si.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeInsufficientStock))

	// Nothing persisted: document still draft, no journal, no movements,
	// balance untouched.
	doc, _ := f.Documents.GetByID(ctx, si.ID)
	require.Equal(t, entity.StatusDraft, doc.Status)
	require.Nil(t, doc.JournalEntryID)
	require.Empty(t, f.Journal.AllEntries())
	movements, _ := f.Register.GetByRecorder(ctx, si.ID)
	require.Empty(t, movements)
	customerRow, _ := f.Counterparties.GetByID(ctx, customer.ID)
	require.True(t, customerRow.Balance.IsZero())
}

func TestPost_StatusIsMonotonic(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-3")
	supplier := seedCounterparty(t, f, "SUP-3", counterparty.TypeSupplier)

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(1), types.MustMoney("10"), types.Zero())
	createDoc(t, f, pi)

	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	// Re-posting a posted document fails.
	_, err = f.Engine.Post(ctx, pi.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeDocumentPosted))

	// Cancelled is terminal: no re-post, no re-cancel.
	_, err = f.Engine.Cancel(ctx, pi.ID)
	require.NoError(t, err)
	_, err = f.Engine.Post(ctx, pi.ID)
	require.Error(t, err)
	_, err = f.Engine.Cancel(ctx, pi.ID)
	require.Error(t, err)
}

func TestPost_MissingAccountsIsFatal(t *testing.T) {
	f := domaintest.NewFixture() // no chart of accounts
	ctx := context.Background()

	prod := seedProduct(t, f, "WID-4")
	supplier := seedCounterparty(t, f, "SUP-4", counterparty.TypeSupplier)

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(1), types.MustMoney("10"), types.Zero())
	createDoc(t, f, pi)

	_, err := f.Engine.Post(ctx, pi.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeConfiguration))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	require.ElementsMatch(t,
		[]string{accounts.CodeInventory, accounts.CodeSuppliers},
		appErr.Details["missing_codes"])

	doc, _ := f.Documents.GetByID(ctx, pi.ID)
	require.Equal(t, entity.StatusDraft, doc.Status)
}

func TestPost_AdjustmentLossAndGain(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-5")
	supplier := seedCounterparty(t, f, "SUP-5", counterparty.TypeSupplier)

	// Stock 80 @ 60.
	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(80), types.MustMoney("60"), types.Zero())
	createDoc(t, f, pi)
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	// Count finds 75: loss of 5 @ 60 = 300.
	adj1 := documents.New(documents.KindAdjustment, nil)
	adj1.AddAdjustmentItem(prod.ID, types.NewQuantityFromInt(80), types.NewQuantityFromInt(75))
	createDoc(t, f, adj1)
	posted, err := f.Engine.Post(ctx, adj1.ID)
	require.NoError(t, err)

	lines, err := f.JournalSvc.GetLines(ctx, *posted.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	requireMoney(t, "300", lines[0].Debit)  // inventory loss
	requireMoney(t, "300", lines[1].Credit) // inventory

	prodRow, _ := f.Products.GetByID(ctx, prod.ID)
	require.Equal(t, types.NewQuantityFromInt(75), prodRow.QuantityOnHand)

	// The loss account was created on demand.
	lossAcc, err := f.Accounts.GetByCode(ctx, accounts.CodeInventoryLoss)
	require.NoError(t, err)
	require.Equal(t, accounts.TypeExpense, lossAcc.Type)

	// Recount finds 83: gain of 8 @ 60 = 480.
	adj2 := documents.New(documents.KindAdjustment, nil)
	adj2.AddAdjustmentItem(prod.ID, types.NewQuantityFromInt(75), types.NewQuantityFromInt(83))
	createDoc(t, f, adj2)
	posted, err = f.Engine.Post(ctx, adj2.ID)
	require.NoError(t, err)

	lines, err = f.JournalSvc.GetLines(ctx, *posted.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	requireMoney(t, "480", lines[0].Debit)  // inventory
	requireMoney(t, "480", lines[1].Credit) // inventory gain

	gainAcc, err := f.Accounts.GetByCode(ctx, accounts.CodeInventoryGain)
	require.NoError(t, err)
	require.Equal(t, accounts.TypeRevenue, gainAcc.Type)

	requireBalancedBooks(t, f)
}

func TestPost_AdjustmentUsesLiveBookQuantity(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-10")
	supplier := seedCounterparty(t, f, "SUP-10", counterparty.TypeSupplier)

	// Count sheet drafted against a book quantity of 78.
	adj := documents.New(documents.KindAdjustment, nil)
	adj.AddAdjustmentItem(prod.ID, types.NewQuantityFromInt(78), types.NewQuantityFromInt(75))
	createDoc(t, f, adj)

	// Stock moves to 80 before the adjustment posts.
	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(80), types.MustMoney("60"), types.Zero())
	createDoc(t, f, pi)
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	// The delta is counted minus the locked row's 80, not the draft's 78:
	// loss of 5 @ 60 = 300.
	posted, err := f.Engine.Post(ctx, adj.ID)
	require.NoError(t, err)

	lines, err := f.JournalSvc.GetLines(ctx, *posted.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	requireMoney(t, "300", lines[0].Debit)
	requireMoney(t, "300", lines[1].Credit)

	prodRow, _ := f.Products.GetByID(ctx, prod.ID)
	require.Equal(t, types.NewQuantityFromInt(75), prodRow.QuantityOnHand)
	requireNoStockDrift(t, f, prod.ID)
	requireBalancedBooks(t, f)
}

func TestPost_AdjustmentWithoutDeltaHasNoJournal(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-6")

	adj := documents.New(documents.KindAdjustment, nil)
	adj.AddAdjustmentItem(prod.ID, types.NewQuantityFromInt(0), types.NewQuantityFromInt(0))
	createDoc(t, f, adj)

	posted, err := f.Engine.Post(ctx, adj.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusPosted, posted.Status)
	require.Nil(t, posted.JournalEntryID)
	require.Empty(t, f.Journal.AllEntries())
}

func TestCancel_SalesInvoiceRestoresEverything(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-7")
	supplier := seedCounterparty(t, f, "SUP-7", counterparty.TypeSupplier)
	customer := seedCounterparty(t, f, "CUS-7", counterparty.TypeCustomer)

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(10), types.MustMoney("50"), types.Zero())
	createDoc(t, f, pi)
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	si := documents.New(documents.KindSalesInvoice, &customer.ID)
	si.AddItem(prod.ID, types.NewQuantityFromInt(4), types.MustMoney("90"), types.Zero())
	createDoc(t, f, si)
	posted, err := f.Engine.Post(ctx, si.ID)
	require.NoError(t, err)
	originalEntryID := *posted.JournalEntryID
	originalLines, err := f.JournalSvc.GetLines(ctx, originalEntryID)
	require.NoError(t, err)

	cancelled, err := f.Engine.Cancel(ctx, si.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusCancelled, cancelled.Status)

	// Original journal untouched.
	keptLines, err := f.JournalSvc.GetLines(ctx, originalEntryID)
	require.NoError(t, err)
	require.Equal(t, originalLines, keptLines)

	// A mirror entry exists with debits and credits swapped.
	var mirrorFound bool
	for _, entry := range f.Journal.AllEntries() {
		if entry.ID == originalEntryID || len(entry.Lines) != len(originalLines) {
			continue
		}
		matches := true
		for i, l := range entry.Lines {
			if !l.Debit.Equal(originalLines[i].Credit) || !l.Credit.Equal(originalLines[i].Debit) ||
				l.AccountID != originalLines[i].AccountID {
				matches = false
				break
			}
		}
		if matches {
			mirrorFound = true
		}
	}
	require.True(t, mirrorFound, "no mirror entry found")

	// Stock and balance restored, movements gone.
	prodRow, _ := f.Products.GetByID(ctx, prod.ID)
	require.Equal(t, types.NewQuantityFromInt(10), prodRow.QuantityOnHand)
	customerRow, _ := f.Counterparties.GetByID(ctx, customer.ID)
	require.True(t, customerRow.Balance.IsZero())
	movements, _ := f.Register.GetByRecorder(ctx, si.ID)
	require.Empty(t, movements)

	requireNoStockDrift(t, f, prod.ID)
	requireBalancedBooks(t, f)
}

func TestCancel_RejectedWhileAllocationsExist(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-11")
	supplier := seedCounterparty(t, f, "SUP-11", counterparty.TypeSupplier)
	customer := seedCounterparty(t, f, "CUS-11", counterparty.TypeCustomer)

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(10), types.MustMoney("50"), types.Zero())
	createDoc(t, f, pi)
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	si := documents.New(documents.KindSalesInvoice, &customer.ID)
	si.AddItem(prod.ID, types.NewQuantityFromInt(4), types.MustMoney("90"), types.Zero())
	createDoc(t, f, si)
	_, err = f.Engine.Post(ctx, si.ID)
	require.NoError(t, err)

	payment, err := f.PaymentSvc.CreateAndAllocate(ctx, customer.ID, types.MustMoney("100"), si.ID)
	require.NoError(t, err)

	// The paid invoice cannot be cancelled out from under its allocation.
	_, err = f.Engine.Cancel(ctx, si.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))
	doc, _ := f.Documents.GetByID(ctx, si.ID)
	require.Equal(t, entity.StatusPosted, doc.Status)

	// Unlinking the allocation clears the way.
	allocations, err := f.PaymentSvc.GetAllocationsByPayment(ctx, payment.ID)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	require.NoError(t, f.PaymentSvc.Unlink(ctx, allocations[0].ID))

	cancelled, err := f.Engine.Cancel(ctx, si.ID)
	require.NoError(t, err)
	require.Equal(t, entity.StatusCancelled, cancelled.Status)
	requireNoStockDrift(t, f, prod.ID)
	requireBalancedBooks(t, f)
}

func TestCancel_ReturnsAreNotCancellable(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-8")
	supplier := seedCounterparty(t, f, "SUP-8", counterparty.TypeSupplier)
	customer := seedCounterparty(t, f, "CUS-8", counterparty.TypeCustomer)

	pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
	pi.AddItem(prod.ID, types.NewQuantityFromInt(10), types.MustMoney("50"), types.Zero())
	createDoc(t, f, pi)
	_, err := f.Engine.Post(ctx, pi.ID)
	require.NoError(t, err)

	sr := documents.New(documents.KindSalesReturn, &customer.ID)
	sr.AddItem(prod.ID, types.NewQuantityFromInt(1), types.MustMoney("90"), types.Zero())
	createDoc(t, f, sr)
	_, err = f.Engine.Post(ctx, sr.ID)
	require.NoError(t, err)

	_, err = f.Engine.Cancel(ctx, sr.ID)
	require.Error(t, err)
	require.True(t, apperror.IsCode(err, apperror.CodeBusinessRule))

	doc, _ := f.Documents.GetByID(ctx, sr.ID)
	require.Equal(t, entity.StatusPosted, doc.Status)
}

func TestPost_PurchaseReturnLeavesAtAverageCost(t *testing.T) {
	f, ctx := setup(t)

	prod := seedProduct(t, f, "WID-9")
	supplier := seedCounterparty(t, f, "SUP-9", counterparty.TypeSupplier)

	// 10 @ 100 then 10 @ 200: average 150.
	for _, price := range []string{"100", "200"} {
		pi := documents.New(documents.KindPurchaseInvoice, &supplier.ID)
		pi.AddItem(prod.ID, types.NewQuantityFromInt(10), types.MustMoney(price), types.Zero())
		createDoc(t, f, pi)
		_, err := f.Engine.Post(ctx, pi.ID)
		require.NoError(t, err)
	}

	pr := documents.New(documents.KindPurchaseReturn, &supplier.ID)
	pr.AddItem(prod.ID, types.NewQuantityFromInt(4), types.MustMoney("200"), types.Zero())
	createDoc(t, f, pr)
	posted, err := f.Engine.Post(ctx, pr.ID)
	require.NoError(t, err)

	// Goods leave at 150, not at the 200 they were bought for.
	lines, err := f.JournalSvc.GetLines(ctx, *posted.JournalEntryID)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	requireMoney(t, "600", lines[0].Debit)  // suppliers
	requireMoney(t, "600", lines[1].Credit) // inventory

	supplierRow, _ := f.Counterparties.GetByID(ctx, supplier.ID)
	requireMoney(t, "2400", supplierRow.Balance) // 1000 + 2000 - 600

	prodRow, _ := f.Products.GetByID(ctx, prod.ID)
	require.Equal(t, types.NewQuantityFromInt(16), prodRow.QuantityOnHand)
	requireNoStockDrift(t, f, prod.ID)
}
