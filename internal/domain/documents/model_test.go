package documents

import (
	"context"
	"testing"

	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
)

func TestAddItem_Totals(t *testing.T) {
	cp := id.New()
	doc := New(KindSalesInvoice, &cp)

	doc.AddItem(id.New(), types.NewQuantityFromInt(3), types.MustMoney("19.99"), types.MustMoney("5"))
	doc.AddItem(id.New(), types.NewQuantityFromInt(1), types.MustMoney("100"), types.Zero())

	// 3*19.99 - 5 = 54.97, plus 100.
	if !doc.Subtotal.Equal(types.MustMoney("154.97")) {
		t.Errorf("Subtotal = %s, want 154.97", doc.Subtotal)
	}
	if !doc.Total.Equal(doc.Subtotal) {
		t.Errorf("Total = %s, want %s with zero tax", doc.Total, doc.Subtotal)
	}
	if doc.Items[0].LineNo != 1 || doc.Items[1].LineNo != 2 {
		t.Error("line numbers not sequential")
	}

	doc.Tax = types.MustMoney("15.50")
	doc.RecalculateTotals()
	if !doc.Total.Equal(types.MustMoney("170.47")) {
		t.Errorf("Total with tax = %s, want 170.47", doc.Total)
	}
}

func TestValidate(t *testing.T) {
	ctx := context.Background()
	cp := id.New()
	productID := id.New()

	t.Run("valid invoice", func(t *testing.T) {
		doc := New(KindSalesInvoice, &cp)
		doc.AddItem(productID, types.NewQuantityFromInt(1), types.MustMoney("10"), types.Zero())
		if err := doc.Validate(ctx); err != nil {
			t.Errorf("valid document rejected: %v", err)
		}
	})

	t.Run("invoice without counterparty", func(t *testing.T) {
		doc := New(KindPurchaseInvoice, nil)
		doc.AddItem(productID, types.NewQuantityFromInt(1), types.MustMoney("10"), types.Zero())
		if err := doc.Validate(ctx); err == nil {
			t.Error("missing counterparty accepted")
		}
	})

	t.Run("adjustment without counterparty is fine", func(t *testing.T) {
		doc := New(KindAdjustment, nil)
		doc.AddAdjustmentItem(productID, types.NewQuantityFromInt(10), types.NewQuantityFromInt(8))
		if err := doc.Validate(ctx); err != nil {
			t.Errorf("adjustment rejected: %v", err)
		}
	})

	t.Run("no items", func(t *testing.T) {
		doc := New(KindSalesInvoice, &cp)
		if err := doc.Validate(ctx); err == nil {
			t.Error("empty document accepted")
		}
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		doc := New(KindSalesInvoice, &cp)
		doc.AddItem(productID, types.NewQuantityFromInt(0), types.MustMoney("10"), types.Zero())
		if err := doc.Validate(ctx); err == nil {
			t.Error("zero quantity accepted")
		}
	})

	t.Run("negative counted quantity", func(t *testing.T) {
		doc := New(KindAdjustment, nil)
		doc.AddAdjustmentItem(productID, types.NewQuantityFromInt(5), types.NewQuantityFromInt(-1))
		if err := doc.Validate(ctx); err == nil {
			t.Error("negative counted quantity accepted")
		}
	})
}

func TestKindBehavior(t *testing.T) {
	if !KindSalesInvoice.Cancellable() || !KindPurchaseInvoice.Cancellable() {
		t.Error("invoices must be cancellable")
	}
	if KindSalesReturn.Cancellable() || KindPurchaseReturn.Cancellable() || KindAdjustment.Cancellable() {
		t.Error("only invoices are cancellable")
	}
	if KindAdjustment.RequiresCounterparty() {
		t.Error("adjustments are internal documents")
	}
	if Kind("bogus").Valid() {
		t.Error("unknown kind accepted")
	}
}

func TestItemDelta(t *testing.T) {
	actual := types.NewQuantityFromInt(7)
	item := Item{Quantity: types.NewQuantityFromInt(10), ActualQuantity: &actual}
	if item.Delta() != types.NewQuantityFromInt(-3) {
		t.Errorf("Delta = %s, want -3", item.Delta())
	}

	plain := Item{Quantity: types.NewQuantityFromInt(10)}
	if plain.Delta() != 0 {
		t.Errorf("Delta without count = %s, want 0", plain.Delta())
	}
}
