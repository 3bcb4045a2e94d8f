package inventory_test

import (
	"context"
	"testing"
	"time"

	"minibooks/internal/core/entity"
	"minibooks/internal/core/id"
	"minibooks/internal/core/types"
	"minibooks/internal/domain/domaintest"
	"minibooks/internal/domain/registers/inventory"
)

func movement(recorder, productID id.ID, mType entity.MovementType, qty int64, cost string) entity.InventoryMovement {
	return entity.NewInventoryMovement(
		recorder, "test", 1, time.Now(),
		mType, productID,
		types.NewQuantityFromInt(qty), types.MustMoney(cost),
	)
}

func TestAverageCost(t *testing.T) {
	repo := domaintest.NewInventoryRepo()
	svc := inventory.NewService(repo)
	ctx := context.Background()
	productID := id.New()

	// No movements yet: zero, not an error.
	avg, err := svc.AverageCost(ctx, productID)
	if err != nil {
		t.Fatalf("AverageCost failed: %v", err)
	}
	if !avg.IsZero() {
		t.Errorf("empty history avg = %s, want 0", avg)
	}

	// 20 @ 100 and 10 @ 120: (2000+1200)/30 = 106.67 rounded.
	err = svc.RecordMovements(ctx, []entity.InventoryMovement{
		movement(id.New(), productID, entity.MovementPurchase, 20, "100"),
		movement(id.New(), productID, entity.MovementPurchase, 10, "120"),
	})
	if err != nil {
		t.Fatalf("RecordMovements failed: %v", err)
	}

	avg, err = svc.AverageCost(ctx, productID)
	if err != nil {
		t.Fatalf("AverageCost failed: %v", err)
	}
	if !types.RoundMoney(avg).Equal(types.MustMoney("106.67")) {
		t.Errorf("avg = %s, want 106.67", types.RoundMoney(avg))
	}

	// Sales do not move the average base.
	sale := movement(id.New(), productID, entity.MovementSale, 8, "106.67")
	sale.Quantity = sale.Quantity.Neg()
	if err := svc.RecordMovements(ctx, []entity.InventoryMovement{sale}); err != nil {
		t.Fatalf("RecordMovements failed: %v", err)
	}

	after, err := svc.AverageCost(ctx, productID)
	if err != nil {
		t.Fatalf("AverageCost failed: %v", err)
	}
	if !after.Equal(avg) {
		t.Errorf("sale shifted the average: %s -> %s", avg, after)
	}
}

func TestAverageCost_SelfCorrectsAfterDeletion(t *testing.T) {
	repo := domaintest.NewInventoryRepo()
	svc := inventory.NewService(repo)
	ctx := context.Background()
	productID := id.New()

	firstRecorder := id.New()
	err := svc.RecordMovements(ctx, []entity.InventoryMovement{
		movement(firstRecorder, productID, entity.MovementPurchase, 10, "100"),
		movement(id.New(), productID, entity.MovementPurchase, 10, "300"),
	})
	if err != nil {
		t.Fatalf("RecordMovements failed: %v", err)
	}

	avg, _ := svc.AverageCost(ctx, productID)
	if !types.RoundMoney(avg).Equal(types.MustMoney("200")) {
		t.Fatalf("avg = %s, want 200", avg)
	}

	// Deleting the first purchase rebases the average, since it is always
	// recomputed from the surviving history.
	if err := svc.DeleteByRecorder(ctx, firstRecorder); err != nil {
		t.Fatalf("DeleteByRecorder failed: %v", err)
	}

	avg, _ = svc.AverageCost(ctx, productID)
	if !types.RoundMoney(avg).Equal(types.MustMoney("300")) {
		t.Errorf("avg after deletion = %s, want 300", avg)
	}
}

func TestRecordMovements_Validation(t *testing.T) {
	svc := inventory.NewService(domaintest.NewInventoryRepo())
	ctx := context.Background()

	zeroQty := movement(id.New(), id.New(), entity.MovementPurchase, 1, "10")
	zeroQty.Quantity = 0
	if err := svc.RecordMovements(ctx, []entity.InventoryMovement{zeroQty}); err == nil {
		t.Error("zero quantity accepted")
	}

	noRecorder := movement(id.Nil(), id.New(), entity.MovementPurchase, 1, "10")
	if err := svc.RecordMovements(ctx, []entity.InventoryMovement{noRecorder}); err == nil {
		t.Error("missing recorder accepted")
	}

	if err := svc.RecordMovements(ctx, nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}

func TestQuantityFromMovements(t *testing.T) {
	repo := domaintest.NewInventoryRepo()
	svc := inventory.NewService(repo)
	ctx := context.Background()
	productID := id.New()

	in := movement(id.New(), productID, entity.MovementPurchase, 30, "100")
	out := movement(id.New(), productID, entity.MovementSale, 8, "100")
	out.Quantity = out.Quantity.Neg()
	back := movement(id.New(), productID, entity.MovementSaleReturn, 2, "100")

	if err := svc.RecordMovements(ctx, []entity.InventoryMovement{in, out, back}); err != nil {
		t.Fatalf("RecordMovements failed: %v", err)
	}

	total, err := svc.QuantityFromMovements(ctx, productID)
	if err != nil {
		t.Fatalf("QuantityFromMovements failed: %v", err)
	}
	if total != types.NewQuantityFromInt(24) {
		t.Errorf("fold = %s, want 24", total)
	}
}
