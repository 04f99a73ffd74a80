package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

func TestReserveDecrementsStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	product := uuid.New()

	if err := db.Create(&models.InventoryItem{ProductID: product, AvailableQty: 5}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	if err := ledger.Reserve(ctx, product, 3); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	item, err := ledger.Get(ctx, product)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if item.AvailableQty != 2 {
		t.Fatalf("expected 2 remaining, got %d", item.AvailableQty)
	}
}

func TestReserveInsufficientStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	product := uuid.New()

	if err := db.Create(&models.InventoryItem{ProductID: product, AvailableQty: 2}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	err := ledger.Reserve(ctx, product, 3)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("unexpected error: %v", err)
	}

	// A failed reservation must not touch the stock level.
	item, err := ledger.Get(ctx, product)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if item.AvailableQty != 2 {
		t.Fatalf("expected stock unchanged, got %d", item.AvailableQty)
	}
}

func TestReserveMissingProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger(db)

	err := ledger.Reserve(context.Background(), uuid.New(), 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock for missing row, got %v", err)
	}
}

func TestReserveInvalidQty(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger(db)

	for _, qty := range []int{0, -1} {
		err := ledger.Reserve(context.Background(), uuid.New(), qty)
		if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for qty=%d, got %v", qty, err)
		}
	}
}

func TestReleaseRestoresStock(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	product := uuid.New()

	if err := db.Create(&models.InventoryItem{ProductID: product, AvailableQty: 1}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	if err := ledger.Release(ctx, product, 4); err != nil {
		t.Fatalf("release: %v", err)
	}

	item, err := ledger.Get(ctx, product)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if item.AvailableQty != 5 {
		t.Fatalf("expected 5 after release, got %d", item.AvailableQty)
	}
}

func TestReleaseMissingProduct(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ledger := NewLedger(db)

	err := ledger.Release(context.Background(), uuid.New(), 1)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	product := uuid.New()

	if err := db.Create(&models.InventoryItem{ProductID: product, AvailableQty: 5}).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ledger.Reserve(ctx, product, 1); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if succeeded > 5 {
		t.Fatalf("oversold: %d reservations succeeded with 5 in stock", succeeded)
	}

	item, err := ledger.Get(ctx, product)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if item.AvailableQty < 0 {
		t.Fatalf("stock went negative: %d", item.AvailableQty)
	}
	if item.AvailableQty != 5-succeeded {
		t.Fatalf("expected %d remaining, got %d", 5-succeeded, item.AvailableQty)
	}
}

func TestUpsertCreatesAndReplaces(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(db)
	product := uuid.New()

	if err := ledger.Upsert(ctx, product, 7); err != nil {
		t.Fatalf("upsert create: %v", err)
	}
	if err := ledger.Upsert(ctx, product, 3); err != nil {
		t.Fatalf("upsert replace: %v", err)
	}

	item, err := ledger.Get(ctx, product)
	if err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	if item.AvailableQty != 3 {
		t.Fatalf("expected 3, got %d", item.AvailableQty)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:inventory_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.InventoryItem{}); err != nil {
		t.Fatalf("migrate inventory: %v", err)
	}
	return db
}
