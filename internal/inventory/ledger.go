package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

// Ledger owns all stock mutations. Reservations and releases are single
// conditional UPDATEs so concurrent requests can never drive stock negative.
type Ledger struct {
	db *gorm.DB
}

// NewLedger constructs an inventory ledger bound to the provided DB.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx binds the ledger to a transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	if tx == nil {
		return l
	}
	return &Ledger{db: tx}
}

// Get loads the inventory row for a product.
func (l *Ledger) Get(ctx context.Context, productID uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory")
	}
	return &item, nil
}

// Upsert creates or replaces the stock level for a product.
func (l *Ledger) Upsert(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}
	res := l.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_qty = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update inventory")
	}
	if res.RowsAffected > 0 {
		return nil
	}
	item := models.InventoryItem{ProductID: productID, AvailableQty: qty}
	if err := l.db.WithContext(ctx).Create(&item).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory")
	}
	return nil
}

// Reserve atomically decrements available stock. The decrement and the
// sufficiency check happen in one statement; zero rows affected means the
// product had less stock than requested (or no inventory row at all).
func (l *Ledger) Reserve(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	res := l.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_qty = available_qty - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ? AND available_qty >= ?
	`, qty, productID, qty)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "reserve inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock")
	}
	return nil
}

// Release returns previously reserved units to the pool. Zero rows affected
// means the inventory row disappeared; callers treat that as a failed
// compensation and log it rather than surfacing it.
func (l *Ledger) Release(ctx context.Context, productID uuid.UUID, qty int) error {
	if qty <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	res := l.db.WithContext(ctx).Exec(`
		UPDATE inventory_items
		SET available_qty = available_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE product_id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "release inventory")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory not found")
	}
	return nil
}
