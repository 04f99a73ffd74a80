package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgdb "github.com/lumeworks/lume-backend/pkg/db"
	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

// Repository exposes persistence operations for carts and their lines.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetOrCreateByUser loads the user's cart, creating an empty one on first
// access. Two concurrent first accesses race on the unique user index; the
// loser re-fetches the winner's row.
func (r *Repository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart, err := r.FindByUser(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		return nil, err
	}

	record := models.Cart{UserID: userID}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if createErr := r.db.WithContext(ctx).Create(&record).Error; createErr != nil {
		if pkgdb.IsUniqueViolation(createErr, "") {
			return r.FindByUser(ctx, userID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, createErr, "create cart")
	}
	record.Lines = []models.CartLine{}
	return &record, nil
}

// FindByUser loads the user's cart with its lines and product snapshots.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_lines.created_at ASC")
		}).
		Preload("Lines.Product").
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return &cart, nil
}

// FindLine loads a single line by cart and product.
func (r *Repository) FindLine(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&line).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart line")
	}
	return &line, nil
}

// UpsertLine sets the absolute quantity for a (cart, product) pair, creating
// the line when it does not exist yet.
func (r *Repository) UpsertLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
	}

	res := r.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Update("quantity", quantity)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "update cart line")
	}
	if res.RowsAffected > 0 {
		return r.touch(ctx, cartID)
	}

	line := models.CartLine{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart line")
	}
	return r.touch(ctx, cartID)
}

// RemoveLine deletes a line; zero rows affected maps to not found.
func (r *Repository) RemoveLine(ctx context.Context, cartID, productID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "delete cart line")
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
	}
	return r.touch(ctx, cartID)
}

func (r *Repository) touch(ctx context.Context, cartID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("updated_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "touch cart")
	}
	return nil
}
