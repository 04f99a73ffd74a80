package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

func TestGetOrCreateByUserIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newRepoTestDB(t))
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreateByUser(ctx, userID)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, first.ID)
	assert.Empty(t, first.Lines)

	second, err := repo.GetOrCreateByUser(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestUpsertLineCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	db := newRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedRepoProduct(t, db)

	cart, err := repo.GetOrCreateByUser(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, repo.UpsertLine(ctx, cart.ID, productID, 2))
	line, err := repo.FindLine(ctx, cart.ID, productID)
	require.NoError(t, err)
	assert.Equal(t, 2, line.Quantity)

	require.NoError(t, repo.UpsertLine(ctx, cart.ID, productID, 7))
	line, err = repo.FindLine(ctx, cart.ID, productID)
	require.NoError(t, err)
	assert.Equal(t, 7, line.Quantity)

	// Still a single row for the pair.
	var count int64
	require.NoError(t, db.Model(&models.CartLine{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpsertLineRejectsNonPositiveQuantity(t *testing.T) {
	t.Parallel()

	repo := NewRepository(newRepoTestDB(t))
	err := repo.UpsertLine(context.Background(), uuid.New(), uuid.New(), 0)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestRemoveLine(t *testing.T) {
	t.Parallel()

	db := newRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	productID := seedRepoProduct(t, db)

	cart, err := repo.GetOrCreateByUser(ctx, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLine(ctx, cart.ID, productID, 1))

	require.NoError(t, repo.RemoveLine(ctx, cart.ID, productID))

	_, err = repo.FindLine(ctx, cart.ID, productID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))

	err = repo.RemoveLine(ctx, cart.ID, productID)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}

func TestFindByUserLoadsProductSnapshot(t *testing.T) {
	t.Parallel()

	db := newRepoTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	userID := uuid.New()
	productID := seedRepoProduct(t, db)

	cart, err := repo.GetOrCreateByUser(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, repo.UpsertLine(ctx, cart.ID, productID, 4))

	loaded, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, loaded.Lines, 1)
	require.NotNil(t, loaded.Lines[0].Product)
	assert.Equal(t, "test widget", loaded.Lines[0].Product.Name)
}

func seedRepoProduct(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	product := models.Product{
		ID:         uuid.New(),
		SKU:        "PROD-" + uuid.NewString()[:8],
		Name:       "test widget",
		Category:   "hardware",
		PriceCents: 999,
		IsActive:   true,
		CreatedBy:  uuid.New(),
	}
	require.NoError(t, db.Create(&product).Error)
	return product.ID
}

func newRepoTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:cart_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	for _, stmt := range []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			sku TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL,
			subcategory TEXT,
			brand TEXT,
			price_cents INTEGER NOT NULL,
			wholesale_price_cents INTEGER,
			retail_price_cents INTEGER,
			images TEXT,
			tags TEXT,
			specifications TEXT,
			min_order_qty INTEGER NOT NULL DEFAULT 1,
			max_order_qty INTEGER,
			reorder_point INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_by TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS carts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS cart_lines (
			id TEXT PRIMARY KEY,
			cart_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE (cart_id, product_id)
		)`,
	} {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}
