package products

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	pkgdb "github.com/lumeworks/lume-backend/pkg/db"
	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/types"
)

const skuRandomLen = 5

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productRepository interface {
	WithTx(tx *gorm.DB) *Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, filters ListFilters) ([]models.Product, error)
	ListByCreator(ctx context.Context, userID uuid.UUID) ([]models.Product, error)
	UpdateOwned(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (int64, error)
	DeleteOwned(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

// Service exposes catalog operations.
type Service interface {
	CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	ListMyProducts(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error)
	UpdateProduct(ctx context.Context, id, userID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id, userID uuid.UUID) error
}

// InventoryWriter mirrors the ledger operations the catalog needs.
type InventoryWriter interface {
	Upsert(ctx context.Context, productID uuid.UUID, qty int) error
}

// InventoryBinder yields a ledger bound to the supplied transaction.
type InventoryBinder func(tx *gorm.DB) InventoryWriter

type service struct {
	repo   productRepository
	tx     txRunner
	ledger InventoryBinder
}

// NewService builds a products service backed by the provided stack.
func NewService(repo productRepository, tx txRunner, ledger InventoryBinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	return &service{repo: repo, tx: tx, ledger: ledger}, nil
}

// CreateProductInput captures a new catalog listing.
type CreateProductInput struct {
	SKU                 string
	Name                string
	Description         *string
	Category            string
	Subcategory         *string
	Brand               *string
	PriceCents          int64
	WholesalePriceCents *int64
	RetailPriceCents    *int64
	Images              []string
	Tags                []string
	Specifications      *types.Specifications
	MinOrderQty         int
	MaxOrderQty         *int
	ReorderPoint        *int
	AvailableQty        int
}

// UpdateProductInput applies partial changes; nil fields are untouched.
type UpdateProductInput struct {
	Name                *string
	Description         *string
	Category            *string
	Subcategory         *string
	Brand               *string
	PriceCents          *int64
	WholesalePriceCents *int64
	RetailPriceCents    *int64
	Tags                *[]string
	Specifications      *types.Specifications
	MinOrderQty         *int
	MaxOrderQty         *int
	ReorderPoint        *int
	IsActive            *bool
	AvailableQty        *int
}

// CreateProduct persists the listing and its opening stock atomically. A
// missing SKU is generated server-side.
func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category is required")
	}
	if input.PriceCents <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if input.AvailableQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available quantity must be non-negative")
	}
	if input.MinOrderQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min order quantity must be non-negative")
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		generated, err := generateSKU()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate sku")
		}
		sku = generated
	}

	minQty := input.MinOrderQty
	if minQty == 0 {
		minQty = 1
	}

	product := &models.Product{
		ID:                  uuid.New(),
		SKU:                 sku,
		Name:                strings.TrimSpace(input.Name),
		Description:         input.Description,
		Category:            strings.TrimSpace(input.Category),
		Subcategory:         input.Subcategory,
		Brand:               input.Brand,
		PriceCents:          input.PriceCents,
		WholesalePriceCents: input.WholesalePriceCents,
		RetailPriceCents:    input.RetailPriceCents,
		Images:              pq.StringArray(input.Images),
		Tags:                pq.StringArray(input.Tags),
		Specifications:      input.Specifications,
		MinOrderQty:         minQty,
		MaxOrderQty:         input.MaxOrderQty,
		ReorderPoint:        input.ReorderPoint,
		IsActive:            true,
		CreatedBy:           userID,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).Create(ctx, product); err != nil {
			// sku carries the only unique index on products.
			if pkgdb.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "sku already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
		}
		return s.ledger(tx).Upsert(ctx, product.ID, input.AvailableQty)
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, product.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return toProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	rows, err := s.repo.ListActive(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return toDTOs(rows), nil
}

func (s *service) ListMyProducts(ctx context.Context, userID uuid.UUID) ([]ProductDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list my products")
	}
	return toDTOs(rows), nil
}

// UpdateProduct applies the partial update creator-scoped: a product owned by
// someone else reads the same as a missing one.
func (s *service) UpdateProduct(ctx context.Context, id, userID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id and user id are required")
	}

	fields := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		fields["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category cannot be empty")
		}
		fields["category"] = strings.TrimSpace(*input.Category)
	}
	if input.Subcategory != nil {
		fields["subcategory"] = *input.Subcategory
	}
	if input.Brand != nil {
		fields["brand"] = *input.Brand
	}
	if input.PriceCents != nil {
		if *input.PriceCents <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		fields["price_cents"] = *input.PriceCents
	}
	if input.WholesalePriceCents != nil {
		fields["wholesale_price_cents"] = *input.WholesalePriceCents
	}
	if input.RetailPriceCents != nil {
		fields["retail_price_cents"] = *input.RetailPriceCents
	}
	if input.Tags != nil {
		fields["tags"] = pq.StringArray(*input.Tags)
	}
	if input.Specifications != nil {
		fields["specifications"] = input.Specifications
	}
	if input.MinOrderQty != nil {
		fields["min_order_qty"] = *input.MinOrderQty
	}
	if input.MaxOrderQty != nil {
		fields["max_order_qty"] = *input.MaxOrderQty
	}
	if input.ReorderPoint != nil {
		fields["reorder_point"] = *input.ReorderPoint
	}
	if input.IsActive != nil {
		fields["is_active"] = *input.IsActive
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(fields) > 0 {
			affected, err := repo.UpdateOwned(ctx, id, userID, fields)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
			}
			if affected == 0 {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found or not authorized")
			}
		} else if _, err := repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found or not authorized")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		if input.AvailableQty != nil {
			return s.ledger(tx).Upsert(ctx, id, *input.AvailableQty)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a listing creator-scoped.
func (s *service) DeleteProduct(ctx context.Context, id, userID uuid.UUID) error {
	if id == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id and user id are required")
	}
	affected, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found or not authorized")
	}
	return nil
}

func toDTOs(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toProductDTO(&rows[i]))
	}
	return out
}

// generateSKU builds PROD-<millis base36>-<5 random base36 chars>, uppercased.
func generateSKU() (string, error) {
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	suffix := make([]byte, skuRandomLen)
	for i := range suffix {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		suffix[i] = alphabet[idx.Int64()]
	}
	millis := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return strings.ToUpper(fmt.Sprintf("PROD-%s-%s", millis, string(suffix))), nil
}
