package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

// Service exposes the purchase history operations.
type Service interface {
	Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*PurchaseDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]PurchaseDTO, error)
}

type purchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) (*models.Purchase, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     purchaseRepository
	products productLoader
}

// NewService builds a purchases service backed by the provided stack.
func NewService(repo purchaseRepository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// RecordInput captures one completed order line.
type RecordInput struct {
	ProductID uuid.UUID
	Quantity  int
	OrderID   string
}

// Record appends a purchase row priced at the product's current list price.
func (s *service) Record(ctx context.Context, userID uuid.UUID, input RecordInput) (*PurchaseDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	purchase := &models.Purchase{
		UserID:         userID,
		ProductID:      product.ID,
		Quantity:       quantity,
		UnitPriceCents: product.PriceCents,
		OrderID:        strings.TrimSpace(input.OrderID),
		PurchasedAt:    time.Now().UTC(),
	}
	persisted, err := s.repo.Create(ctx, purchase)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record purchase")
	}
	persisted.Product = product
	return toPurchaseDTO(persisted), nil
}

// List returns the user's purchase history, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]PurchaseDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list purchases")
	}
	out := make([]PurchaseDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *toPurchaseDTO(&rows[i]))
	}
	return out, nil
}
