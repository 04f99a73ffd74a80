package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/metrics"
)

const (
	opAddItem     = "add_item"
	opSetQuantity = "set_quantity"
	opRemoveItem  = "remove_item"

	outcomeReserved     = "reserved"
	outcomeInsufficient = "insufficient_stock"
	outcomeReleased     = "released"
)

type stockLedger interface {
	Reserve(ctx context.Context, productID uuid.UUID, qty int) error
	Release(ctx context.Context, productID uuid.UUID, qty int) error
}

type cartRepository interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindLine(ctx context.Context, cartID, productID uuid.UUID) (*models.CartLine, error)
	UpsertLine(ctx context.Context, cartID, productID uuid.UUID, quantity int) error
	RemoveLine(ctx context.Context, cartID, productID uuid.UUID) error
}

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the buyer cart operations.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error)
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error)
	RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     cartRepository
	ledger   stockLedger
	products productLoader
	logg     *logger.Logger
	metrics  *metrics.CartMetrics
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo cartRepository, ledger stockLedger, products productLoader, logg *logger.Logger, cartMetrics *metrics.CartMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("stock ledger required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		ledger:   ledger,
		products: products,
		logg:     logg,
		metrics:  cartMetrics,
	}, nil
}

// AddItemInput captures the payload for adding a product to the cart.
type AddItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(record), nil
}

// AddItem reserves stock for the requested quantity and merges it into the
// user's cart. The reservation happens before the cart write; when the cart
// write fails the reserved units are released again so a failed request never
// leaks stock.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(opAddItem, time.Since(started)) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.loadProduct(ctx, input.ProductID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Reserve(ctx, input.ProductID, input.Quantity); err != nil {
		if pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
			s.metrics.IncReservation(opAddItem, outcomeInsufficient)
			return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock for this product")
		}
		return nil, err
	}
	s.metrics.IncReservation(opAddItem, outcomeReserved)

	newQty := input.Quantity
	if line, lineErr := s.repo.FindLine(ctx, record.ID, input.ProductID); lineErr == nil {
		newQty = line.Quantity + input.Quantity
	} else if !pkgerrors.HasCode(lineErr, pkgerrors.CodeNotFound) {
		s.compensate(ctx, opAddItem, input.ProductID, input.Quantity)
		return nil, lineErr
	}

	if err := s.repo.UpsertLine(ctx, record.ID, input.ProductID, newQty); err != nil {
		s.compensate(ctx, opAddItem, input.ProductID, input.Quantity)
		return nil, err
	}

	return s.reload(ctx, userID)
}

// SetQuantity moves a line to an absolute quantity, reserving or releasing
// only the delta. A quantity of zero removes the line and restores its stock.
func (s *service) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) (*CartDTO, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(opSetQuantity, time.Since(started)) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be non-negative")
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.repo.FindLine(ctx, record.ID, productID)
	if err != nil {
		return nil, err
	}

	switch {
	case quantity == 0:
		if err := s.repo.RemoveLine(ctx, record.ID, productID); err != nil {
			return nil, err
		}
		s.release(ctx, opSetQuantity, productID, line.Quantity)

	case quantity > line.Quantity:
		delta := quantity - line.Quantity
		if err := s.ledger.Reserve(ctx, productID, delta); err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
				s.metrics.IncReservation(opSetQuantity, outcomeInsufficient)
				return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock to increase quantity")
			}
			return nil, err
		}
		s.metrics.IncReservation(opSetQuantity, outcomeReserved)
		if err := s.repo.UpsertLine(ctx, record.ID, productID, quantity); err != nil {
			s.compensate(ctx, opSetQuantity, productID, delta)
			return nil, err
		}

	case quantity < line.Quantity:
		if err := s.repo.UpsertLine(ctx, record.ID, productID, quantity); err != nil {
			return nil, err
		}
		s.release(ctx, opSetQuantity, productID, line.Quantity-quantity)
	}

	return s.reload(ctx, userID)
}

// RemoveItem deletes a line and restores its reserved stock.
func (s *service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartDTO, error) {
	started := time.Now()
	defer func() { s.metrics.ObserveDuration(opRemoveItem, time.Since(started)) }()

	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	line, err := s.repo.FindLine(ctx, record.ID, productID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveLine(ctx, record.ID, productID); err != nil {
		return nil, err
	}
	s.release(ctx, opRemoveItem, productID, line.Quantity)

	return s.reload(ctx, userID)
}

func (s *service) loadProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}
	return product, nil
}

// compensate undoes a reservation after a failed cart write. A failed release
// is logged and counted, never surfaced: the original write error is what the
// caller needs to see.
func (s *service) compensate(ctx context.Context, operation string, productID uuid.UUID, qty int) {
	if err := s.ledger.Release(ctx, productID, qty); err != nil {
		s.metrics.IncCompensationFailure(operation)
		ctx = s.logg.WithFields(ctx, map[string]any{
			"product_id": productID.String(),
			"quantity":   qty,
			"operation":  operation,
		})
		s.logg.Error(ctx, "failed to release reserved stock after cart write error", err)
	}
}

// release restores stock after a successful line shrink or removal. Failures
// are logged only; the cart mutation has already committed.
func (s *service) release(ctx context.Context, operation string, productID uuid.UUID, qty int) {
	if err := s.ledger.Release(ctx, productID, qty); err != nil {
		s.metrics.IncCompensationFailure(operation)
		ctx = s.logg.WithFields(ctx, map[string]any{
			"product_id": productID.String(),
			"quantity":   qty,
			"operation":  operation,
		})
		s.logg.Error(ctx, "failed to restore stock for removed cart quantity", err)
		return
	}
	s.metrics.IncReservation(operation, outcomeReleased)
}

func (s *service) reload(ctx context.Context, userID uuid.UUID) (*CartDTO, error) {
	record, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCartDTO(record), nil
}
