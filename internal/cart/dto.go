package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
)

// CartDTO is the wire representation of a cart.
type CartDTO struct {
	ID        uuid.UUID     `json:"id"`
	UserID    uuid.UUID     `json:"user_id"`
	Lines     []CartLineDTO `json:"items"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CartLineDTO is one cart entry with a product snapshot when loaded.
type CartLineDTO struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   *LineProductDTO `json:"product,omitempty"`
}

// LineProductDTO is the catalog snapshot attached to a line.
type LineProductDTO struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Category   string `json:"category"`
	PriceCents int64  `json:"price_cents"`
	IsActive   bool   `json:"is_active"`
}

func toCartDTO(record *models.Cart) *CartDTO {
	if record == nil {
		return nil
	}
	lines := make([]CartLineDTO, 0, len(record.Lines))
	for _, line := range record.Lines {
		dto := CartLineDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if line.Product != nil {
			dto.Product = &LineProductDTO{
				Name:       line.Product.Name,
				SKU:        line.Product.SKU,
				Category:   line.Product.Category,
				PriceCents: line.Product.PriceCents,
				IsActive:   line.Product.IsActive,
			}
		}
		lines = append(lines, dto)
	}
	return &CartDTO{
		ID:        record.ID,
		UserID:    record.UserID,
		Lines:     lines,
		UpdatedAt: record.UpdatedAt,
	}
}
