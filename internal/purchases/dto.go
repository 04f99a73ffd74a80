package purchases

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
)

// PurchaseDTO is the wire representation of one purchase row.
type PurchaseDTO struct {
	ID             uuid.UUID          `json:"id"`
	ProductID      uuid.UUID          `json:"product_id"`
	Quantity       int                `json:"quantity"`
	UnitPriceCents int64              `json:"unit_price_cents"`
	OrderID        string             `json:"order_id,omitempty"`
	Product        *PurchasedSnapshot `json:"product,omitempty"`
	PurchasedAt    time.Time          `json:"purchased_at"`
}

// PurchasedSnapshot is the catalog view attached to a history row.
type PurchasedSnapshot struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Category string `json:"category"`
}

func toPurchaseDTO(p *models.Purchase) *PurchaseDTO {
	if p == nil {
		return nil
	}
	dto := &PurchaseDTO{
		ID:             p.ID,
		ProductID:      p.ProductID,
		Quantity:       p.Quantity,
		UnitPriceCents: p.UnitPriceCents,
		OrderID:        p.OrderID,
		PurchasedAt:    p.PurchasedAt,
	}
	if p.Product != nil {
		dto.Product = &PurchasedSnapshot{
			Name:     p.Product.Name,
			SKU:      p.Product.SKU,
			Category: p.Product.Category,
		}
	}
	return dto
}
