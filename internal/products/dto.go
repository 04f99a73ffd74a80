package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	"github.com/lumeworks/lume-backend/pkg/types"
)

// ProductDTO is the wire representation of a catalog listing.
type ProductDTO struct {
	ID                  uuid.UUID             `json:"id"`
	SKU                 string                `json:"sku"`
	Name                string                `json:"name"`
	Description         *string               `json:"description,omitempty"`
	Category            string                `json:"category"`
	Subcategory         *string               `json:"subcategory,omitempty"`
	Brand               *string               `json:"brand,omitempty"`
	PriceCents          int64                 `json:"price_cents"`
	WholesalePriceCents *int64                `json:"wholesale_price_cents,omitempty"`
	RetailPriceCents    *int64                `json:"retail_price_cents,omitempty"`
	Images              []string              `json:"images,omitempty"`
	Tags                []string              `json:"tags,omitempty"`
	Specifications      *types.Specifications `json:"specifications,omitempty"`
	MinOrderQty         int                   `json:"min_order_qty"`
	MaxOrderQty         *int                  `json:"max_order_qty,omitempty"`
	ReorderPoint        *int                  `json:"reorder_point,omitempty"`
	IsActive            bool                  `json:"is_active"`
	CreatedBy           uuid.UUID             `json:"created_by"`
	Inventory           *InventoryDTO         `json:"inventory,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
	UpdatedAt           time.Time             `json:"updated_at"`
}

// InventoryDTO exposes the stock count for a listing.
type InventoryDTO struct {
	AvailableQty int       `json:"available_qty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:                  p.ID,
		SKU:                 p.SKU,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		Subcategory:         p.Subcategory,
		Brand:               p.Brand,
		PriceCents:          p.PriceCents,
		WholesalePriceCents: p.WholesalePriceCents,
		RetailPriceCents:    p.RetailPriceCents,
		Images:              append([]string(nil), p.Images...),
		Tags:                append([]string(nil), p.Tags...),
		Specifications:      p.Specifications,
		MinOrderQty:         p.MinOrderQty,
		MaxOrderQty:         p.MaxOrderQty,
		ReorderPoint:        p.ReorderPoint,
		IsActive:            p.IsActive,
		CreatedBy:           p.CreatedBy,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.Inventory != nil {
		dto.Inventory = &InventoryDTO{
			AvailableQty: p.Inventory.AvailableQty,
			UpdatedAt:    p.Inventory.UpdatedAt,
		}
	}
	return dto
}
