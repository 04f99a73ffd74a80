package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/lumeworks/lume-backend/pkg/types"
)

// Product represents a catalog listing owned by the user who created it.
type Product struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU                 string                `gorm:"column:sku;not null;uniqueIndex"`
	Name                string                `gorm:"column:name;not null"`
	Description         *string               `gorm:"column:description"`
	Category            string                `gorm:"column:category;not null"`
	Subcategory         *string               `gorm:"column:subcategory"`
	Brand               *string               `gorm:"column:brand"`
	PriceCents          int64                 `gorm:"column:price_cents;not null"`
	WholesalePriceCents *int64                `gorm:"column:wholesale_price_cents"`
	RetailPriceCents    *int64                `gorm:"column:retail_price_cents"`
	Images              pq.StringArray        `gorm:"column:images;type:text[]"`
	Tags                pq.StringArray        `gorm:"column:tags;type:text[]"`
	Specifications      *types.Specifications `gorm:"column:specifications;type:jsonb;serializer:json"`
	MinOrderQty         int                   `gorm:"column:min_order_qty;not null;default:1"`
	MaxOrderQty         *int                  `gorm:"column:max_order_qty"`
	ReorderPoint        *int                  `gorm:"column:reorder_point"`
	IsActive            bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedBy           uuid.UUID             `gorm:"column:created_by;type:uuid;not null"`
	Creator             *User                 `gorm:"foreignKey:CreatedBy"`
	Inventory           *InventoryItem        `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
