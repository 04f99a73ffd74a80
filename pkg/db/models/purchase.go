package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is one historical order line recorded for a user.
type Purchase struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID         uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Quantity       int       `gorm:"column:quantity;not null;default:1"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	OrderID        string    `gorm:"column:order_id"`
	Product        *Product  `gorm:"foreignKey:ProductID"`
	PurchasedAt    time.Time `gorm:"column:purchased_at;autoCreateTime"`
}
