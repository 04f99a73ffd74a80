package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/enums"
	"github.com/lumeworks/lume-backend/pkg/types"
)

// User represents the canonical buyer identity.
type User struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string              `gorm:"column:email;type:text;not null;uniqueIndex"`
	PasswordHash     string              `gorm:"column:password_hash;not null"`
	BusinessInfo     *types.BusinessInfo `gorm:"column:business_info;type:jsonb;serializer:json"`
	Preferences      *types.Preferences  `gorm:"column:preferences;type:jsonb;serializer:json"`
	CreditLimitCents int64               `gorm:"column:credit_limit_cents;not null;default:1000000"`
	PaymentTerms     enums.PaymentTerms  `gorm:"column:payment_terms;not null;default:'net30'"`
	IsVerified       bool                `gorm:"column:is_verified;not null;default:false"`
	LastLoginAt      *time.Time          `gorm:"column:last_login_at"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
