package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	"github.com/lumeworks/lume-backend/pkg/enums"
	"github.com/lumeworks/lume-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID               uuid.UUID           `json:"id"`
	Email            string              `json:"email"`
	BusinessInfo     *types.BusinessInfo `json:"business_info,omitempty"`
	Preferences      *types.Preferences  `json:"preferences,omitempty"`
	CreditLimitCents int64               `json:"credit_limit_cents"`
	PaymentTerms     enums.PaymentTerms  `json:"payment_terms"`
	IsVerified       bool                `json:"is_verified"`
	LastLoginAt      *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	BusinessInfo *types.BusinessInfo
	Preferences  *types.Preferences
	PaymentTerms enums.PaymentTerms
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		BusinessInfo:     u.BusinessInfo,
		Preferences:      u.Preferences,
		CreditLimitCents: u.CreditLimitCents,
		PaymentTerms:     u.PaymentTerms,
		IsVerified:       u.IsVerified,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	terms := c.PaymentTerms
	if terms == "" {
		terms = enums.PaymentTermsNet30
	}

	return &models.User{
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		BusinessInfo: c.BusinessInfo,
		Preferences:  c.Preferences,
		PaymentTerms: terms,
	}
}
