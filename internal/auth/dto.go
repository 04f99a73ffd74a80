package auth

import (
	"github.com/lumeworks/lume-backend/internal/users"
	"github.com/lumeworks/lume-backend/pkg/enums"
	"github.com/lumeworks/lume-backend/pkg/types"
)

// RegisterRequest carries the signup payload.
type RegisterRequest struct {
	Email        string
	Password     string
	BusinessInfo *types.BusinessInfo
	Preferences  *types.Preferences
	PaymentTerms enums.PaymentTerms
}

// RegisterResponse returns the created account.
type RegisterResponse struct {
	User *users.UserDTO `json:"user"`
}

// LoginRequest carries the credential payload.
type LoginRequest struct {
	Email    string
	Password string
}

// LoginResponse returns the minted token and the account it belongs to.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
