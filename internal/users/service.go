package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	"github.com/lumeworks/lume-backend/pkg/enums"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/types"
)

// Service exposes buyer profile operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error)
}

type profileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, fields map[string]any) error
}

type service struct {
	repo profileRepository
}

// NewService builds a users service backed by the provided repository.
func NewService(repo profileRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

// UpdateProfileInput carries the mutable profile fields. Nil fields are left
// untouched.
type UpdateProfileInput struct {
	BusinessInfo *types.BusinessInfo
	Preferences  *types.Preferences
	PaymentTerms *enums.PaymentTerms
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserDTO, error) {
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.BusinessInfo != nil {
		fields["business_info"] = input.BusinessInfo
	}
	if input.Preferences != nil {
		fields["preferences"] = input.Preferences
	}
	if input.PaymentTerms != nil {
		if !input.PaymentTerms.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment terms")
		}
		fields["payment_terms"] = *input.PaymentTerms
	}

	if err := s.repo.UpdateProfile(ctx, userID, fields); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
