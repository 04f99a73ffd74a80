package controllers

import (
	"net/http"

	"github.com/lumeworks/lume-backend/api/responses"
	"github.com/lumeworks/lume-backend/api/validators"
	usersvc "github.com/lumeworks/lume-backend/internal/users"
	"github.com/lumeworks/lume-backend/pkg/enums"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/types"
)

type updateProfilePayload struct {
	BusinessInfo *types.BusinessInfo `json:"business_info,omitempty"`
	Preferences  *types.Preferences  `json:"preferences,omitempty"`
	PaymentTerms *string             `json:"payment_terms,omitempty"`
}

// UserProfile returns the caller's account without credential material.
func UserProfile(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetProfile(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// UserProfileUpdate merges business info, preferences, and payment terms.
func UserProfileUpdate(svc usersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "user service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := usersvc.UpdateProfileInput{
			BusinessInfo: payload.BusinessInfo,
			Preferences:  payload.Preferences,
		}
		if payload.PaymentTerms != nil {
			terms := enums.PaymentTerms(*payload.PaymentTerms)
			input.PaymentTerms = &terms
		}

		profile, err := svc.UpdateProfile(r.Context(), userID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
