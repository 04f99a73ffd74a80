package controllers

import (
	"net/http"

	"github.com/lumeworks/lume-backend/api/responses"
	"github.com/lumeworks/lume-backend/api/validators"
	authsvc "github.com/lumeworks/lume-backend/internal/auth"
	"github.com/lumeworks/lume-backend/pkg/enums"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/types"
)

type registerPayload struct {
	Email        string              `json:"email" validate:"required,email"`
	Password     string              `json:"password" validate:"required,min=8"`
	BusinessInfo *types.BusinessInfo `json:"business_info,omitempty"`
	Preferences  *types.Preferences  `json:"preferences,omitempty"`
	PaymentTerms string              `json:"payment_terms,omitempty"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthRegister creates a buyer account.
func AuthRegister(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload registerPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Register(r.Context(), authsvc.RegisterRequest{
			Email:        payload.Email,
			Password:     payload.Password,
			BusinessInfo: payload.BusinessInfo,
			Preferences:  payload.Preferences,
			PaymentTerms: enums.PaymentTerms(payload.PaymentTerms),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthLogin verifies credentials and mints an access token.
func AuthLogin(svc authsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Login(r.Context(), authsvc.LoginRequest{
			Email:    payload.Email,
			Password: payload.Password,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, resp)
	}
}
