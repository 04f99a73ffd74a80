package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/api/responses"
	"github.com/lumeworks/lume-backend/api/validators"
	productsvc "github.com/lumeworks/lume-backend/internal/products"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/types"
)

type createProductPayload struct {
	SKU                 string                `json:"sku,omitempty"`
	Name                string                `json:"name" validate:"required"`
	Description         *string               `json:"description,omitempty"`
	Category            string                `json:"category" validate:"required"`
	Subcategory         *string               `json:"subcategory,omitempty"`
	Brand               *string               `json:"brand,omitempty"`
	PriceCents          int64                 `json:"price_cents" validate:"required,min=1"`
	WholesalePriceCents *int64                `json:"wholesale_price_cents,omitempty"`
	RetailPriceCents    *int64                `json:"retail_price_cents,omitempty"`
	Images              []string              `json:"images,omitempty"`
	Tags                []string              `json:"tags,omitempty"`
	Specifications      *types.Specifications `json:"specifications,omitempty"`
	MinOrderQty         int                   `json:"min_order_qty,omitempty"`
	MaxOrderQty         *int                  `json:"max_order_qty,omitempty"`
	ReorderPoint        *int                  `json:"reorder_point,omitempty"`
	AvailableQty        int                   `json:"available_qty,omitempty"`
}

type updateProductPayload struct {
	Name                *string               `json:"name,omitempty"`
	Description         *string               `json:"description,omitempty"`
	Category            *string               `json:"category,omitempty"`
	Subcategory         *string               `json:"subcategory,omitempty"`
	Brand               *string               `json:"brand,omitempty"`
	PriceCents          *int64                `json:"price_cents,omitempty"`
	WholesalePriceCents *int64                `json:"wholesale_price_cents,omitempty"`
	RetailPriceCents    *int64                `json:"retail_price_cents,omitempty"`
	Tags                *[]string             `json:"tags,omitempty"`
	Specifications      *types.Specifications `json:"specifications,omitempty"`
	MinOrderQty         *int                  `json:"min_order_qty,omitempty"`
	MaxOrderQty         *int                  `json:"max_order_qty,omitempty"`
	ReorderPoint        *int                  `json:"reorder_point,omitempty"`
	IsActive            *bool                 `json:"is_active,omitempty"`
	AvailableQty        *int                  `json:"available_qty,omitempty"`
}

// ProductList returns active listings, optionally filtered by category/search.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		filters := productsvc.ListFilters{
			Category: r.URL.Query().Get("category"),
			Search:   r.URL.Query().Get("search"),
		}
		listings, err := svc.ListProducts(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

// ProductDetail returns one listing with its live stock.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ProductCreate registers a listing owned by the caller.
func ProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.CreateProduct(r.Context(), userID, productsvc.CreateProductInput{
			SKU:                 payload.SKU,
			Name:                payload.Name,
			Description:         payload.Description,
			Category:            payload.Category,
			Subcategory:         payload.Subcategory,
			Brand:               payload.Brand,
			PriceCents:          payload.PriceCents,
			WholesalePriceCents: payload.WholesalePriceCents,
			RetailPriceCents:    payload.RetailPriceCents,
			Images:              payload.Images,
			Tags:                payload.Tags,
			Specifications:      payload.Specifications,
			MinOrderQty:         payload.MinOrderQty,
			MaxOrderQty:         payload.MaxOrderQty,
			ReorderPoint:        payload.ReorderPoint,
			AvailableQty:        payload.AvailableQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, listing)
	}
}

// ProductUpdate applies partial changes to a listing the caller owns.
func ProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listing, err := svc.UpdateProduct(r.Context(), productID, userID, productsvc.UpdateProductInput{
			Name:                payload.Name,
			Description:         payload.Description,
			Category:            payload.Category,
			Subcategory:         payload.Subcategory,
			Brand:               payload.Brand,
			PriceCents:          payload.PriceCents,
			WholesalePriceCents: payload.WholesalePriceCents,
			RetailPriceCents:    payload.RetailPriceCents,
			Tags:                payload.Tags,
			Specifications:      payload.Specifications,
			MinOrderQty:         payload.MinOrderQty,
			MaxOrderQty:         payload.MaxOrderQty,
			ReorderPoint:        payload.ReorderPoint,
			IsActive:            payload.IsActive,
			AvailableQty:        payload.AvailableQty,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listing)
	}
}

// ProductDelete removes a listing the caller owns.
func ProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID, userID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// MyProducts lists every listing owned by the caller, active or not.
func MyProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		listings, err := svc.ListMyProducts(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listings)
	}
}

func productIDParam(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "productId")
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	productID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return productID, nil
}
