package cart

import "github.com/google/uuid"

// addItemRequest merges a quantity into the caller's cart. A missing quantity
// defaults to one unit.
type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity,omitempty"`
}

type updateItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"min=0"`
}

type removeItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}
