package recommendations

import (
	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
)

// Feed sources.
const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

// FeedDTO is the rendered recommendation feed for one buyer.
type FeedDTO struct {
	Items  []RecommendationDTO `json:"items"`
	Source string              `json:"source"`
	Cached bool                `json:"cached"`
}

// RecommendationDTO is one ranked product with its explanation.
type RecommendationDTO struct {
	Product RecommendedProductDTO `json:"product"`
	Score   float64               `json:"score"`
	Reason  string                `json:"reason"`
}

// RecommendedProductDTO is the catalog view embedded in the feed.
type RecommendedProductDTO struct {
	ID         uuid.UUID `json:"id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	PriceCents int64     `json:"price_cents"`
}

func toRecommendedProduct(p *models.Product) RecommendedProductDTO {
	return RecommendedProductDTO{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Category:   p.Category,
		PriceCents: p.PriceCents,
	}
}
