package recommendations

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/internal/products"
	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/recs"
)

const (
	fallbackReason = "No reason available"
	popularReason  = "Popular with other buyers"

	defaultMaxResults = 10
	defaultCacheTTL   = 5 * time.Minute
)

// Service produces a ranked product feed for one buyer.
type Service interface {
	Recommend(ctx context.Context, userID uuid.UUID) (*FeedDTO, error)
}

type scorer interface {
	Score(ctx context.Context, req recs.ScoreRequest) ([]recs.ScoredProduct, error)
}

type feedCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	RecommendationsKey(userID string) string
}

type purchaseLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type productCatalog interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context, filters products.ListFilters) ([]models.Product, error)
}

// Config tunes feed size and cache lifetime.
type Config struct {
	MaxResults int
	CacheTTL   time.Duration
}

type service struct {
	scorer    scorer
	cache     feedCache
	purchases purchaseLister
	catalog   productCatalog
	logg      *logger.Logger

	maxResults int
	cacheTTL   time.Duration
}

// NewService wires the scoring client, cache, and catalog into a feed service.
func NewService(sc scorer, cache feedCache, purchases purchaseLister, catalog productCatalog, logg *logger.Logger, cfg Config) (Service, error) {
	if sc == nil {
		return nil, fmt.Errorf("scorer required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchase lister required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	return &service{
		scorer:     sc,
		cache:      cache,
		purchases:  purchases,
		catalog:    catalog,
		logg:       logg,
		maxResults: maxResults,
		cacheTTL:   cacheTTL,
	}, nil
}

// Recommend returns the cached feed when fresh, otherwise scores the buyer's
// history and rebuilds it. A dead scorer degrades to recent catalog products.
func (s *service) Recommend(ctx context.Context, userID uuid.UUID) (*FeedDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	if feed, ok := s.fromCache(ctx, userID); ok {
		return feed, nil
	}

	feed, err := s.build(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.store(ctx, userID, feed)
	return feed, nil
}

func (s *service) build(ctx context.Context, userID uuid.UUID) (*FeedDTO, error) {
	history, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase history")
	}

	scored, err := s.scorer.Score(ctx, scoreRequest(userID, history))
	if err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		s.logg.Warn(warnCtx, "scoring service unavailable, serving fallback feed")
		return s.fallback(ctx)
	}

	items := make([]RecommendationDTO, 0, s.maxResults)
	for _, candidate := range scored {
		if len(items) == s.maxResults {
			break
		}
		productID, err := uuid.Parse(candidate.ProductID)
		if err != nil {
			continue
		}
		product, err := s.catalog.FindByID(ctx, productID)
		if err != nil || product == nil || !product.IsActive {
			continue
		}
		reason := candidate.Reason
		if reason == "" {
			reason = fallbackReason
		}
		items = append(items, RecommendationDTO{
			Product: toRecommendedProduct(product),
			Score:   candidate.Score,
			Reason:  reason,
		})
	}

	if len(items) == 0 {
		return s.fallback(ctx)
	}
	return &FeedDTO{Items: items, Source: SourceModel}, nil
}

// fallback serves the newest active products when the scorer has nothing.
func (s *service) fallback(ctx context.Context) (*FeedDTO, error) {
	recent, err := s.catalog.ListActive(ctx, products.ListFilters{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load fallback products")
	}
	if len(recent) > s.maxResults {
		recent = recent[:s.maxResults]
	}
	items := make([]RecommendationDTO, 0, len(recent))
	for i := range recent {
		items = append(items, RecommendationDTO{
			Product: toRecommendedProduct(&recent[i]),
			Reason:  popularReason,
		})
	}
	return &FeedDTO{Items: items, Source: SourceFallback}, nil
}

func (s *service) fromCache(ctx context.Context, userID uuid.UUID) (*FeedDTO, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.cache.RecommendationsKey(userID.String()))
	if err != nil || raw == "" {
		return nil, false
	}
	var feed FeedDTO
	if err := json.Unmarshal([]byte(raw), &feed); err != nil {
		return nil, false
	}
	feed.Cached = true
	return &feed, true
}

// store is best effort, a cold cache only costs one extra scoring call.
func (s *service) store(ctx context.Context, userID uuid.UUID, feed *FeedDTO) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.RecommendationsKey(userID.String()), string(payload), s.cacheTTL); err != nil {
		warnCtx := s.logg.WithFields(ctx, map[string]any{
			"user_id": userID.String(),
			"error":   err.Error(),
		})
		s.logg.Warn(warnCtx, "failed to cache recommendations")
	}
}

func scoreRequest(userID uuid.UUID, history []models.Purchase) recs.ScoreRequest {
	req := recs.ScoreRequest{
		UserID:  userID.String(),
		History: make([]recs.HistoryItem, 0, len(history)),
	}
	for i := range history {
		item := recs.HistoryItem{
			ProductID:      history[i].ProductID.String(),
			Quantity:       history[i].Quantity,
			UnitPriceCents: history[i].UnitPriceCents,
		}
		if history[i].Product != nil {
			item.Category = history[i].Product.Category
		}
		req.History = append(req.History, item)
	}
	return req
}
