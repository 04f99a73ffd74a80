package recommendations

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/internal/products"
	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
	"github.com/lumeworks/lume-backend/pkg/logger"
	"github.com/lumeworks/lume-backend/pkg/recs"
)

type stubScorer struct {
	scored []recs.ScoredProduct
	fail   error
	calls  int
	lastIn recs.ScoreRequest
}

func (s *stubScorer) Score(_ context.Context, req recs.ScoreRequest) ([]recs.ScoredProduct, error) {
	s.calls++
	s.lastIn = req
	if s.fail != nil {
		return nil, s.fail
	}
	return s.scored, nil
}

type stubCache struct {
	values map[string]string
	sets   int
}

func (s *stubCache) Get(_ context.Context, key string) (string, error) {
	v, ok := s.values[key]
	if !ok {
		return "", errors.New("redis: nil")
	}
	return v, nil
}

func (s *stubCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value.(string)
	s.sets++
	return nil
}

func (s *stubCache) RecommendationsKey(userID string) string {
	return "lume:recs:" + userID
}

type stubFeedCatalog struct {
	byID   map[uuid.UUID]*models.Product
	recent []models.Product
}

func (s *stubFeedCatalog) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return p, nil
}

func (s *stubFeedCatalog) ListActive(_ context.Context, _ products.ListFilters) ([]models.Product, error) {
	return s.recent, nil
}

type stubFeedHistory struct {
	rows []models.Purchase
}

func (s *stubFeedHistory) ListByUser(_ context.Context, _ uuid.UUID) ([]models.Purchase, error) {
	return s.rows, nil
}

func catalogProduct(name string) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		SKU:        "PROD-" + name,
		Name:       name,
		Category:   "hardware",
		PriceCents: 1000,
		IsActive:   true,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func TestRecommendScoresAndHydrates(t *testing.T) {
	t.Parallel()

	known := catalogProduct("drill")
	inactive := catalogProduct("retired")
	inactive.IsActive = false

	scorer := &stubScorer{scored: []recs.ScoredProduct{
		{ProductID: known.ID.String(), Score: 0.91, Reason: "Frequently bought in your category"},
		{ProductID: inactive.ID.String(), Score: 0.80, Reason: "old"},
		{ProductID: "not-a-uuid", Score: 0.70},
		{ProductID: uuid.NewString(), Score: 0.60},
	}}
	catalog := &stubFeedCatalog{byID: map[uuid.UUID]*models.Product{
		known.ID:    known,
		inactive.ID: inactive,
	}}
	history := &stubFeedHistory{rows: []models.Purchase{{
		ProductID:      uuid.New(),
		Quantity:       2,
		UnitPriceCents: 700,
		Product:        &models.Product{Category: "hardware"},
	}}}

	svc, err := NewService(scorer, &stubCache{}, history, catalog, testLogger(), Config{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	feed, err := svc.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if feed.Source != SourceModel {
		t.Fatalf("source = %q, want %q", feed.Source, SourceModel)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("items = %d, want 1 (inactive and unknown dropped)", len(feed.Items))
	}
	if feed.Items[0].Product.Name != "drill" || feed.Items[0].Score != 0.91 {
		t.Fatalf("item = %+v", feed.Items[0])
	}
	if len(scorer.lastIn.History) != 1 || scorer.lastIn.History[0].Category != "hardware" {
		t.Fatalf("score request history = %+v", scorer.lastIn.History)
	}
}

func TestRecommendFillsMissingReason(t *testing.T) {
	t.Parallel()

	known := catalogProduct("drill")
	scorer := &stubScorer{scored: []recs.ScoredProduct{
		{ProductID: known.ID.String(), Score: 0.5},
	}}
	catalog := &stubFeedCatalog{byID: map[uuid.UUID]*models.Product{known.ID: known}}

	svc, err := NewService(scorer, &stubCache{}, &stubFeedHistory{}, catalog, testLogger(), Config{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	feed, err := svc.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if feed.Items[0].Reason != "No reason available" {
		t.Fatalf("reason = %q", feed.Items[0].Reason)
	}
}

func TestRecommendCapsResults(t *testing.T) {
	t.Parallel()

	catalog := &stubFeedCatalog{byID: map[uuid.UUID]*models.Product{}}
	var scored []recs.ScoredProduct
	for i := 0; i < 5; i++ {
		p := catalogProduct(uuid.NewString())
		catalog.byID[p.ID] = p
		scored = append(scored, recs.ScoredProduct{ProductID: p.ID.String(), Score: 0.9})
	}

	svc, err := NewService(&stubScorer{scored: scored}, &stubCache{}, &stubFeedHistory{}, catalog, testLogger(), Config{MaxResults: 2})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	feed, err := svc.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(feed.Items))
	}
}

func TestRecommendFallsBackWhenScorerDown(t *testing.T) {
	t.Parallel()

	catalog := &stubFeedCatalog{
		byID:   map[uuid.UUID]*models.Product{},
		recent: []models.Product{*catalogProduct("new arrival"), *catalogProduct("other")},
	}
	scorer := &stubScorer{fail: errors.New("connection refused")}

	svc, err := NewService(scorer, &stubCache{}, &stubFeedHistory{}, catalog, testLogger(), Config{MaxResults: 1})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	feed, err := svc.Recommend(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if feed.Source != SourceFallback {
		t.Fatalf("source = %q, want %q", feed.Source, SourceFallback)
	}
	if len(feed.Items) != 1 {
		t.Fatalf("items = %d, want 1 (capped)", len(feed.Items))
	}
	if feed.Items[0].Reason != "Popular with other buyers" {
		t.Fatalf("reason = %q", feed.Items[0].Reason)
	}
}

func TestRecommendServesCachedFeed(t *testing.T) {
	t.Parallel()

	known := catalogProduct("drill")
	scorer := &stubScorer{scored: []recs.ScoredProduct{
		{ProductID: known.ID.String(), Score: 0.5, Reason: "r"},
	}}
	catalog := &stubFeedCatalog{byID: map[uuid.UUID]*models.Product{known.ID: known}}
	cache := &stubCache{}

	svc, err := NewService(scorer, cache, &stubFeedHistory{}, catalog, testLogger(), Config{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	userID := uuid.New()
	first, err := svc.Recommend(context.Background(), userID)
	if err != nil {
		t.Fatalf("first Recommend: %v", err)
	}
	if first.Cached {
		t.Fatal("first feed should not be cached")
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}

	second, err := svc.Recommend(context.Background(), userID)
	if err != nil {
		t.Fatalf("second Recommend: %v", err)
	}
	if !second.Cached {
		t.Fatal("second feed should come from cache")
	}
	if scorer.calls != 1 {
		t.Fatalf("scorer calls = %d, want 1", scorer.calls)
	}
}

func TestRecommendRequiresUser(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubScorer{}, &stubCache{}, &stubFeedHistory{}, &stubFeedCatalog{}, testLogger(), Config{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.Recommend(context.Background(), uuid.Nil); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}
