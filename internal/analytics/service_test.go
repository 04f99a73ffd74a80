package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

type stubHistory struct {
	rows []models.Purchase
}

func (s *stubHistory) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	var out []models.Purchase
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func purchase(userID uuid.UUID, category string, qty int, unitCents int64) models.Purchase {
	return models.Purchase{
		ID:             uuid.New(),
		UserID:         userID,
		ProductID:      uuid.New(),
		Quantity:       qty,
		UnitPriceCents: unitCents,
		Product:        &models.Product{Category: category},
	}
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc, err := NewService(&stubHistory{rows: []models.Purchase{
		purchase(userID, "hardware", 2, 1000),
		purchase(userID, "electrical", 1, 500),
		purchase(uuid.New(), "hardware", 10, 9999),
	}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	stats, err := svc.DashboardStats(context.Background(), userID)
	if err != nil {
		t.Fatalf("DashboardStats: %v", err)
	}
	if stats.TotalOrders != 2 {
		t.Fatalf("total orders = %d, want 2", stats.TotalOrders)
	}
	if stats.TotalSpentCents != 2500 {
		t.Fatalf("total spent = %d, want 2500", stats.TotalSpentCents)
	}
	if stats.PendingOrders != 0 {
		t.Fatalf("pending orders = %d, want 0", stats.PendingOrders)
	}
}

func TestSummaryTotalsAndAverage(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	svc, err := NewService(&stubHistory{rows: []models.Purchase{
		purchase(userID, "hardware", 3, 1000),  // 3000
		purchase(userID, "hardware", 1, 2000),  // 2000
		purchase(userID, "electrical", 2, 500), // 1000
	}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalSpentCents != 6000 {
		t.Fatalf("total spent = %d, want 6000", summary.TotalSpentCents)
	}
	if summary.OrdersCount != 3 {
		t.Fatalf("orders = %d, want 3", summary.OrdersCount)
	}
	if summary.AvgOrderValueCents != 2000 {
		t.Fatalf("avg order = %d, want 2000", summary.AvgOrderValueCents)
	}
	if summary.SavingsCents != 900 {
		t.Fatalf("savings = %d, want 900", summary.SavingsCents)
	}
}

func TestSummaryTopCategoriesRankedAndCapped(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	rows := []models.Purchase{
		purchase(userID, "a", 1, 100),
		purchase(userID, "b", 1, 600),
		purchase(userID, "c", 1, 300),
		purchase(userID, "d", 1, 400),
		purchase(userID, "e", 1, 500),
		purchase(userID, "f", 1, 200),
	}
	svc, err := NewService(&stubHistory{rows: rows})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary.TopCategories) != 5 {
		t.Fatalf("top categories = %d, want 5", len(summary.TopCategories))
	}
	if summary.TopCategories[0].Category != "b" || summary.TopCategories[0].SpentCents != 600 {
		t.Fatalf("top category = %+v", summary.TopCategories[0])
	}
	for _, c := range summary.TopCategories {
		if c.Category == "a" {
			t.Fatalf("lowest spender should be cut: %+v", summary.TopCategories)
		}
	}
}

func TestSummaryMonthlyTrends(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	// 6000 total across six months, monthly average 1000.
	svc, err := NewService(&stubHistory{rows: []models.Purchase{
		purchase(userID, "hardware", 6, 1000),
	}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := []MonthlyTrendDTO{
		{Month: "Jan", SpentCents: 800},
		{Month: "Feb", SpentCents: 900},
		{Month: "Mar", SpentCents: 1100},
		{Month: "Apr", SpentCents: 950},
		{Month: "May", SpentCents: 1200},
		{Month: "Jun", SpentCents: 1000},
	}
	if len(summary.MonthlyTrends) != len(want) {
		t.Fatalf("trends = %d points, want %d", len(summary.MonthlyTrends), len(want))
	}
	for i, point := range summary.MonthlyTrends {
		if point != want[i] {
			t.Fatalf("trend[%d] = %+v, want %+v", i, point, want[i])
		}
	}
}

func TestSummaryEmptyHistory(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubHistory{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	summary, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.TotalSpentCents != 0 || summary.OrdersCount != 0 || summary.AvgOrderValueCents != 0 {
		t.Fatalf("summary = %+v, want zeros", summary)
	}
	if len(summary.MonthlyTrends) != 6 {
		t.Fatalf("trends = %d points, want 6", len(summary.MonthlyTrends))
	}
	for _, point := range summary.MonthlyTrends {
		if point.SpentCents != 0 {
			t.Fatalf("empty history trend = %+v", point)
		}
	}
}

func TestAnalyticsRequiresUser(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubHistory{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	if _, err := svc.Summary(context.Background(), uuid.Nil); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("err = %v, want VALIDATION", err)
	}
}
