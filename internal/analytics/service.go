package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lumeworks/lume-backend/pkg/db/models"
	pkgerrors "github.com/lumeworks/lume-backend/pkg/errors"
)

// Bulk buyers are assumed to save this share versus retail pricing.
var bulkSavingsRate = decimal.NewFromFloat(0.15)

// Seasonal multipliers applied to the average monthly spend, January
// through June. Real trend data arrives once the warehouse feed lands.
var trendMultipliers = []struct {
	Month      string
	Multiplier decimal.Decimal
}{
	{"Jan", decimal.NewFromFloat(0.8)},
	{"Feb", decimal.NewFromFloat(0.9)},
	{"Mar", decimal.NewFromFloat(1.1)},
	{"Apr", decimal.NewFromFloat(0.95)},
	{"May", decimal.NewFromFloat(1.2)},
	{"Jun", decimal.NewFromFloat(1.0)},
}

const topCategoryLimit = 5

// Service aggregates purchase history into dashboard and analytics views.
type Service interface {
	DashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStatsDTO, error)
	Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error)
}

type purchaseLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error)
}

type service struct {
	purchases purchaseLister
}

// NewService builds the analytics service on top of purchase history.
func NewService(purchases purchaseLister) (Service, error) {
	if purchases == nil {
		return nil, fmt.Errorf("purchase lister required")
	}
	return &service{purchases: purchases}, nil
}

// DashboardStats returns the headline totals for the dashboard card.
func (s *service) DashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStatsDTO, error) {
	rows, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for i := range rows {
		total = total.Add(lineTotal(&rows[i]))
	}
	return &DashboardStatsDTO{
		TotalOrders:     len(rows),
		TotalSpentCents: total.IntPart(),
		PendingOrders:   0,
	}, nil
}

// Summary computes the full analytics view over the user's history.
func (s *service) Summary(ctx context.Context, userID uuid.UUID) (*SummaryDTO, error) {
	rows, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	byCategory := map[string]decimal.Decimal{}
	for i := range rows {
		line := lineTotal(&rows[i])
		total = total.Add(line)
		category := categoryOf(&rows[i])
		byCategory[category] = byCategory[category].Add(line)
	}

	summary := &SummaryDTO{
		TotalSpentCents: total.IntPart(),
		OrdersCount:     len(rows),
		TopCategories:   topCategories(byCategory),
		MonthlyTrends:   monthlyTrends(total, len(rows)),
		SavingsCents:    total.Mul(bulkSavingsRate).Round(0).IntPart(),
	}
	if len(rows) > 0 {
		avg := total.Div(decimal.NewFromInt(int64(len(rows)))).Round(0)
		summary.AvgOrderValueCents = avg.IntPart()
	}
	return summary, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) ([]models.Purchase, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.purchases.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load purchase history")
	}
	return rows, nil
}

func lineTotal(p *models.Purchase) decimal.Decimal {
	return decimal.NewFromInt(p.UnitPriceCents).Mul(decimal.NewFromInt(int64(p.Quantity)))
}

func categoryOf(p *models.Purchase) string {
	if p.Product != nil && p.Product.Category != "" {
		return p.Product.Category
	}
	return "uncategorized"
}

func topCategories(byCategory map[string]decimal.Decimal) []CategorySpendDTO {
	out := make([]CategorySpendDTO, 0, len(byCategory))
	for category, spend := range byCategory {
		out = append(out, CategorySpendDTO{Category: category, SpentCents: spend.IntPart()})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SpentCents != out[j].SpentCents {
			return out[i].SpentCents > out[j].SpentCents
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > topCategoryLimit {
		out = out[:topCategoryLimit]
	}
	return out
}

func monthlyTrends(total decimal.Decimal, orders int) []MonthlyTrendDTO {
	out := make([]MonthlyTrendDTO, 0, len(trendMultipliers))
	if orders == 0 {
		for _, m := range trendMultipliers {
			out = append(out, MonthlyTrendDTO{Month: m.Month})
		}
		return out
	}
	monthlyAvg := total.Div(decimal.NewFromInt(int64(len(trendMultipliers))))
	for _, m := range trendMultipliers {
		out = append(out, MonthlyTrendDTO{
			Month:      m.Month,
			SpentCents: monthlyAvg.Mul(m.Multiplier).Round(0).IntPart(),
		})
	}
	return out
}
