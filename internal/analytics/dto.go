package analytics

// DashboardStatsDTO is the headline card on the buyer dashboard.
type DashboardStatsDTO struct {
	TotalOrders     int   `json:"total_orders"`
	TotalSpentCents int64 `json:"total_spent_cents"`
	PendingOrders   int   `json:"pending_orders"`
}

// SummaryDTO is the full analytics view for one buyer.
type SummaryDTO struct {
	TotalSpentCents    int64              `json:"total_spent_cents"`
	OrdersCount        int                `json:"orders_count"`
	AvgOrderValueCents int64              `json:"avg_order_value_cents"`
	TopCategories      []CategorySpendDTO `json:"top_categories"`
	MonthlyTrends      []MonthlyTrendDTO  `json:"monthly_trends"`
	SavingsCents       int64              `json:"savings_cents"`
}

// CategorySpendDTO ranks one category by total spend.
type CategorySpendDTO struct {
	Category   string `json:"category"`
	SpentCents int64  `json:"spent_cents"`
}

// MonthlyTrendDTO is one point on the six-month spend curve.
type MonthlyTrendDTO struct {
	Month      string `json:"month"`
	SpentCents int64  `json:"spent_cents"`
}
