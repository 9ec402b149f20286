package models

type MonthlyTotal struct {
	Month string  `json:"month" validate:"required"`
	Total float64 `json:"total"`
}

// DashboardStats summarises the current user's spending.
type DashboardStats struct {
	TotalMonth     float64            `json:"total_month"`
	CategoryTotals map[string]float64 `json:"category_totals"`
	MonthlyTotals  []MonthlyTotal     `json:"monthly_totals" validate:"dive"`
	TotalExpenses  int                `json:"total_expenses"`
}
