package domain

import "github.com/shopspring/decimal"

// DashboardStats keeps the field names the dashboard client already reads.
type DashboardStats struct {
	ActiveRentals int `json:"activeRentals"`
	// MonthlyRevenue sums total_amount over every active rental. There is no
	// calendar-month window; the name is historical.
	MonthlyRevenue  decimal.Decimal `json:"monthlyRevenue"`
	ProductsInStock int64           `json:"productsInStock"`
	LowStockItems   int             `json:"lowStockItems"`
}
