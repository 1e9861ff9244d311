package model

import "github.com/shopspring/decimal"

// ProductSales aggregates how much of one product has been invoiced.
type ProductSales struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TotalSold int             `json:"totalSold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// DashboardStats is the summary shown on the dashboard.
type DashboardStats struct {
	TotalProducts int             `json:"totalProducts"`
	TotalInvoices int             `json:"totalInvoices"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TopProducts   []ProductSales  `json:"topProducts"`
	LowStock      []Product       `json:"lowStock"`
}
