package domain

import "github.com/google/uuid"

// SalesTotal is the aggregate revenue and order count for a period
type SalesTotal struct {
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// StatusCount is the number of orders in one status
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// PeriodSales is revenue and order count bucketed by calendar period,
// keyed by an ISO date ("2006-01-02") or year-month ("2006-01") string
type PeriodSales struct {
	Period string  `json:"period"`
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
}

// ProductSales is the aggregate performance of one product across orders
type ProductSales struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	TotalQuantity int       `json:"total_quantity"`
	TotalRevenue  float64   `json:"total_revenue"`
}

// StatsReport is the combined sales report returned to admins
type StatsReport struct {
	TotalSales     SalesTotal     `json:"total_sales"`
	OrdersByStatus []StatusCount  `json:"orders_by_status"`
	DailySales     []PeriodSales  `json:"daily_sales"`
	MonthlySales   []PeriodSales  `json:"monthly_sales"`
	TopProducts    []ProductSales `json:"top_products"`
}
