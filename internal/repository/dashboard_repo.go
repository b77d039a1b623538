package repository

import (
	"context"
	"time"
)

// DayStat per-day order count and revenue.
type DayStat struct {
	Date    string
	Orders  int
	Revenue float64
}

// MonthStat per-month revenue rollup.
type MonthStat struct {
	Month   string
	Revenue float64
	Orders  int
}

// CustomerSpend one customer's aggregated order spend.
type CustomerSpend struct {
	CustomerID int64
	FirstName  string
	LastName   string
	Email      string
	TotalSpent float64
	Orders     int
}

// ValueBucket order count within one price range.
type ValueBucket struct {
	Range string
	Count int
}

// AcquisitionStat new customers gained in one month.
type AcquisitionStat struct {
	Month        string
	NewCustomers int
}

// StatusStat order count for one derived fulfillment state.
type StatusStat struct {
	Name  string
	Count int
}

// OrderExportRow flattened order fields for the xlsx export.
type OrderExportRow struct {
	OrderID           int64
	OrderNumber       *int64
	CustomerID        *int64
	Currency          string
	TotalPrice        *float64
	FinancialStatus   string
	FulfillmentStatus string
	CreatedAt         *time.Time
}

// DashboardRepo aggregation queries over already-ingested rows, scoped by
// shop domain. All grouping and summing happens in SQL.
type DashboardRepo interface {
	CountCustomers(ctx context.Context, shopDomain string) (int, error)
	OrderTotals(ctx context.Context, shopDomain string) (orders int, revenue float64, err error)
	OrdersByDate(ctx context.Context, shopDomain string, start, end time.Time) ([]DayStat, error)
	TopCustomers(ctx context.Context, shopDomain string, limit int) ([]CustomerSpend, error)
	MonthlyRevenue(ctx context.Context, shopDomain string, since time.Time) ([]MonthStat, error)
	OrderValueBuckets(ctx context.Context, shopDomain string) ([]ValueBucket, error)
	CustomerAcquisition(ctx context.Context, shopDomain string, since time.Time) ([]AcquisitionStat, error)
	OrderStatusDistribution(ctx context.Context, shopDomain string) ([]StatusStat, error)
	ListOrdersForExport(ctx context.Context, shopDomain string) ([]OrderExportRow, error)
}
