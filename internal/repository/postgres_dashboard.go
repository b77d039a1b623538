package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresDashboardRepo DashboardRepo implementation over lib/pq.
type PostgresDashboardRepo struct {
	db *sql.DB
}

func NewPostgresDashboardRepo(db *sql.DB) *PostgresDashboardRepo {
	return &PostgresDashboardRepo{db: db}
}

var _ DashboardRepo = (*PostgresDashboardRepo)(nil)

func (r *PostgresDashboardRepo) CountCustomers(ctx context.Context, shopDomain string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customers WHERE shop_domain = $1`, shopDomain,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return count, nil
}

func (r *PostgresDashboardRepo) OrderTotals(ctx context.Context, shopDomain string) (int, float64, error) {
	var orders int
	var revenue float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders WHERE shop_domain = $1`,
		shopDomain,
	).Scan(&orders, &revenue)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total orders: %w", err)
	}
	return orders, revenue, nil
}

func (r *PostgresDashboardRepo) OrdersByDate(ctx context.Context, shopDomain string, start, end time.Time) ([]DayStat, error) {
	query := `
		SELECT to_char(created_at::date, 'YYYY-MM-DD') AS day,
		       COUNT(*),
		       COALESCE(SUM(total_price), 0)
		FROM orders
		WHERE shop_domain = $1
		  AND created_at >= $2
		  AND created_at <= $3
		GROUP BY day
		ORDER BY day
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by date: %w", err)
	}
	defer rows.Close()

	stats := make([]DayStat, 0)
	for rows.Next() {
		var s DayStat
		if err := rows.Scan(&s.Date, &s.Orders, &s.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan orders by date: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// TopCustomers aggregates every order of the shop in one grouped query
// instead of fetching orders once per customer.
func (r *PostgresDashboardRepo) TopCustomers(ctx context.Context, shopDomain string, limit int) ([]CustomerSpend, error) {
	if limit <= 0 {
		limit = 5
	}
	query := `
		SELECT o.customer_id,
		       COALESCE(c.first_name, ''),
		       COALESCE(c.last_name, ''),
		       COALESCE(c.email, ''),
		       SUM(o.total_price) AS total_spent,
		       COUNT(*)
		FROM orders o
		LEFT JOIN customers c
		  ON c.shop_domain = o.shop_domain AND c.customer_id = o.customer_id
		WHERE o.shop_domain = $1
		  AND o.customer_id IS NOT NULL
		  AND o.total_price IS NOT NULL
		GROUP BY o.customer_id, c.first_name, c.last_name, c.email
		HAVING SUM(o.total_price) > 0
		ORDER BY total_spent DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	spends := make([]CustomerSpend, 0, limit)
	for rows.Next() {
		var s CustomerSpend
		if err := rows.Scan(&s.CustomerID, &s.FirstName, &s.LastName, &s.Email, &s.TotalSpent, &s.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan top customers: %w", err)
		}
		spends = append(spends, s)
	}
	return spends, rows.Err()
}

func (r *PostgresDashboardRepo) MonthlyRevenue(ctx context.Context, shopDomain string, since time.Time) ([]MonthStat, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COALESCE(SUM(total_price), 0),
		       COUNT(*)
		FROM orders
		WHERE shop_domain = $1
		  AND created_at >= $2
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly revenue: %w", err)
	}
	defer rows.Close()

	stats := make([]MonthStat, 0)
	for rows.Next() {
		var s MonthStat
		if err := rows.Scan(&s.Month, &s.Revenue, &s.Orders); err != nil {
			return nil, fmt.Errorf("failed to scan monthly revenue: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// orderValueRanges dashboard distribution buckets, in display order
var orderValueRanges = []string{"$0-$25", "$25-$50", "$50-$100", "$100-$200", "$200+"}

func (r *PostgresDashboardRepo) OrderValueBuckets(ctx context.Context, shopDomain string) ([]ValueBucket, error) {
	query := `
		SELECT CASE
		         WHEN COALESCE(total_price, 0) <= 25 THEN '$0-$25'
		         WHEN total_price <= 50 THEN '$25-$50'
		         WHEN total_price <= 100 THEN '$50-$100'
		         WHEN total_price <= 200 THEN '$100-$200'
		         ELSE '$200+'
		       END AS price_range,
		       COUNT(*)
		FROM orders
		WHERE shop_domain = $1
		GROUP BY price_range
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to query order value buckets: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(orderValueRanges))
	for rows.Next() {
		var priceRange string
		var count int
		if err := rows.Scan(&priceRange, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order value buckets: %w", err)
		}
		counts[priceRange] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buckets := make([]ValueBucket, 0, len(orderValueRanges))
	for _, priceRange := range orderValueRanges {
		buckets = append(buckets, ValueBucket{Range: priceRange, Count: counts[priceRange]})
	}
	return buckets, nil
}

func (r *PostgresDashboardRepo) CustomerAcquisition(ctx context.Context, shopDomain string, since time.Time) ([]AcquisitionStat, error) {
	query := `
		SELECT to_char(created_at, 'YYYY-MM') AS month,
		       COUNT(*)
		FROM customers
		WHERE shop_domain = $1
		  AND created_at >= $2
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query customer acquisition: %w", err)
	}
	defer rows.Close()

	stats := make([]AcquisitionStat, 0)
	for rows.Next() {
		var s AcquisitionStat
		if err := rows.Scan(&s.Month, &s.NewCustomers); err != nil {
			return nil, fmt.Errorf("failed to scan customer acquisition: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// orderStatusNames derived states in display order
var orderStatusNames = []string{"Completed", "Processing", "Shipped", "Cancelled"}

// OrderStatusDistribution collapses financial + fulfillment status pairs into
// four display states. Paid-and-fulfilled is Completed, paid-and-shipped is
// Shipped, any other paid order is Processing, refunded or voided is
// Cancelled, and everything else counts as Processing.
func (r *PostgresDashboardRepo) OrderStatusDistribution(ctx context.Context, shopDomain string) ([]StatusStat, error) {
	query := `
		SELECT CASE
		         WHEN lower(COALESCE(financial_status, '')) = 'paid'
		          AND lower(COALESCE(fulfillment_status, '')) = 'fulfilled' THEN 'Completed'
		         WHEN lower(COALESCE(financial_status, '')) = 'paid'
		          AND lower(COALESCE(fulfillment_status, '')) = 'shipped' THEN 'Shipped'
		         WHEN lower(COALESCE(financial_status, '')) = 'paid' THEN 'Processing'
		         WHEN lower(COALESCE(financial_status, '')) IN ('refunded', 'voided') THEN 'Cancelled'
		         ELSE 'Processing'
		       END AS status,
		       COUNT(*)
		FROM orders
		WHERE shop_domain = $1
		GROUP BY status
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to query order status distribution: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int, len(orderStatusNames))
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan order status distribution: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]StatusStat, 0, len(orderStatusNames))
	for _, name := range orderStatusNames {
		stats = append(stats, StatusStat{Name: name, Count: counts[name]})
	}
	return stats, nil
}

func (r *PostgresDashboardRepo) ListOrdersForExport(ctx context.Context, shopDomain string) ([]OrderExportRow, error) {
	query := `
		SELECT order_id,
		       order_number,
		       customer_id,
		       COALESCE(currency, ''),
		       total_price,
		       COALESCE(financial_status, ''),
		       COALESCE(fulfillment_status, ''),
		       created_at
		FROM orders
		WHERE shop_domain = $1
		ORDER BY created_at DESC NULLS LAST, order_id
	`
	rows, err := r.db.QueryContext(ctx, query, shopDomain)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for export: %w", err)
	}
	defer rows.Close()

	exports := make([]OrderExportRow, 0)
	for rows.Next() {
		var e OrderExportRow
		if err := rows.Scan(&e.OrderID, &e.OrderNumber, &e.CustomerID, &e.Currency,
			&e.TotalPrice, &e.FinancialStatus, &e.FulfillmentStatus, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order export row: %w", err)
		}
		exports = append(exports, e)
	}
	return exports, rows.Err()
}
