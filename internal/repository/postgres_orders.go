package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// PostgresOrdersRepo OrdersRepo implementation over lib/pq.
type PostgresOrdersRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresOrdersRepo(db *sql.DB, logger *zap.Logger) *PostgresOrdersRepo {
	return &PostgresOrdersRepo{db: db, logger: logger}
}

var _ OrdersRepo = (*PostgresOrdersRepo)(nil)

var ordersSchema = entitySchema{
	table:     "orders",
	keyColumn: "order_id",
	columns: []string{
		"shop_domain", "order_id", "order_number", "customer_id", "currency",
		"total_price", "financial_status", "fulfillment_status",
		"created_at", "updated_at", "raw",
	},
}

// UpsertBatch writes the batch keyed on (shop_domain, order_id). The raw
// upstream node is stored verbatim in the raw JSONB column.
func (r *PostgresOrdersRepo) UpsertBatch(ctx context.Context, shopDomain string, orders []*domain.Order) (int, int, error) {
	rows := make([]upsertRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, upsertRow{
			key: o.OrderID,
			values: []any{
				shopDomain, o.OrderID, o.OrderNumber, o.CustomerID, o.Currency,
				o.TotalPrice, o.FinancialStatus, o.FulfillmentStatus,
				o.CreatedAt, o.UpdatedAt, []byte(o.Raw),
			},
		})
	}
	return bulkUpsert(ctx, r.db, ordersSchema, shopDomain, rows, r.logger)
}
