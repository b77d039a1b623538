package repository

import (
	"context"
	"database/sql"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// PostgresCustomersRepo CustomersRepo implementation over lib/pq.
type PostgresCustomersRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresCustomersRepo(db *sql.DB, logger *zap.Logger) *PostgresCustomersRepo {
	return &PostgresCustomersRepo{db: db, logger: logger}
}

var _ CustomersRepo = (*PostgresCustomersRepo)(nil)

var customersSchema = entitySchema{
	table:     "customers",
	keyColumn: "customer_id",
	columns: []string{
		"shop_domain", "customer_id", "email", "first_name", "last_name", "phone", "created_at",
	},
}

// UpsertBatch writes the batch keyed on (shop_domain, customer_id).
func (r *PostgresCustomersRepo) UpsertBatch(ctx context.Context, shopDomain string, customers []*domain.Customer) (int, int, error) {
	rows := make([]upsertRow, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, upsertRow{
			key: c.CustomerID,
			values: []any{
				shopDomain, c.CustomerID, c.Email, c.FirstName, c.LastName, c.Phone, c.CreatedAt,
			},
		})
	}
	return bulkUpsert(ctx, r.db, customersSchema, shopDomain, rows, r.logger)
}
