package repository

import (
	"context"
	"database/sql"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// PostgresProductsRepo ProductsRepo implementation over lib/pq.
type PostgresProductsRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresProductsRepo(db *sql.DB, logger *zap.Logger) *PostgresProductsRepo {
	return &PostgresProductsRepo{db: db, logger: logger}
}

var _ ProductsRepo = (*PostgresProductsRepo)(nil)

var productsSchema = entitySchema{
	table:     "products",
	keyColumn: "product_id",
	columns: []string{
		"shop_domain", "product_id", "title", "handle", "vendor",
		"product_type", "status", "tags", "created_at", "updated_at",
		"variant_count", "raw",
	},
}

// UpsertBatch writes the batch keyed on (shop_domain, product_id). Tags go
// into a text[] column, the raw upstream node into a JSONB column.
func (r *PostgresProductsRepo) UpsertBatch(ctx context.Context, shopDomain string, products []*domain.Product) (int, int, error) {
	rows := make([]upsertRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, upsertRow{
			key: p.ProductID,
			values: []any{
				shopDomain, p.ProductID, p.Title, p.Handle, p.Vendor,
				p.ProductType, p.Status, pq.Array(p.Tags), p.CreatedAt, p.UpdatedAt,
				p.VariantCount, []byte(p.Raw),
			},
		})
	}
	return bulkUpsert(ctx, r.db, productsSchema, shopDomain, rows, r.logger)
}
