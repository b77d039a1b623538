package repository

import (
	"context"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// ProductsRepo product row persistence, scoped by shop domain.
type ProductsRepo interface {
	UpsertBatch(ctx context.Context, shopDomain string, products []*domain.Product) (inserted, updated int, err error)
}
