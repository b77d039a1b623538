package repository

import (
	"context"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// OrdersRepo order row persistence, scoped by shop domain.
type OrdersRepo interface {
	UpsertBatch(ctx context.Context, shopDomain string, orders []*domain.Order) (inserted, updated int, err error)
}
