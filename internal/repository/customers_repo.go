package repository

import (
	"context"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// CustomersRepo customer row persistence, scoped by shop domain.
type CustomersRepo interface {
	// UpsertBatch writes the batch with one conflict-aware statement and
	// reports how many rows were new versus overwritten.
	UpsertBatch(ctx context.Context, shopDomain string, customers []*domain.Customer) (inserted, updated int, err error)
}
