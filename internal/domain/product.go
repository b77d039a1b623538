package domain

import (
	"encoding/json"
	"time"
)

// Product one Shopify product row, scoped to a shop.
// Unique on (shop_domain, product_id).
type Product struct {
	ShopDomain   string
	ProductID    int64
	Title        *string
	Handle       *string
	Vendor       *string
	ProductType  *string
	Status       *string
	Tags         []string
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
	VariantCount int
	Raw          json.RawMessage
}
