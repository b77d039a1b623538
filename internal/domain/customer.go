package domain

import "time"

// Customer one Shopify customer row, scoped to a shop.
// Unique on (shop_domain, customer_id).
type Customer struct {
	ShopDomain string
	CustomerID int64
	Email      *string
	FirstName  *string
	LastName   *string
	Phone      *string
	CreatedAt  time.Time
}
