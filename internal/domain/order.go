package domain

import (
	"encoding/json"
	"time"
)

// Order one Shopify order row, scoped to a shop.
// Unique on (shop_domain, order_id). Raw keeps the upstream GraphQL node
// verbatim so fields can be re-derived later without re-fetching.
type Order struct {
	ShopDomain        string
	OrderID           int64
	OrderNumber       *int64
	CustomerID        *int64
	Currency          *string
	TotalPrice        *float64
	FinancialStatus   *string
	FulfillmentStatus *string
	CreatedAt         *time.Time
	UpdatedAt         *time.Time
	Raw               json.RawMessage
}
