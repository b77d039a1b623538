package shopify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGIDNumber(t *testing.T) {
	n, err := GIDNumber("gid://shopify/Order/55")
	require.NoError(t, err)
	assert.Equal(t, int64(55), n)

	n, err = GIDNumber("12345")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n)

	_, err = GIDNumber("gid://shopify/Order/not-a-number")
	assert.Error(t, err)
}

func TestOrderGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Order/55", OrderGID("55"))
	assert.Equal(t, "gid://shopify/Order/55", OrderGID("gid://shopify/Order/55"))
	assert.Equal(t, "gid://shopify/Product/9", ProductGID("9"))
}

func TestNormalizeOrder_FullRecord(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "gid://x/Order/55",
		"name": "#55",
		"createdAt": "2024-05-01T10:00:00Z",
		"updatedAt": "2024-05-02T11:30:00Z",
		"currencyCode": "USD",
		"currentTotalPriceSet": {"shopMoney": {"amount": "19.99", "currencyCode": "USD"}},
		"customer": {"id": "gid://shopify/Customer/77"},
		"displayFinancialStatus": "PAID",
		"displayFulfillmentStatus": "UNFULFILLED"
	}`)

	order, err := NormalizeOrder(raw, "shop-a.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, "shop-a.myshopify.com", order.ShopDomain)
	assert.Equal(t, int64(55), order.OrderID)
	require.NotNil(t, order.OrderNumber)
	assert.Equal(t, int64(55), *order.OrderNumber)
	require.NotNil(t, order.CustomerID)
	assert.Equal(t, int64(77), *order.CustomerID)
	require.NotNil(t, order.TotalPrice)
	assert.Equal(t, 19.99, *order.TotalPrice)
	require.NotNil(t, order.FinancialStatus)
	assert.Equal(t, "PAID", *order.FinancialStatus)
	require.NotNil(t, order.FulfillmentStatus)
	assert.Equal(t, "UNFULFILLED", *order.FulfillmentStatus)
	require.NotNil(t, order.CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), order.CreatedAt.UTC())
	assert.JSONEq(t, string(raw), string(order.Raw))
}

func TestNormalizeOrder_OptionalFieldsDegradeToNil(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "gid://shopify/Order/9",
		"name": "draft order",
		"currentTotalPriceSet": {"shopMoney": {"amount": "not-a-number"}},
		"createdAt": "garbage"
	}`)

	order, err := NormalizeOrder(raw, "shop-a.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, int64(9), order.OrderID)
	assert.Nil(t, order.OrderNumber, "name without digits yields no order number")
	assert.Nil(t, order.TotalPrice, "unparseable amount yields no value")
	assert.Nil(t, order.CreatedAt)
	assert.Nil(t, order.Currency)
	assert.Nil(t, order.CustomerID)
}

func TestNormalizeOrder_MissingNaturalKey(t *testing.T) {
	_, err := NormalizeOrder(json.RawMessage(`{"name": "#3"}`), "shop-a.myshopify.com")
	assert.Error(t, err)
}

func TestNormalizeOrder_Deterministic(t *testing.T) {
	raw := json.RawMessage(`{"id": "gid://x/Order/55", "name": "#55", "currencyCode": "EUR"}`)

	first, err := NormalizeOrder(raw, "shop-a.myshopify.com")
	require.NoError(t, err)
	second, err := NormalizeOrder(raw, "shop-a.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestNormalizeCustomer(t *testing.T) {
	customer := NormalizeCustomer(RestCustomer{
		ID:        101,
		Email:     "a@example.com",
		FirstName: "Ada",
		CreatedAt: "2023-01-15T08:00:00Z",
	}, "shop-a.myshopify.com")

	assert.Equal(t, int64(101), customer.CustomerID)
	require.NotNil(t, customer.Email)
	assert.Equal(t, "a@example.com", *customer.Email)
	require.NotNil(t, customer.FirstName)
	assert.Equal(t, "Ada", *customer.FirstName)
	assert.Nil(t, customer.LastName, "absent optional maps to nil, not empty string")
	assert.Nil(t, customer.Phone)
	assert.Equal(t, time.Date(2023, 1, 15, 8, 0, 0, 0, time.UTC), customer.CreatedAt.UTC())
}

func TestNormalizeCustomer_MissingCreatedAtDefaultsToNow(t *testing.T) {
	before := time.Now().UTC()
	customer := NormalizeCustomer(RestCustomer{ID: 5}, "shop-a.myshopify.com")
	after := time.Now().UTC()

	assert.False(t, customer.CreatedAt.Before(before))
	assert.False(t, customer.CreatedAt.After(after))
}

func TestNormalizeProduct(t *testing.T) {
	raw := json.RawMessage(`{
		"id": "gid://shopify/Product/200",
		"title": "Widget",
		"handle": "widget",
		"vendor": "Acme",
		"productType": "Tools",
		"status": "ACTIVE",
		"tags": ["sale", "new"],
		"createdAt": "2024-02-01T00:00:00Z",
		"variants": {"edges": [{"node": {"id": "gid://shopify/ProductVariant/1"}}, {"node": {"id": "gid://shopify/ProductVariant/2"}}]}
	}`)

	product, err := NormalizeProduct(raw, "shop-a.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, int64(200), product.ProductID)
	require.NotNil(t, product.Title)
	assert.Equal(t, "Widget", *product.Title)
	assert.Equal(t, []string{"sale", "new"}, product.Tags)
	assert.Equal(t, 2, product.VariantCount)
	assert.JSONEq(t, string(raw), string(product.Raw))
}

func TestNormalizeProduct_EmptyCollections(t *testing.T) {
	product, err := NormalizeProduct(json.RawMessage(`{"id": "gid://shopify/Product/7"}`), "shop-a.myshopify.com")
	require.NoError(t, err)

	assert.Equal(t, []string{}, product.Tags)
	assert.Equal(t, 0, product.VariantCount)
	assert.Nil(t, product.Title)
	assert.Nil(t, product.Status)
}
