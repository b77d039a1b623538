package shopify

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

// Normalizers map raw Shopify records to row models. They perform no I/O and
// never fail on optional data: anything malformed degrades to nil so storage
// can distinguish "unknown" from "empty". The only hard failure is a missing
// or non-numeric natural key, which is a caller error.

// RestCustomer shape of one customers.json record (also accepted verbatim in
// ingest request payloads).
type RestCustomer struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

// orderNode fields consumed from an orders GraphQL node
type orderNode struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	CreatedAt            string `json:"createdAt"`
	UpdatedAt            string `json:"updatedAt"`
	CurrencyCode         string `json:"currencyCode"`
	CurrentTotalPriceSet *struct {
		ShopMoney struct {
			Amount       string `json:"amount"`
			CurrencyCode string `json:"currencyCode"`
		} `json:"shopMoney"`
	} `json:"currentTotalPriceSet"`
	Customer *struct {
		ID string `json:"id"`
	} `json:"customer"`
	DisplayFinancialStatus   string `json:"displayFinancialStatus"`
	DisplayFulfillmentStatus string `json:"displayFulfillmentStatus"`
}

// productNode fields consumed from a products GraphQL node
type productNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"productType"`
	Status      string   `json:"status"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
	Variants    struct {
		Edges []struct {
			Node struct {
				ID string `json:"id"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
}

var digitsRe = regexp.MustCompile(`\d+`)

// GIDNumber reduces a composite identifier like "gid://shopify/Order/55" to
// its trailing numeric component. A bare numeric string passes through.
func GIDNumber(gid string) (int64, error) {
	trailing := gid
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		trailing = gid[i+1:]
	}
	n, err := strconv.ParseInt(trailing, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid shopify gid %q", gid)
	}
	return n, nil
}

// OrderGID qualifies a bare numeric order id; a full gid passes through.
func OrderGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/Order/" + id
}

// ProductGID qualifies a bare numeric product id; a full gid passes through.
func ProductGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/Product/" + id
}

// NormalizeCustomer maps one REST customer record to a row.
// created_at defaults to now when the upstream record omits it.
func NormalizeCustomer(raw RestCustomer, shopDomain string) *domain.Customer {
	createdAt := time.Now().UTC()
	if t := parseTime(raw.CreatedAt); t != nil {
		createdAt = *t
	}
	return &domain.Customer{
		ShopDomain: shopDomain,
		CustomerID: raw.ID,
		Email:      optional(raw.Email),
		FirstName:  optional(raw.FirstName),
		LastName:   optional(raw.LastName),
		Phone:      optional(raw.Phone),
		CreatedAt:  createdAt,
	}
}

// NormalizeOrder maps one GraphQL order node to a row, retaining the node
// verbatim in Raw.
func NormalizeOrder(raw json.RawMessage, shopDomain string) (*domain.Order, error) {
	var node orderNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("invalid order node: %w", err)
	}
	orderID, err := GIDNumber(node.ID)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		ShopDomain:        shopDomain,
		OrderID:           orderID,
		Currency:          optional(node.CurrencyCode),
		FinancialStatus:   optional(node.DisplayFinancialStatus),
		FulfillmentStatus: optional(node.DisplayFulfillmentStatus),
		CreatedAt:         parseTime(node.CreatedAt),
		UpdatedAt:         parseTime(node.UpdatedAt),
		Raw:               raw,
	}

	if node.Customer != nil {
		if customerID, err := GIDNumber(node.Customer.ID); err == nil {
			order.CustomerID = &customerID
		}
	}
	if node.CurrentTotalPriceSet != nil {
		order.TotalPrice = parseAmount(node.CurrentTotalPriceSet.ShopMoney.Amount)
	}
	// Shopify names orders like "#1234"; recover the numeric order number.
	if m := digitsRe.FindString(node.Name); m != "" {
		if n, err := strconv.ParseInt(m, 10, 64); err == nil {
			order.OrderNumber = &n
		}
	}

	return order, nil
}

// NormalizeProduct maps one GraphQL product node to a row, reducing the
// variant sub-collection to a count and retaining the node verbatim in Raw.
func NormalizeProduct(raw json.RawMessage, shopDomain string) (*domain.Product, error) {
	var node productNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("invalid product node: %w", err)
	}
	productID, err := GIDNumber(node.ID)
	if err != nil {
		return nil, err
	}

	tags := node.Tags
	if tags == nil {
		tags = []string{}
	}

	return &domain.Product{
		ShopDomain:   shopDomain,
		ProductID:    productID,
		Title:        optional(node.Title),
		Handle:       optional(node.Handle),
		Vendor:       optional(node.Vendor),
		ProductType:  optional(node.ProductType),
		Status:       optional(node.Status),
		Tags:         tags,
		CreatedAt:    parseTime(node.CreatedAt),
		UpdatedAt:    parseTime(node.UpdatedAt),
		VariantCount: len(node.Variants.Edges),
		Raw:          raw,
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseAmount(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}
