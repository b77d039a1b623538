package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

const (
	// DefaultPageLimit REST page size for customers.json
	DefaultPageLimit = 250
	// DefaultMaxPages conservative governor for bulk fetches; callers doing a
	// full backfill must raise this explicitly.
	DefaultMaxPages = 1
	// DefaultMetafieldsFirst metafield page size on single-product fetches
	DefaultMetafieldsFirst = 10
)

// Client Shopify Admin API client. One client serves every shop; the shop
// domain and access token are parameters of each call, so the client is safe
// for concurrent use.
type Client struct {
	httpClient *resty.Client
	apiVersion string
	logger     *zap.Logger
}

// NewClient creates a Shopify Admin API client.
func NewClient(apiVersion string, logger *zap.Logger) *Client {
	client := resty.New().
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		httpClient: client,
		apiVersion: apiVersion,
		logger:     logger,
	}
}

// SetBaseURL overrides the https://<shop> scheme/host, for tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.httpClient.SetBaseURL(baseURL)
}

func (c *Client) adminURL(shopDomain, resource string) string {
	if c.httpClient.BaseURL != "" {
		return fmt.Sprintf("/admin/api/%s/%s", c.apiVersion, resource)
	}
	return fmt.Sprintf("https://%s/admin/api/%s/%s", shopDomain, c.apiVersion, resource)
}

// customersEnvelope customers.json response body
type customersEnvelope struct {
	Customers []RestCustomer `json:"customers"`
}

// FetchCustomers retrieves customers via the REST API, following the Link
// header cursor until no rel="next" remains or maxPages is reached. Records
// are returned in upstream order, concatenated across pages.
func (c *Client) FetchCustomers(ctx context.Context, shopDomain, accessToken string, limit, maxPages int) ([]RestCustomer, error) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}

	collected := make([]RestCustomer, 0, limit)
	pageInfo := ""
	for page := 0; page < maxPages; page++ {
		req := c.httpClient.R().
			SetContext(ctx).
			SetHeader("X-Shopify-Access-Token", accessToken).
			SetQueryParam("limit", fmt.Sprintf("%d", limit))
		if pageInfo != "" {
			req.SetQueryParam("page_info", pageInfo)
		}

		var envelope customersEnvelope
		resp, err := req.SetResult(&envelope).Get(c.adminURL(shopDomain, "customers.json"))
		if err != nil {
			return nil, fmt.Errorf("%w: shopify customers fetch: %v", domain.ErrUpstream, err)
		}
		if resp.IsError() {
			return nil, fmt.Errorf("%w: shopify customers fetch failed %d: %s", domain.ErrUpstream, resp.StatusCode(), resp.String())
		}

		collected = append(collected, envelope.Customers...)

		next := nextPageInfo(resp.Header().Get("Link"))
		if next == "" {
			break
		}
		pageInfo = next
	}

	c.logger.Info("fetched shopify customers",
		zap.String("shop_domain", shopDomain),
		zap.Int("count", len(collected)),
	)
	return collected, nil
}

// VerifyToken calls shop.json to confirm the access token is accepted.
// Any non-success response is an auth failure.
func (c *Client) VerifyToken(ctx context.Context, shopDomain, accessToken string) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", accessToken).
		Get(c.adminURL(shopDomain, "shop.json"))
	if err != nil {
		return fmt.Errorf("%w: shopify token check: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%w: rejected by upstream (HTTP %d)", domain.ErrAuth, resp.StatusCode())
	}
	return nil
}

// graphQLRequest graphql.json request body
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// graphQLResponse graphql.json response body
type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors json.RawMessage `json:"errors"`
}

// postGraphQL issues one GraphQL call and surfaces both transport failures and
// protocol-level error payloads as upstream errors.
func (c *Client) postGraphQL(ctx context.Context, shopDomain, accessToken, query string, variables map[string]any) (json.RawMessage, error) {
	var gql graphQLResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetBody(graphQLRequest{Query: query, Variables: variables}).
		SetResult(&gql).
		Post(c.adminURL(shopDomain, "graphql.json"))
	if err != nil {
		return nil, fmt.Errorf("%w: shopify graphql: %v", domain.ErrUpstream, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: shopify GraphQL HTTP %d: %s", domain.ErrUpstream, resp.StatusCode(), resp.String())
	}
	if len(gql.Errors) > 0 && string(gql.Errors) != "null" {
		return nil, fmt.Errorf("%w: shopify GraphQL errors: %s", domain.ErrUpstream, string(gql.Errors))
	}
	return gql.Data, nil
}

// graphPageInfo cursor state extracted from a connection
type graphPageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// graphConnection edges/pageInfo shape shared by orders and products
type graphConnection struct {
	Edges []struct {
		Node json.RawMessage `json:"node"`
	} `json:"edges"`
	PageInfo graphPageInfo `json:"pageInfo"`
}

// fetchConnection pages through one GraphQL connection field ("orders" or
// "products"), collecting raw nodes until hasNextPage=false or the page cap.
func (c *Client) fetchConnection(ctx context.Context, shopDomain, accessToken, query, field string, first, pages int) ([]json.RawMessage, error) {
	if first <= 0 {
		first = 10
	}
	if pages <= 0 {
		pages = 1
	}

	var collected []json.RawMessage
	var cursor *string
	for p := 0; p < pages; p++ {
		variables := map[string]any{"first": first}
		if cursor != nil {
			variables["after"] = *cursor
		}

		data, err := c.postGraphQL(ctx, shopDomain, accessToken, query, variables)
		if err != nil {
			return nil, err
		}

		var payload map[string]graphConnection
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, fmt.Errorf("%w: shopify GraphQL decode: %v", domain.ErrUpstream, err)
		}
		conn := payload[field]
		for _, edge := range conn.Edges {
			collected = append(collected, edge.Node)
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		end := conn.PageInfo.EndCursor
		cursor = &end
	}

	c.logger.Info("fetched shopify records",
		zap.String("shop_domain", shopDomain),
		zap.String("entity", field),
		zap.Int("count", len(collected)),
	)
	return collected, nil
}

// FetchOrders retrieves up to pages*first order nodes via GraphQL.
func (c *Client) FetchOrders(ctx context.Context, shopDomain, accessToken string, first, pages int) ([]json.RawMessage, error) {
	return c.fetchConnection(ctx, shopDomain, accessToken, ordersQuery, "orders", first, pages)
}

// FetchProducts retrieves up to pages*first product nodes via GraphQL.
func (c *Client) FetchProducts(ctx context.Context, shopDomain, accessToken string, first, pages int) ([]json.RawMessage, error) {
	return c.fetchConnection(ctx, shopDomain, accessToken, productsQuery, "products", first, pages)
}

// fetchSingle fetches one node by gid; a null node returns (nil, nil) and the
// caller decides how to report the absence.
func (c *Client) fetchSingle(ctx context.Context, shopDomain, accessToken, query, field string, variables map[string]any) (json.RawMessage, error) {
	data, err := c.postGraphQL(ctx, shopDomain, accessToken, query, variables)
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: shopify GraphQL decode: %v", domain.ErrUpstream, err)
	}
	node := payload[field]
	if len(node) == 0 || string(node) == "null" {
		return nil, nil
	}
	return node, nil
}

// FetchOrder fetches one order node by fully-qualified gid.
func (c *Client) FetchOrder(ctx context.Context, shopDomain, accessToken, gid string) (json.RawMessage, error) {
	return c.fetchSingle(ctx, shopDomain, accessToken, singleOrderQuery, "order", map[string]any{"id": gid})
}

// FetchProduct fetches one product node by gid, with metafieldsFirst
// metafields attached (default 10).
func (c *Client) FetchProduct(ctx context.Context, shopDomain, accessToken, gid string, metafieldsFirst int) (json.RawMessage, error) {
	if metafieldsFirst <= 0 {
		metafieldsFirst = DefaultMetafieldsFirst
	}
	return c.fetchSingle(ctx, shopDomain, accessToken, singleProductQuery, "product", map[string]any{
		"id":         gid,
		"metafields": metafieldsFirst,
	})
}
