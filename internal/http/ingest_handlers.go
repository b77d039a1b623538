package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/service"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/shopify"
)

const maxIngestBodyBytes = 2 << 20 // 2MB, matching the JSON body limit of the API

// IngestHandler Shopify ingestion endpoints.
type IngestHandler struct {
	ingestService service.IngestService
	fallbackToken string
	logger        *zap.Logger
}

// NewIngestHandler creates an IngestHandler. fallbackToken is the
// process-wide access token used when a request carries none.
func NewIngestHandler(ingestService service.IngestService, fallbackToken string, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		fallbackToken: fallbackToken,
		logger:        logger,
	}
}

// customersPayload body of POST /ingest/shopify/customers. A bare JSON array
// of customers is accepted as well.
type customersPayload struct {
	ShopDomain string                 `json:"shop_domain"`
	Customers  []shopify.RestCustomer `json:"customers"`
}

// IngestCustomers handles POST /ingest/shopify/customers.
func (h *IngestHandler) IngestCustomers(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r, maxIngestBodyBytes)
	if err != nil {
		writeError(w, err)
		return
	}

	var payload customersPayload
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 {
		if bytes.HasPrefix(trimmed, []byte("[")) {
			// bare array form
			err = json.Unmarshal(trimmed, &payload.Customers)
		} else {
			err = json.Unmarshal(trimmed, &payload)
		}
		if err != nil {
			writeError(w, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrValidation, err))
			return
		}
	}

	tenant, err := resolveTenant(r, payload.ShopDomain, h.fallbackToken)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	result, err := h.ingestService.IngestCustomers(r.Context(), service.IngestCustomersRequest{
		ShopDomain:  tenant.ShopDomain,
		AccessToken: tenant.AccessToken,
		Limit:       parseInt(q.Get("limit"), shopify.DefaultPageLimit),
		MaxPages:    parseInt(q.Get("max_pages"), shopify.DefaultMaxPages),
		Customers:   payload.Customers,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// IngestOrders handles POST /ingest/shopify/orders.
func (h *IngestHandler) IngestOrders(w http.ResponseWriter, r *http.Request) {
	tenant, err := resolveTenant(r, "", h.fallbackToken)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	result, err := h.ingestService.IngestOrders(r.Context(), service.IngestOrdersRequest{
		ShopDomain:  tenant.ShopDomain,
		AccessToken: tenant.AccessToken,
		First:       parseInt(q.Get("first"), 10),
		Pages:       parseInt(q.Get("pages"), 1),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// IngestSingleOrder handles POST /ingest/shopify/order/{id}.
func (h *IngestHandler) IngestSingleOrder(w http.ResponseWriter, r *http.Request, id string) {
	tenant, err := resolveTenant(r, "", h.fallbackToken)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.ingestService.IngestOrder(r.Context(), service.IngestSingleRequest{
		ShopDomain:  tenant.ShopDomain,
		AccessToken: tenant.AccessToken,
		ID:          id,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// IngestProducts handles POST /ingest/shopify/products.
func (h *IngestHandler) IngestProducts(w http.ResponseWriter, r *http.Request) {
	tenant, err := resolveTenant(r, "", h.fallbackToken)
	if err != nil {
		writeError(w, err)
		return
	}

	q := r.URL.Query()
	result, err := h.ingestService.IngestProducts(r.Context(), service.IngestProductsRequest{
		ShopDomain:  tenant.ShopDomain,
		AccessToken: tenant.AccessToken,
		First:       parseInt(q.Get("first"), 10),
		Pages:       parseInt(q.Get("pages"), 1),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// IngestSingleProduct handles POST /ingest/shopify/product/{id}.
func (h *IngestHandler) IngestSingleProduct(w http.ResponseWriter, r *http.Request, id string) {
	tenant, err := resolveTenant(r, "", h.fallbackToken)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := h.ingestService.IngestProduct(r.Context(), service.IngestSingleRequest{
		ShopDomain:      tenant.ShopDomain,
		AccessToken:     tenant.AccessToken,
		ID:              id,
		MetafieldsFirst: parseInt(r.URL.Query().Get("metafields"), shopify.DefaultMetafieldsFirst),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
