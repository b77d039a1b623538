package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (avoids a third-party
// routing dependency).
type Router struct {
	mux        *http.ServeMux
	corsOrigin string
	logger     *zap.Logger
}

func NewRouter(corsOrigin string, logger *zap.Logger) *Router {
	return &Router{
		mux:        http.NewServeMux(),
		corsOrigin: corsOrigin,
		logger:     logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if r.corsOrigin != "" {
		w.Header().Set("Access-Control-Allow-Origin", r.corsOrigin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Shop-Domain, X-Shopify-Access-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if req.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	r.mux.ServeHTTP(w, req)
}

// RegisterHealthRoute registers /health (no tenant required).
func (r *Router) RegisterHealthRoute() {
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// RegisterIngestRoutes registers the Shopify ingestion endpoints.
func (r *Router) RegisterIngestRoutes(h *IngestHandler) {
	r.Handle("/ingest/shopify/customers", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.IngestCustomers(w, req)
	})

	r.Handle("/ingest/shopify/orders", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.IngestOrders(w, req)
	})

	// order/{id} (numeric id or full gid)
	r.Handle("/ingest/shopify/order/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/ingest/shopify/order/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.IngestSingleOrder(w, req, id)
	})

	r.Handle("/ingest/shopify/products", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.IngestProducts(w, req)
	})

	r.Handle("/ingest/shopify/product/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(req.URL.Path, "/ingest/shopify/product/")
		if id == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h.IngestSingleProduct(w, req, id)
	})
}

// RegisterDashboardRoutes registers the dashboard aggregation endpoints.
func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	get := func(handler http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, req *http.Request) {
			if req.Method != http.MethodGet {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			handler(w, req)
		}
	}

	r.Handle("/api/dashboard/metrics", get(h.Metrics))
	r.Handle("/api/dashboard/orders-by-date", get(h.OrdersByDate))
	r.Handle("/api/dashboard/top-customers", get(h.TopCustomers))
	r.Handle("/api/dashboard/analytics", get(h.Analytics))
	r.Handle("/api/dashboard/export/orders", get(h.ExportOrders))
}
