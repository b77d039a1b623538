package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/service"
)

// DashboardHandler dashboard aggregation endpoints.
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// Metrics handles GET /api/dashboard/metrics.
func (h *DashboardHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	shopDomain, err := resolveDashboardShop(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.dashboardService.Metrics(r.Context(), shopDomain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// OrdersByDate handles GET /api/dashboard/orders-by-date.
func (h *DashboardHandler) OrdersByDate(w http.ResponseWriter, r *http.Request) {
	shopDomain, err := resolveDashboardShop(r)
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	resp, err := h.dashboardService.OrdersByDate(r.Context(), shopDomain, q.Get("start_date"), q.Get("end_date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TopCustomers handles GET /api/dashboard/top-customers.
func (h *DashboardHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	shopDomain, err := resolveDashboardShop(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 5)
	resp, err := h.dashboardService.TopCustomers(r.Context(), shopDomain, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Analytics handles GET /api/dashboard/analytics.
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	shopDomain, err := resolveDashboardShop(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.dashboardService.Analytics(r.Context(), shopDomain)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExportOrders handles GET /api/dashboard/export/orders, streaming an xlsx
// workbook of the shop's orders.
func (h *DashboardHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	shopDomain, err := resolveDashboardShop(r)
	if err != nil {
		writeError(w, err)
		return
	}
	rows, err := h.dashboardService.ExportOrders(r.Context(), shopDomain)
	if err != nil {
		writeError(w, err)
		return
	}

	workbook, err := GenerateOrdersExport(rows)
	if err != nil {
		h.logger.Error("failed to build orders export", zap.String("shop_domain", shopDomain), zap.Error(err))
		writeError(w, err)
		return
	}

	filename := fmt.Sprintf("orders_%s_%s.xlsx", shopDomain, time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(workbook)
}
