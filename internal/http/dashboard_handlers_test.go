package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/repository"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/service"
)

// fakeDashboardService canned responses with the last-seen arguments.
type fakeDashboardService struct {
	metrics    *service.MetricsResponse
	points     []service.OrdersByDatePoint
	top        []service.TopCustomer
	analytics  *service.AnalyticsResponse
	exportRows []repository.OrderExportRow
	err        error

	lastShop  string
	lastLimit int
	lastDates [2]string
}

func (f *fakeDashboardService) Metrics(_ context.Context, shopDomain string) (*service.MetricsResponse, error) {
	f.lastShop = shopDomain
	return f.metrics, f.err
}

func (f *fakeDashboardService) OrdersByDate(_ context.Context, shopDomain, start, end string) ([]service.OrdersByDatePoint, error) {
	f.lastShop = shopDomain
	f.lastDates = [2]string{start, end}
	return f.points, f.err
}

func (f *fakeDashboardService) TopCustomers(_ context.Context, shopDomain string, limit int) ([]service.TopCustomer, error) {
	f.lastShop = shopDomain
	f.lastLimit = limit
	return f.top, f.err
}

func (f *fakeDashboardService) Analytics(_ context.Context, shopDomain string) (*service.AnalyticsResponse, error) {
	f.lastShop = shopDomain
	return f.analytics, f.err
}

func (f *fakeDashboardService) ExportOrders(_ context.Context, shopDomain string) ([]repository.OrderExportRow, error) {
	f.lastShop = shopDomain
	return f.exportRows, f.err
}

func newDashboardRouter(svc service.DashboardService) *Router {
	router := NewRouter("http://localhost:5173", zap.NewNop())
	router.RegisterDashboardRoutes(NewDashboardHandler(svc, zap.NewNop()))
	return router
}

func TestDashboardMetrics(t *testing.T) {
	svc := &fakeDashboardService{
		metrics: &service.MetricsResponse{TotalCustomers: 10, TotalOrders: 20, TotalRevenue: 300.5, RevenueGrowth: 12.5},
	}
	router := newDashboardRouter(svc)

	r := httptest.NewRequest("GET", "/api/dashboard/metrics?shop_domain=a.myshopify.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastShop != "a.myshopify.com" {
		t.Fatalf("shop = %q", svc.lastShop)
	}
	// frontend-facing field names are camelCase
	body := w.Body.String()
	for _, field := range []string{"totalCustomers", "totalOrders", "totalRevenue", "revenueGrowth"} {
		if !strings.Contains(body, field) {
			t.Fatalf("response missing %q: %s", field, body)
		}
	}
}

func TestDashboardMetrics_MissingShopIs400(t *testing.T) {
	router := newDashboardRouter(&fakeDashboardService{})

	r := httptest.NewRequest("GET", "/api/dashboard/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDashboardOrdersByDate_ForwardsDates(t *testing.T) {
	svc := &fakeDashboardService{points: []service.OrdersByDatePoint{}}
	router := newDashboardRouter(svc)

	r := httptest.NewRequest("GET", "/api/dashboard/orders-by-date?shop_domain=a.myshopify.com&start_date=2025-08-01&end_date=2025-08-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastDates != [2]string{"2025-08-01", "2025-08-31"} {
		t.Fatalf("dates not forwarded: %v", svc.lastDates)
	}
}

func TestDashboardTopCustomers_LimitParam(t *testing.T) {
	svc := &fakeDashboardService{top: []service.TopCustomer{}}
	router := newDashboardRouter(svc)

	r := httptest.NewRequest("GET", "/api/dashboard/top-customers?shop_domain=a.myshopify.com&limit=3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastLimit != 3 {
		t.Fatalf("limit = %d", svc.lastLimit)
	}
}

func TestDashboardAnalytics(t *testing.T) {
	svc := &fakeDashboardService{
		analytics: &service.AnalyticsResponse{
			RevenueByMonth:          []service.MonthlyRevenuePoint{{Month: "2025-08", Revenue: 100, Orders: 2, AvgOrderValue: 50}},
			OrderValueDistribution:  []service.OrderValueBucket{{Range: "$0-$25", Count: 1, Percentage: 100}},
			CustomerAcquisition:     []service.CustomerAcquisitionPoint{{Month: "2025-08", NewCustomers: 3}},
			OrderStatusDistribution: []service.OrderStatusSlice{{Name: "Completed", Value: 1, Color: "#10b981"}},
		},
	}
	router := newDashboardRouter(svc)

	r := httptest.NewRequest("GET", "/api/dashboard/analytics?shop_domain=a.myshopify.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		RevenueByMonth          []map[string]any `json:"revenueByMonth"`
		OrderValueDistribution  []map[string]any `json:"orderValueDistribution"`
		CustomerAcquisition     []map[string]any `json:"customerAcquisition"`
		OrderStatusDistribution []map[string]any `json:"orderStatusDistribution"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.RevenueByMonth) != 1 || len(resp.OrderValueDistribution) != 1 ||
		len(resp.CustomerAcquisition) != 1 || len(resp.OrderStatusDistribution) != 1 {
		t.Fatalf("unexpected analytics shape: %s", w.Body.String())
	}
	if resp.CustomerAcquisition[0]["newCustomers"] != float64(3) {
		t.Fatalf("unexpected acquisition point %v", resp.CustomerAcquisition[0])
	}
	if resp.OrderStatusDistribution[0]["color"] != "#10b981" {
		t.Fatalf("unexpected status slice %v", resp.OrderStatusDistribution[0])
	}
}

func TestDashboardExportOrders_Headers(t *testing.T) {
	svc := &fakeDashboardService{
		exportRows: []repository.OrderExportRow{{OrderID: 55, Currency: "USD"}},
	}
	router := newDashboardRouter(svc)

	r := httptest.NewRequest("GET", "/api/dashboard/export/orders?shop_domain=a.myshopify.com", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Fatalf("content type = %q", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="orders_a.myshopify.com_`) {
		t.Fatalf("content disposition = %q", cd)
	}
	if w.Body.Len() == 0 {
		t.Fatal("empty workbook body")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router := newDashboardRouter(&fakeDashboardService{})

	r := httptest.NewRequest("OPTIONS", "/api/dashboard/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if origin := w.Header().Get("Access-Control-Allow-Origin"); origin != "http://localhost:5173" {
		t.Fatalf("allow-origin = %q", origin)
	}
}
