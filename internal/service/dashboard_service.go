package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/repository"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/store"
)

// metricsCacheTTL short TTL keeps the dashboard snappy without serving stale
// numbers for long after an ingest.
const metricsCacheTTL = 30 * time.Second

// DashboardService aggregated reporting over ingested rows.
type DashboardService interface {
	// Metrics returns the headline totals for one shop.
	Metrics(ctx context.Context, shopDomain string) (*MetricsResponse, error)

	// OrdersByDate returns per-day order counts and revenue in [start, end].
	OrdersByDate(ctx context.Context, shopDomain string, start, end string) ([]OrdersByDatePoint, error)

	// TopCustomers returns the highest-spending customers, descending.
	TopCustomers(ctx context.Context, shopDomain string, limit int) ([]TopCustomer, error)

	// Analytics returns trend-chart data (monthly revenue, value distribution).
	Analytics(ctx context.Context, shopDomain string) (*AnalyticsResponse, error)

	// ExportOrders returns the shop's orders flattened for spreadsheet export.
	ExportOrders(ctx context.Context, shopDomain string) ([]repository.OrderExportRow, error)
}

type dashboardService struct {
	repo   repository.DashboardRepo
	cache  store.KV
	logger *zap.Logger
}

// NewDashboardService creates a DashboardService. cache may be nil; caching is
// then skipped entirely.
func NewDashboardService(repo repository.DashboardRepo, cache store.KV, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, cache: cache, logger: logger}
}

// ============================================
// Response DTOs (shapes match the dashboard frontend)
// ============================================

type MetricsResponse struct {
	TotalCustomers int     `json:"totalCustomers"`
	TotalOrders    int     `json:"totalOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	RevenueGrowth  float64 `json:"revenueGrowth"`
}

type OrdersByDatePoint struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

type TopCustomer struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	TotalSpent float64 `json:"totalSpent"`
	Orders     int     `json:"orders"`
}

type MonthlyRevenuePoint struct {
	Month         string  `json:"month"`
	Revenue       float64 `json:"revenue"`
	Orders        int     `json:"orders"`
	AvgOrderValue float64 `json:"avgOrderValue"`
}

type OrderValueBucket struct {
	Range      string `json:"range"`
	Count      int    `json:"count"`
	Percentage int    `json:"percentage"`
}

type CustomerAcquisitionPoint struct {
	Month        string `json:"month"`
	NewCustomers int    `json:"newCustomers"`
}

type OrderStatusSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type AnalyticsResponse struct {
	RevenueByMonth          []MonthlyRevenuePoint      `json:"revenueByMonth"`
	OrderValueDistribution  []OrderValueBucket         `json:"orderValueDistribution"`
	CustomerAcquisition     []CustomerAcquisitionPoint `json:"customerAcquisition"`
	OrderStatusDistribution []OrderStatusSlice         `json:"orderStatusDistribution"`
}

// orderStatusColors chart colors keyed by derived order state
var orderStatusColors = map[string]string{
	"Completed":  "#10b981",
	"Processing": "#f59e0b",
	"Shipped":    "#3b82f6",
	"Cancelled":  "#ef4444",
}

// ============================================
// Service method implementations
// ============================================

func (s *dashboardService) Metrics(ctx context.Context, shopDomain string) (*MetricsResponse, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("%w: shop_domain is required", domain.ErrValidation)
	}

	cacheKey := "dashboard:metrics:" + shopDomain
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
			var resp MetricsResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		} else if err != store.ErrMiss {
			// cache trouble never blocks the dashboard
			s.logger.Debug("metrics cache read failed", zap.Error(err))
		}
	}

	totalCustomers, err := s.repo.CountCustomers(ctx, shopDomain)
	if err != nil {
		s.logger.Error("failed to count customers", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	totalOrders, totalRevenue, err := s.repo.OrderTotals(ctx, shopDomain)
	if err != nil {
		s.logger.Error("failed to total orders", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	resp := &MetricsResponse{
		TotalCustomers: totalCustomers,
		TotalOrders:    totalOrders,
		TotalRevenue:   round2(totalRevenue),
		RevenueGrowth:  s.revenueGrowth(ctx, shopDomain),
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(encoded), metricsCacheTTL); err != nil {
				s.logger.Debug("metrics cache write failed", zap.Error(err))
			}
		}
	}
	return resp, nil
}

// revenueGrowth compares the current month's revenue against the previous
// month's. Zero when there is no prior month to compare.
func (s *dashboardService) revenueGrowth(ctx context.Context, shopDomain string) float64 {
	since := time.Now().UTC().AddDate(0, -2, 0)
	months, err := s.repo.MonthlyRevenue(ctx, shopDomain, since)
	if err != nil || len(months) < 2 {
		return 0
	}
	prev := months[len(months)-2].Revenue
	cur := months[len(months)-1].Revenue
	if prev == 0 {
		return 0
	}
	return round1((cur - prev) / prev * 100)
}

func (s *dashboardService) OrdersByDate(ctx context.Context, shopDomain, start, end string) ([]OrdersByDatePoint, error) {
	if shopDomain == "" || start == "" || end == "" {
		return nil, fmt.Errorf("%w: shop_domain, start_date and end_date are required", domain.ErrValidation)
	}
	startAt, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start_date %q", domain.ErrValidation, start)
	}
	endAt, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end_date %q", domain.ErrValidation, end)
	}
	// include the whole end day
	endAt = endAt.Add(24*time.Hour - time.Nanosecond)

	stats, err := s.repo.OrdersByDate(ctx, shopDomain, startAt, endAt)
	if err != nil {
		s.logger.Error("failed to query orders by date", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	points := make([]OrdersByDatePoint, 0, len(stats))
	for _, stat := range stats {
		points = append(points, OrdersByDatePoint{
			Date:    stat.Date,
			Orders:  stat.Orders,
			Revenue: round2(stat.Revenue),
		})
	}
	return points, nil
}

func (s *dashboardService) TopCustomers(ctx context.Context, shopDomain string, limit int) ([]TopCustomer, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("%w: shop_domain is required", domain.ErrValidation)
	}
	if limit <= 0 {
		limit = 5
	}

	spends, err := s.repo.TopCustomers(ctx, shopDomain, limit)
	if err != nil {
		s.logger.Error("failed to query top customers", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	top := make([]TopCustomer, 0, len(spends))
	for _, spend := range spends {
		name := strings.TrimSpace(spend.FirstName + " " + spend.LastName)
		if name == "" {
			name = "Unknown Customer"
		}
		email := spend.Email
		if email == "" {
			email = "No email"
		}
		top = append(top, TopCustomer{
			ID:         spend.CustomerID,
			Name:       name,
			Email:      email,
			TotalSpent: round2(spend.TotalSpent),
			Orders:     spend.Orders,
		})
	}
	return top, nil
}

func (s *dashboardService) Analytics(ctx context.Context, shopDomain string) (*AnalyticsResponse, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("%w: shop_domain is required", domain.ErrValidation)
	}

	since := time.Now().UTC().AddDate(0, -6, 0)
	months, err := s.repo.MonthlyRevenue(ctx, shopDomain, since)
	if err != nil {
		s.logger.Error("failed to query monthly revenue", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	revenueByMonth := make([]MonthlyRevenuePoint, 0, len(months))
	for _, m := range months {
		avg := 0.0
		if m.Orders > 0 {
			avg = round2(m.Revenue / float64(m.Orders))
		}
		revenueByMonth = append(revenueByMonth, MonthlyRevenuePoint{
			Month:         m.Month,
			Revenue:       round2(m.Revenue),
			Orders:        m.Orders,
			AvgOrderValue: avg,
		})
	}

	buckets, err := s.repo.OrderValueBuckets(ctx, shopDomain)
	if err != nil {
		s.logger.Error("failed to query order value buckets", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}

	totalBucketed := 0
	for _, b := range buckets {
		totalBucketed += b.Count
	}
	distribution := make([]OrderValueBucket, 0, len(buckets))
	for _, b := range buckets {
		pct := 0
		if totalBucketed > 0 {
			pct = int(math.Round(float64(b.Count) / float64(totalBucketed) * 100))
		}
		distribution = append(distribution, OrderValueBucket{Range: b.Range, Count: b.Count, Percentage: pct})
	}

	acquisition, err := s.repo.CustomerAcquisition(ctx, shopDomain, since)
	if err != nil {
		s.logger.Error("failed to query customer acquisition", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	customerAcquisition := make([]CustomerAcquisitionPoint, 0, len(acquisition))
	for _, a := range acquisition {
		customerAcquisition = append(customerAcquisition, CustomerAcquisitionPoint{
			Month:        a.Month,
			NewCustomers: a.NewCustomers,
		})
	}

	statuses, err := s.repo.OrderStatusDistribution(ctx, shopDomain)
	if err != nil {
		s.logger.Error("failed to query order status distribution", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	statusDistribution := make([]OrderStatusSlice, 0, len(statuses))
	for _, st := range statuses {
		statusDistribution = append(statusDistribution, OrderStatusSlice{
			Name:  st.Name,
			Value: st.Count,
			Color: orderStatusColors[st.Name],
		})
	}

	return &AnalyticsResponse{
		RevenueByMonth:          revenueByMonth,
		OrderValueDistribution:  distribution,
		CustomerAcquisition:     customerAcquisition,
		OrderStatusDistribution: statusDistribution,
	}, nil
}

func (s *dashboardService) ExportOrders(ctx context.Context, shopDomain string) ([]repository.OrderExportRow, error) {
	if shopDomain == "" {
		return nil, fmt.Errorf("%w: shop_domain is required", domain.ErrValidation)
	}
	rows, err := s.repo.ListOrdersForExport(ctx, shopDomain)
	if err != nil {
		s.logger.Error("failed to list orders for export", zap.String("shop_domain", shopDomain), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return rows, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
