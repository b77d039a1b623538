// +build integration

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/config"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/database"
	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/domain"
)

func getTestEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getTestDB connects to the test database, skipping the test when none is
// reachable.
func getTestDB(t *testing.T) *sql.DB {
	cfg := &config.DatabaseConfig{
		Host:     getTestEnv("TEST_DB_HOST", "localhost"),
		Port:     5432,
		User:     getTestEnv("TEST_DB_USER", "postgres"),
		Password: getTestEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getTestEnv("TEST_DB_NAME", "shopify_dashboard"),
		SSLMode:  getTestEnv("TEST_DB_SSLMODE", "disable"),
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	return db
}

// cleanupShop removes every row the test created for one shop.
func cleanupShop(t *testing.T, db *sql.DB, shopDomain string) {
	db.Exec(`DELETE FROM orders WHERE shop_domain = $1`, shopDomain)
	db.Exec(`DELETE FROM products WHERE shop_domain = $1`, shopDomain)
	db.Exec(`DELETE FROM customers WHERE shop_domain = $1`, shopDomain)
}

func strPtr(s string) *string       { return &s }
func int64Ptr(i int64) *int64       { return &i }
func floatPtr(f float64) *float64   { return &f }
func timePtr(v time.Time) *time.Time { return &v }

// ============================================
// CustomersRepo tests
// ============================================

func TestPostgresCustomersRepo_UpsertBatch(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	shopDomain := "upsert-test.myshopify.com"
	defer cleanupShop(t, db, shopDomain)

	repo := NewPostgresCustomersRepo(db, zap.NewNop())
	ctx := context.Background()

	batch := []*domain.Customer{
		{CustomerID: 9001, Email: strPtr("a@test.com"), FirstName: strPtr("Ada"), CreatedAt: time.Now().UTC()},
		{CustomerID: 9002, CreatedAt: time.Now().UTC()},
	}

	// first write: everything is new
	inserted, updated, err := repo.UpsertBatch(ctx, shopDomain, batch)
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if inserted != 2 || updated != 0 {
		t.Fatalf("first write: expected 2 inserted / 0 updated, got %d / %d", inserted, updated)
	}

	// second write of the same keys: everything is an update
	batch[0].Email = strPtr("changed@test.com")
	inserted, updated, err = repo.UpsertBatch(ctx, shopDomain, batch)
	if err != nil {
		t.Fatalf("UpsertBatch (second) failed: %v", err)
	}
	if inserted != 0 || updated != 2 {
		t.Fatalf("second write: expected 0 inserted / 2 updated, got %d / %d", inserted, updated)
	}

	// the conflicting row was replaced in place
	var email string
	err = db.QueryRow(`SELECT email FROM customers WHERE shop_domain = $1 AND customer_id = 9001`, shopDomain).Scan(&email)
	if err != nil {
		t.Fatalf("read back customer: %v", err)
	}
	if email != "changed@test.com" {
		t.Fatalf("expected updated email, got %q", email)
	}
}

func TestPostgresCustomersRepo_EmptyBatch(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	repo := NewPostgresCustomersRepo(db, zap.NewNop())
	inserted, updated, err := repo.UpsertBatch(context.Background(), "empty-test.myshopify.com", nil)
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if inserted != 0 || updated != 0 {
		t.Fatalf("expected 0 / 0, got %d / %d", inserted, updated)
	}
}

func TestPostgresCustomersRepo_DuplicateKeysInOneBatch(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	shopDomain := "dup-test.myshopify.com"
	defer cleanupShop(t, db, shopDomain)

	repo := NewPostgresCustomersRepo(db, zap.NewNop())

	// same key twice in one batch: the statement must not fail, the last
	// occurrence wins, and counts still cover both rows
	inserted, updated, err := repo.UpsertBatch(context.Background(), shopDomain, []*domain.Customer{
		{CustomerID: 9100, Email: strPtr("first@test.com"), CreatedAt: time.Now().UTC()},
		{CustomerID: 9100, Email: strPtr("last@test.com"), CreatedAt: time.Now().UTC()},
	})
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if inserted+updated != 2 {
		t.Fatalf("counts must cover every input row, got %d + %d", inserted, updated)
	}

	var email string
	if err := db.QueryRow(`SELECT email FROM customers WHERE shop_domain = $1 AND customer_id = 9100`, shopDomain).Scan(&email); err != nil {
		t.Fatalf("read back customer: %v", err)
	}
	if email != "last@test.com" {
		t.Fatalf("expected last occurrence to win, got %q", email)
	}
}

// ============================================
// OrdersRepo / ProductsRepo tests
// ============================================

func TestPostgresOrdersRepo_UpsertBatch(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	shopDomain := "orders-test.myshopify.com"
	defer cleanupShop(t, db, shopDomain)

	repo := NewPostgresOrdersRepo(db, zap.NewNop())
	createdAt := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	inserted, updated, err := repo.UpsertBatch(context.Background(), shopDomain, []*domain.Order{
		{
			OrderID:           55,
			OrderNumber:       int64Ptr(55),
			CustomerID:        int64Ptr(9001),
			Currency:          strPtr("USD"),
			TotalPrice:        floatPtr(19.99),
			FinancialStatus:   strPtr("PAID"),
			FulfillmentStatus: strPtr("UNFULFILLED"),
			CreatedAt:         timePtr(createdAt),
			Raw:               json.RawMessage(`{"id": "gid://shopify/Order/55"}`),
		},
	})
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if inserted != 1 || updated != 0 {
		t.Fatalf("expected 1 / 0, got %d / %d", inserted, updated)
	}

	var total float64
	var raw []byte
	err = db.QueryRow(`SELECT total_price, raw FROM orders WHERE shop_domain = $1 AND order_id = 55`, shopDomain).Scan(&total, &raw)
	if err != nil {
		t.Fatalf("read back order: %v", err)
	}
	if total != 19.99 {
		t.Fatalf("total_price = %v", total)
	}
	if len(raw) == 0 {
		t.Fatal("raw node was not stored")
	}
}

func TestPostgresProductsRepo_UpsertBatch(t *testing.T) {
	db := getTestDB(t)
	if db == nil {
		return
	}
	defer db.Close()

	shopDomain := "products-test.myshopify.com"
	defer cleanupShop(t, db, shopDomain)

	repo := NewPostgresProductsRepo(db, zap.NewNop())

	inserted, updated, err := repo.UpsertBatch(context.Background(), shopDomain, []*domain.Product{
		{
			ProductID:    7,
			Title:        strPtr("Widget"),
			Status:       strPtr("ACTIVE"),
			Tags:         []string{"sale", "new"},
			VariantCount: 3,
			Raw:          json.RawMessage(`{"id": "gid://shopify/Product/7"}`),
		},
	})
	if err != nil {
		t.Fatalf("UpsertBatch failed: %v", err)
	}
	if inserted != 1 || updated != 0 {
		t.Fatalf("expected 1 / 0, got %d / %d", inserted, updated)
	}

	var variantCount int
	err = db.QueryRow(`SELECT variant_count FROM products WHERE shop_domain = $1 AND product_id = 7`, shopDomain).Scan(&variantCount)
	if err != nil {
		t.Fatalf("read back product: %v", err)
	}
	if variantCount != 3 {
		t.Fatalf("variant_count = %d", variantCount)
	}
}
