package httpapi

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/SanatKulkarni/Shopify-MultiTenant-Dashboard/internal/repository"
)

func TestGenerateOrdersExport(t *testing.T) {
	orderNumber := int64(1001)
	customerID := int64(77)
	total := 19.99
	createdAt := time.Date(2025, 8, 15, 10, 30, 0, 0, time.UTC)

	data, err := GenerateOrdersExport([]repository.OrderExportRow{
		{
			OrderID:           55,
			OrderNumber:       &orderNumber,
			CustomerID:        &customerID,
			Currency:          "USD",
			TotalPrice:        &total,
			FinancialStatus:   "PAID",
			FulfillmentStatus: "UNFULFILLED",
			CreatedAt:         &createdAt,
		},
		{OrderID: 56}, // all optionals absent
	})
	if err != nil {
		t.Fatalf("GenerateOrdersExport: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook bytes")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	if f.GetSheetName(f.GetActiveSheetIndex()) != "Orders" {
		t.Fatalf("active sheet = %q", f.GetSheetName(f.GetActiveSheetIndex()))
	}

	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Order ID" || rows[0][4] != "Total Price" {
		t.Fatalf("unexpected header row %v", rows[0])
	}
	if rows[1][0] != "55" || rows[1][3] != "USD" || rows[1][5] != "PAID" {
		t.Fatalf("unexpected data row %v", rows[1])
	}
	if rows[1][7] != "2025-08-15 10:30:00" {
		t.Fatalf("created_at cell = %q", rows[1][7])
	}
	if rows[2][0] != "56" {
		t.Fatalf("unexpected second data row %v", rows[2])
	}
}

func TestGenerateOrdersExport_EmptyRows(t *testing.T) {
	data, err := GenerateOrdersExport(nil)
	if err != nil {
		t.Fatalf("GenerateOrdersExport: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Orders")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected headers only, got %d rows", len(rows))
	}
}
