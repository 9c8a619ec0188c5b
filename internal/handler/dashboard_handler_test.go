package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
	"github.com/dafibh/finboard/finboard-backend/internal/testutil"
)

func newDashboardHandler(locale string, months int) (*DashboardHandler, *testutil.MockTransactionRepository, *testutil.MockMonthlySummaryRepository) {
	transactions := testutil.NewMockTransactionRepository()
	categories := testutil.NewMockCategoryRepository()
	categories.AddCategory(&domain.Category{ID: 1, Name: "Sales", Type: domain.TransactionTypeIncome})
	categories.AddCategory(&domain.Category{ID: 2, Name: "Rent", Type: domain.TransactionTypeExpense})
	summaries := testutil.NewMockMonthlySummaryRepository()

	svc := service.NewDashboardService(transactions, categories, summaries)
	svc.SetClock(fixedClock)
	return NewDashboardHandler(svc, locale, months), transactions, summaries
}

func TestGetStats_Success(t *testing.T) {
	handler, transactions, _ := newDashboardHandler("th", 6)
	addTransaction(transactions, 1, 1, "5000", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))
	addTransaction(transactions, 2, 2, "1500", time.Date(2026, 10, 5, 0, 0, 0, 0, time.UTC))

	c, rec := newContext(http.MethodGet, "/api/dashboard/stats", "")
	if err := handler.GetStats(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	_, data := decodeResponse(t, rec)
	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("Failed to unmarshal stats: %v", err)
	}

	if !stats.Income.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected income 5000, got %s", stats.Income)
	}
	if !stats.Profit.Equal(decimal.NewFromInt(3500)) {
		t.Errorf("Expected profit 3500, got %s", stats.Profit)
	}
	if len(stats.Trends) != 6 {
		t.Fatalf("Expected 6 trend points, got %d", len(stats.Trends))
	}
	if last := stats.Trends[5]; last.Label != "ต.ค. 2026" {
		t.Errorf("Expected Thai label for October, got %q", last.Label)
	}
}

func TestGetStats_QueryOverrides(t *testing.T) {
	handler, _, _ := newDashboardHandler("th", 6)

	c, rec := newContext(http.MethodGet, "/api/dashboard/stats?months=3&locale=EN", "")
	_ = handler.GetStats(c)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	_, data := decodeResponse(t, rec)
	var stats domain.DashboardStats
	if err := json.Unmarshal(data, &stats); err != nil {
		t.Fatalf("Failed to unmarshal stats: %v", err)
	}
	if len(stats.Trends) != 3 {
		t.Fatalf("Expected 3 trend points, got %d", len(stats.Trends))
	}
	if stats.Trends[0].Label != "Aug 2026" {
		t.Errorf("Expected English label Aug 2026, got %q", stats.Trends[0].Label)
	}
}

func TestGetStats_InvalidQuery(t *testing.T) {
	handler, _, _ := newDashboardHandler("", 0)

	tests := []struct {
		name   string
		target string
	}{
		{"months too large", "/api/dashboard/stats?months=25"},
		{"months zero", "/api/dashboard/stats?months=0"},
		{"months not a number", "/api/dashboard/stats?months=six"},
		{"unknown locale", "/api/dashboard/stats?locale=fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, tt.target, "")
			_ = handler.GetStats(c)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetStats_DegradedSummaries(t *testing.T) {
	handler, transactions, summaries := newDashboardHandler("en", 6)
	summaries.ListErr = domain.ErrStoreUnavailable
	addTransaction(transactions, 1, 1, "100", time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC))

	c, rec := newContext(http.MethodGet, "/api/dashboard/stats", "")
	_ = handler.GetStats(c)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 with degraded summaries, got %d", rec.Code)
	}
}
