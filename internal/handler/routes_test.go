package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/middleware"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
	"github.com/dafibh/finboard/finboard-backend/internal/testutil"
)

func newTestServer(validator middleware.TokenValidator, limiter *middleware.RateLimiter) *echo.Echo {
	budgets := testutil.NewMockBudgetRepository()
	categories := testutil.NewMockCategoryRepository()
	categories.AddCategory(&domain.Category{ID: 1, Name: "Sales", Type: domain.TransactionTypeIncome})
	transactions := testutil.NewMockTransactionRepository()
	summaries := testutil.NewMockMonthlySummaryRepository()

	dashboard := service.NewDashboardService(transactions, categories, summaries)
	reports := service.NewReportService(transactions, categories)
	charts := service.NewChartService(dashboard, reports)

	e := echo.New()
	RegisterRoutes(e, Handlers{
		Budget:         NewBudgetHandler(service.NewBudgetService(budgets, categories)),
		Category:       NewCategoryHandler(service.NewCategoryService(categories, transactions)),
		Transaction:    NewTransactionHandler(service.NewTransactionService(transactions, categories)),
		MonthlySummary: NewMonthlySummaryHandler(service.NewMonthlySummaryService(summaries)),
		Dashboard:      NewDashboardHandler(dashboard, "en", 6),
		Report:         NewReportHandler(reports, charts, service.NewSnapshotService(charts, nil), 6),
	}, middleware.NewAuthMiddleware(validator), limiter)
	return e
}

func TestRegisterRoutes(t *testing.T) {
	e := newTestServer(nil, nil)

	paths := []string{
		"/api/budget",
		"/api/categories",
		"/api/transactions",
		"/api/monthly-summary",
		"/api/dashboard/stats",
		"/api/reports/categories",
	}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		})
	}
}

func TestRegisterRoutes_RequiresTokenWhenAuthEnabled(t *testing.T) {
	e := newTestServer(&stubTokenValidator{subject: "auth0|1"}, nil)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/budget", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/budget", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer good")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterRoutes_RateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiterWithConfig(60, 1)
	defer limiter.Stop()
	e := newTestServer(nil, limiter)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/categories", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
