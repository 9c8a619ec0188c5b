package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/middleware"
)

// Handlers groups the API handlers registered by RegisterRoutes
type Handlers struct {
	Budget         *BudgetHandler
	Category       *CategoryHandler
	Transaction    *TransactionHandler
	MonthlySummary *MonthlySummaryHandler
	Dashboard      *DashboardHandler
	Report         *ReportHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter) {
	api := e.Group("/api")
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}
	api.Use(authMiddleware.Authenticate())

	budget := api.Group("/budget")
	budget.GET("", h.Budget.ListBudgets)
	budget.POST("", h.Budget.CreateBudget)
	budget.PUT("", h.Budget.UpdateBudget)
	budget.DELETE("", h.Budget.DeleteBudget)

	categories := api.Group("/categories")
	categories.GET("", h.Category.ListCategories)
	categories.POST("", h.Category.CreateCategory)
	categories.PUT("", h.Category.UpdateCategory)
	categories.DELETE("", h.Category.DeleteCategory)

	transactions := api.Group("/transactions")
	transactions.GET("", h.Transaction.ListTransactions)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.PUT("", h.Transaction.UpdateTransaction)
	transactions.DELETE("", h.Transaction.DeleteTransaction)

	summaries := api.Group("/monthly-summary")
	summaries.GET("", h.MonthlySummary.ListSummaries)
	summaries.POST("", h.MonthlySummary.CreateSummary)
	summaries.PUT("", h.MonthlySummary.UpdateSummary)
	summaries.DELETE("", h.MonthlySummary.DeleteSummary)

	api.GET("/dashboard/stats", h.Dashboard.GetStats)

	reports := api.Group("/reports")
	reports.GET("/categories", h.Report.GetCategoryReport)
	reports.GET("/charts/trend.png", h.Report.GetTrendChart)
	reports.GET("/charts/expenses.png", h.Report.GetExpenseChart)
	reports.POST("/snapshots", h.Report.CreateSnapshot)
}
