package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
	defaultLocale    string
	defaultMonths    int
}

// NewDashboardHandler creates a new DashboardHandler. locale and months are
// used when the request does not set them.
func NewDashboardHandler(dashboardService *service.DashboardService, locale string, months int) *DashboardHandler {
	if locale == "" {
		locale = service.DefaultDashboardLocale
	}
	if months < 1 {
		months = domain.DefaultTrendMonths
	}
	return &DashboardHandler{
		dashboardService: dashboardService,
		defaultLocale:    locale,
		defaultMonths:    months,
	}
}

// GetStats godoc
// @Summary Dashboard statistics
// @Description Current-month income, expenses and profit plus the trailing monthly trend
// @Tags dashboard
// @Produce json
// @Param months query int false "Trend length, 1 to 24"
// @Param locale query string false "Month label locale, th or en"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /dashboard/stats [get]
func (h *DashboardHandler) GetStats(c echo.Context) error {
	months := h.defaultMonths
	locale := h.defaultLocale
	var errs []ValidationError

	if raw := strings.TrimSpace(c.QueryParam("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > domain.MaxTrendMonths {
			errs = append(errs, ValidationError{Field: "months", Message: "Must be between 1 and 24"})
		}
		months = n
	}
	if raw := strings.TrimSpace(c.QueryParam("locale")); raw != "" {
		locale = strings.ToLower(raw)
		if locale != "th" && locale != "en" {
			errs = append(errs, ValidationError{Field: "locale", Message: "Must be th or en"})
		}
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	stats, err := h.dashboardService.GetStats(c.Request().Context(), months, locale)
	if err != nil {
		return handleError(c, err, "Failed to fetch dashboard stats")
	}
	return respondData(c, http.StatusOK, "", stats)
}
