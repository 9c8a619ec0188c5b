package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// ReportHandler serves category reports, chart images and stored snapshots
type ReportHandler struct {
	reportService   *service.ReportService
	chartService    *service.ChartService
	snapshotService *service.SnapshotService
	eventPublisher  websocket.EventPublisher
	defaultMonths   int
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *service.ReportService, chartService *service.ChartService, snapshotService *service.SnapshotService, defaultMonths int) *ReportHandler {
	if defaultMonths < 1 {
		defaultMonths = domain.DefaultTrendMonths
	}
	return &ReportHandler{
		reportService:   reportService,
		chartService:    chartService,
		snapshotService: snapshotService,
		defaultMonths:   defaultMonths,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (h *ReportHandler) SetEventPublisher(publisher websocket.EventPublisher) {
	h.eventPublisher = publisher
}

// SnapshotRequest represents the optional body of a snapshot request
type SnapshotRequest struct {
	Months int    `json:"months"`
	Period string `json:"period"`
}

// GetCategoryReport godoc
// @Summary Category breakdown
// @Description Income and expense per category over a trailing period
// @Tags reports
// @Produce json
// @Param period query string false "1months, 3months, 6months or 12months"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /reports/categories [get]
func (h *ReportHandler) GetCategoryReport(c echo.Context) error {
	report, err := h.reportService.GetCategoryReport(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return handleError(c, err, "Failed to build category report")
	}
	return respondData(c, http.StatusOK, "", report)
}

// GetTrendChart handles GET /api/reports/charts/trend.png
func (h *ReportHandler) GetTrendChart(c echo.Context) error {
	months := h.defaultMonths
	if raw := strings.TrimSpace(c.QueryParam("months")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > domain.MaxTrendMonths {
			return NewValidationError(c, "Invalid query parameters", []ValidationError{
				{Field: "months", Message: "Must be between 1 and 24"},
			})
		}
		months = n
	}

	data, err := h.chartService.RenderTrendChart(c.Request().Context(), months)
	if err != nil {
		return handleError(c, err, "Failed to render trend chart")
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// GetExpenseChart handles GET /api/reports/charts/expenses.png
func (h *ReportHandler) GetExpenseChart(c echo.Context) error {
	data, err := h.chartService.RenderExpenseChart(c.Request().Context(), c.QueryParam("period"))
	if err != nil {
		return handleError(c, err, "Failed to render expense chart")
	}
	return c.Blob(http.StatusOK, "image/png", data)
}

// CreateSnapshot godoc
// @Summary Store a chart snapshot
// @Description Renders the trend and expense charts, uploads them with thumbnails and returns presigned links
// @Tags reports
// @Accept json
// @Produce json
// @Success 201 {object} Response
// @Failure 404 {object} Response
// @Failure 503 {object} Response
// @Router /reports/snapshots [post]
func (h *ReportHandler) CreateSnapshot(c echo.Context) error {
	var req SnapshotRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return respondError(c, http.StatusBadRequest, "Invalid request body", "")
		}
	}
	if req.Months == 0 {
		req.Months = h.defaultMonths
	}
	if req.Months < 1 || req.Months > domain.MaxTrendMonths {
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "months", Message: "Must be between 1 and 24"},
		})
	}

	snapshot, err := h.snapshotService.CreateSnapshot(c.Request().Context(), req.Months, req.Period)
	if err != nil {
		return handleError(c, err, "Failed to create snapshot")
	}

	log.Info().
		Str("snapshot_id", snapshot.ID).
		Int("charts", len(snapshot.Charts)).
		Msg("Chart snapshot stored")

	if h.eventPublisher != nil {
		h.eventPublisher.Publish(websocket.Created(websocket.EntityTypeSnapshot, snapshot))
	}
	return respondData(c, http.StatusCreated, "Snapshot created successfully", snapshot)
}
