package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/service"
)

// MonthlySummaryHandler handles monthly summary HTTP requests
type MonthlySummaryHandler struct {
	summaryService *service.MonthlySummaryService
}

// NewMonthlySummaryHandler creates a new MonthlySummaryHandler
func NewMonthlySummaryHandler(summaryService *service.MonthlySummaryService) *MonthlySummaryHandler {
	return &MonthlySummaryHandler{summaryService: summaryService}
}

func summaryInput(p *payload) service.MonthlySummaryInput {
	return service.MonthlySummaryInput{
		Year:             p.Int("year"),
		Month:            p.Int("month"),
		TotalIncome:      p.Decimal("total_income"),
		TotalExpense:     p.Decimal("total_expense"),
		TransactionCount: p.Int64("transaction_count"),
	}
}

// ListSummaries handles GET /api/monthly-summary
func (h *MonthlySummaryHandler) ListSummaries(c echo.Context) error {
	summaries, err := h.summaryService.ListSummaries(c.Request().Context())
	if err != nil {
		return handleError(c, err, "Failed to fetch monthly summaries")
	}
	return respondData(c, http.StatusOK, "", summaries)
}

// CreateSummary handles POST /api/monthly-summary
func (h *MonthlySummaryHandler) CreateSummary(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	input := summaryInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to add monthly summary")
	}

	summary, err := h.summaryService.CreateSummary(c.Request().Context(), input)
	if err != nil {
		return handleError(c, err, "Failed to add monthly summary")
	}
	return respondData(c, http.StatusCreated, "Monthly summary added successfully", summary)
}

// UpdateSummary handles PUT /api/monthly-summary
func (h *MonthlySummaryHandler) UpdateSummary(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	id, err := p.ID()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Monthly summary ID is required for update", "")
	}
	input := summaryInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to update monthly summary")
	}

	summary, err := h.summaryService.UpdateSummary(c.Request().Context(), id, input)
	if err != nil {
		return handleError(c, err, "Failed to update monthly summary")
	}
	return respondData(c, http.StatusOK, "Monthly summary updated successfully", summary)
}

// DeleteSummary handles DELETE /api/monthly-summary?id=N
func (h *MonthlySummaryHandler) DeleteSummary(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Monthly summary ID is required for deletion", "")
	}

	if err := h.summaryService.DeleteSummary(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Failed to delete monthly summary")
	}
	return respondDeleted(c, "Monthly summary deleted successfully", id)
}
