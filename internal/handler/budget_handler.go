package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/service"
)

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	budgetService *service.BudgetService
}

// NewBudgetHandler creates a new BudgetHandler
func NewBudgetHandler(budgetService *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService: budgetService}
}

func budgetInput(p *payload) service.BudgetInput {
	return service.BudgetInput{
		CategoryID:    p.Int64("category_id"),
		Year:          p.Int("year"),
		Month:         p.Int("month"),
		PlannedAmount: p.Decimal("planned_amount"),
		ActualAmount:  p.Decimal("actual_amount"),
	}
}

// ListBudgets godoc
// @Summary List budgets
// @Description Returns every budget line with variance recomputed from its amounts
// @Tags budget
// @Produce json
// @Success 200 {object} Response
// @Failure 500 {object} Response
// @Router /budget [get]
func (h *BudgetHandler) ListBudgets(c echo.Context) error {
	budgets, err := h.budgetService.ListBudgets(c.Request().Context())
	if err != nil {
		return handleError(c, err, "Failed to fetch budgets")
	}
	return respondData(c, http.StatusOK, "", budgets)
}

// CreateBudget godoc
// @Summary Create a budget
// @Tags budget
// @Accept json
// @Produce json
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Failure 500 {object} Response
// @Router /budget [post]
func (h *BudgetHandler) CreateBudget(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	input := budgetInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to add budget")
	}

	budget, err := h.budgetService.CreateBudget(c.Request().Context(), input)
	if err != nil {
		return handleError(c, err, "Failed to add budget")
	}
	return respondData(c, http.StatusCreated, "Budget added successfully", budget)
}

// UpdateBudget godoc
// @Summary Update a budget
// @Tags budget
// @Accept json
// @Produce json
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /budget [put]
func (h *BudgetHandler) UpdateBudget(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	id, err := p.ID()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Budget ID is required for update", "")
	}
	input := budgetInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to update budget")
	}

	budget, err := h.budgetService.UpdateBudget(c.Request().Context(), id, input)
	if err != nil {
		return handleError(c, err, "Failed to update budget")
	}
	return respondData(c, http.StatusOK, "Budget updated successfully", budget)
}

// DeleteBudget godoc
// @Summary Delete a budget
// @Tags budget
// @Produce json
// @Param id query int true "Record id"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /budget [delete]
func (h *BudgetHandler) DeleteBudget(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Budget ID is required for deletion", "")
	}

	if err := h.budgetService.DeleteBudget(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Failed to delete budget")
	}
	return respondDeleted(c, "Budget deleted successfully", id)
}
