package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/service"
)

// TransactionHandler handles transaction HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// category_name holds the category record id, matching the store column.
func transactionInput(p *payload) service.TransactionInput {
	return service.TransactionInput{
		TransactionDate: p.Date("transaction_date"),
		Amount:          p.Decimal("amount"),
		CategoryID:      p.Int64("category_name"),
		Description:     p.String("description"),
		TransactionType: p.String("transaction_type"),
		PaymentMethod:   p.String("payment_method"),
		Status:          p.String("status"),
		Quantity:        p.Int64("quantity"),
		UnitPrice:       p.Decimal("unit_price"),
		Notes:           p.String("notes"),
		CreatedBy:       p.String("created_by"),
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Transactions with resolved type and inlined category. With limit, most recent first.
// @Tags transactions
// @Produce json
// @Param type query string false "income or expense"
// @Param limit query int false "Maximum number of transactions"
// @Success 200 {object} Response
// @Failure 400 {object} Response
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	var filter service.TransactionFilter
	var errs []ValidationError

	if raw := strings.TrimSpace(c.QueryParam("type")); raw != "" {
		if !domain.IsKnownTransactionType(raw) {
			errs = append(errs, ValidationError{Field: "type", Message: "Must be income or expense"})
		}
		filter.Type = domain.TransactionType(domain.NormalizeTransactionType(raw))
	}
	if raw := strings.TrimSpace(c.QueryParam("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			errs = append(errs, ValidationError{Field: "limit", Message: "Must be a positive integer"})
		}
		filter.Limit = limit
	}
	if len(errs) > 0 {
		return NewValidationError(c, "Invalid query parameters", errs)
	}

	transactions, err := h.transactionService.ListTransactions(c.Request().Context(), filter)
	if err != nil {
		return handleError(c, err, "Failed to fetch transactions")
	}
	return respondData(c, http.StatusOK, "", transactions)
}

// CreateTransaction handles POST /api/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	input := transactionInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to add transaction")
	}

	transaction, err := h.transactionService.CreateTransaction(c.Request().Context(), input)
	if err != nil {
		return handleError(c, err, "Failed to add transaction")
	}
	return respondData(c, http.StatusCreated, "Transaction added successfully", transaction)
}

// UpdateTransaction handles PUT /api/transactions
func (h *TransactionHandler) UpdateTransaction(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	id, err := p.ID()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Transaction ID is required for update", "")
	}
	input := transactionInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to update transaction")
	}

	transaction, err := h.transactionService.UpdateTransaction(c.Request().Context(), id, input)
	if err != nil {
		return handleError(c, err, "Failed to update transaction")
	}
	return respondData(c, http.StatusOK, "Transaction updated successfully", transaction)
}

// DeleteTransaction handles DELETE /api/transactions?id=N
func (h *TransactionHandler) DeleteTransaction(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Transaction ID is required for deletion", "")
	}

	if err := h.transactionService.DeleteTransaction(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Failed to delete transaction")
	}
	return respondDeleted(c, "Transaction deleted successfully", id)
}
