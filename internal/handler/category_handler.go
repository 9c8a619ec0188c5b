package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dafibh/finboard/finboard-backend/internal/service"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func categoryInput(p *payload) service.CategoryInput {
	return service.CategoryInput{
		Name:        p.String("name"),
		Type:        p.String("type"),
		Color:       p.String("color"),
		Description: p.String("description"),
		IsActive:    p.Bool("is_active"),
	}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return handleError(c, err, "Failed to fetch categories")
	}
	return respondData(c, http.StatusOK, "", categories)
}

// CreateCategory handles POST /api/categories
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	input := categoryInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to add category")
	}

	category, err := h.categoryService.CreateCategory(c.Request().Context(), input)
	if err != nil {
		return handleError(c, err, "Failed to add category")
	}
	return respondData(c, http.StatusCreated, "Category added successfully", category)
}

// UpdateCategory handles PUT /api/categories
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	p, err := bindPayload(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
	}
	id, err := p.ID()
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Category ID is required for update", "")
	}
	input := categoryInput(p)
	if err := p.err(); err != nil {
		return handleError(c, err, "Failed to update category")
	}

	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, input)
	if err != nil {
		return handleError(c, err, "Failed to update category")
	}
	return respondData(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategory handles DELETE /api/categories?id=N. Categories still
// referenced by a transaction are refused with 400.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := queryID(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, "Category ID is required for deletion", "")
	}

	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return handleError(c, err, "Failed to delete category")
	}
	return respondDeleted(c, "Category deleted successfully", id)
}
