package grist

import (
	"context"
	"fmt"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository on the Categories table
type CategoryRepository struct {
	client *Client
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(client *Client) *CategoryRepository {
	return &CategoryRepository{client: client}
}

// List returns every category
func (r *CategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	records, err := r.client.FetchRecords(ctx, TableCategories, Query{})
	if err != nil {
		return nil, err
	}
	categories := make([]*domain.Category, 0, len(records))
	for _, rec := range records {
		categories = append(categories, parseCategory(rec))
	}
	return categories, nil
}

// GetByID returns domain.ErrCategoryNotFound when no row has the id
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	records, err := r.client.FetchRecords(ctx, TableCategories, byID(id))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrCategoryNotFound
	}
	return parseCategory(records[0]), nil
}

// Create inserts a category and returns it with its new id
func (r *CategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	ids, err := r.client.AddRecords(ctx, TableCategories, []Fields{categoryFields(category)})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("add category: no id returned")
	}
	created := *category
	created.ID = ids[0]
	return &created, nil
}

// Update writes the non-nil columns of update
func (r *CategoryRepository) Update(ctx context.Context, id int64, update domain.CategoryUpdate) error {
	fields := Fields{}
	if update.Name != nil {
		fields["category_name"] = *update.Name
	}
	if update.Type != nil {
		fields["category_type"] = domain.StoredCategoryType(*update.Type)
	}
	if update.Color != nil {
		fields["color"] = *update.Color
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}
	if len(fields) == 0 {
		return nil
	}
	return r.client.UpdateRecords(ctx, TableCategories, []Record{{ID: id, Fields: fields}})
}

// Delete removes a category row
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteRecords(ctx, TableCategories, []int64{id})
}

func parseCategory(rec Record) *domain.Category {
	f := rec.Fields
	stored := f.str("category_type")

	name := f.str("category_name")
	if name == "" {
		name = fmt.Sprintf("Category %d", rec.ID)
	}
	color := f.str("color")
	if color == "" {
		color = domain.DefaultCategoryColor
	}

	return &domain.Category{
		ID:          rec.ID,
		Name:        name,
		Type:        domain.CategoryTransactionType(stored),
		StoredType:  stored,
		Color:       color,
		Description: f.str("description"),
		IsActive:    f.boolOr("is_active", true),
		CreatedDate: f.date("created_date"),
	}
}

func categoryFields(c *domain.Category) Fields {
	fields := Fields{
		"category_name": c.Name,
		"category_type": domain.StoredCategoryType(c.Type),
		"color":         c.Color,
		"description":   c.Description,
		"is_active":     c.IsActive,
	}
	if c.CreatedDate != nil {
		fields["created_date"] = epochSeconds(*c.CreatedDate)
	}
	return fields
}
