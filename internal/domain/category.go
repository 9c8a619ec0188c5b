package domain

import (
	"context"
	"regexp"
	"time"
)

// Category defaults
const (
	DefaultCategoryColor     = "#10B981"
	UnspecifiedCategoryName  = "Unspecified category"
	UnspecifiedCategoryColor = "#6B7280"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

type Category struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Type        TransactionType `json:"type"`
	StoredType  string          `json:"-"`
	Color       string          `json:"color"`
	Description string          `json:"description"`
	IsActive    bool            `json:"isActive"`
	CreatedDate *time.Time      `json:"createdDate,omitempty"`
}

// CategoryUpdate holds the columns to change on a category.
type CategoryUpdate struct {
	Name        *string
	Type        *TransactionType
	Color       *string
	Description *string
	IsActive    *bool
}

// Apply copies every non-nil field of u onto c.
func (c *Category) Apply(u CategoryUpdate) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Type != nil {
		c.Type = *u.Type
		c.StoredType = StoredCategoryType(*u.Type)
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.IsActive != nil {
		c.IsActive = *u.IsActive
	}
}

type CategoryRepository interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, category *Category) (*Category, error)
	Update(ctx context.Context, id int64, update CategoryUpdate) error
	Delete(ctx context.Context, id int64) error
}

// StoredCategoryType is the capitalized form categories keep in the store.
func StoredCategoryType(t TransactionType) string {
	if t == TransactionTypeExpense {
		return "Expense"
	}
	return "Income"
}

// IsValidColor reports whether color is a #RGB or #RRGGBB hex string.
func IsValidColor(color string) bool {
	return hexColorPattern.MatchString(color)
}

// CategoriesByID indexes categories by their record id.
func CategoriesByID(categories []*Category) map[int64]*Category {
	byID := make(map[int64]*Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}
	return byID
}
