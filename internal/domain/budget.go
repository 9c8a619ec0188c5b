package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Budget struct {
	ID                 int64           `json:"id"`
	BudgetID           int64           `json:"budgetId"`
	CategoryID         int64           `json:"categoryId"`
	Year               int             `json:"year"`
	Month              int             `json:"month"`
	PlannedAmount      decimal.Decimal `json:"plannedAmount"`
	ActualAmount       decimal.Decimal `json:"actualAmount"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
}

// Recalculate refreshes the derived variance fields from the amounts.
func (b *Budget) Recalculate() {
	v := CalculateVariance(b.PlannedAmount, b.ActualAmount)
	b.Variance = v.Variance
	b.VariancePercentage = v.VariancePercentage
}

// BudgetUpdate holds the columns to change on a budget.
type BudgetUpdate struct {
	CategoryID         *int64
	Year               *int
	Month              *int
	PlannedAmount      *decimal.Decimal
	ActualAmount       *decimal.Decimal
	Variance           *decimal.Decimal
	VariancePercentage *decimal.Decimal
}

// Apply copies every non-nil field of u onto b.
func (b *Budget) Apply(u BudgetUpdate) {
	if u.CategoryID != nil {
		b.CategoryID = *u.CategoryID
	}
	if u.Year != nil {
		b.Year = *u.Year
	}
	if u.Month != nil {
		b.Month = *u.Month
	}
	if u.PlannedAmount != nil {
		b.PlannedAmount = *u.PlannedAmount
	}
	if u.ActualAmount != nil {
		b.ActualAmount = *u.ActualAmount
	}
	if u.Variance != nil {
		b.Variance = *u.Variance
	}
	if u.VariancePercentage != nil {
		b.VariancePercentage = *u.VariancePercentage
	}
}

type BudgetRepository interface {
	List(ctx context.Context) ([]*Budget, error)
	GetByID(ctx context.Context, id int64) (*Budget, error)
	Create(ctx context.Context, budget *Budget) (*Budget, error)
	Update(ctx context.Context, id int64, update BudgetUpdate) error
	Delete(ctx context.Context, id int64) error
}
