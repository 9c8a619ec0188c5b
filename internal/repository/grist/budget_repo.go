package grist

import (
	"context"
	"fmt"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// BudgetRepository implements domain.BudgetRepository on the Budget table
type BudgetRepository struct {
	client *Client
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(client *Client) *BudgetRepository {
	return &BudgetRepository{client: client}
}

// List returns every budget line
func (r *BudgetRepository) List(ctx context.Context) ([]*domain.Budget, error) {
	records, err := r.client.FetchRecords(ctx, TableBudget, Query{})
	if err != nil {
		return nil, err
	}
	budgets := make([]*domain.Budget, 0, len(records))
	for _, rec := range records {
		budgets = append(budgets, parseBudget(rec))
	}
	return budgets, nil
}

// GetByID returns domain.ErrBudgetNotFound when no row has the id
func (r *BudgetRepository) GetByID(ctx context.Context, id int64) (*domain.Budget, error) {
	records, err := r.client.FetchRecords(ctx, TableBudget, byID(id))
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, domain.ErrBudgetNotFound
	}
	return parseBudget(records[0]), nil
}

// Create inserts a budget line and returns it with its new id
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	ids, err := r.client.AddRecords(ctx, TableBudget, []Fields{budgetFields(budget)})
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("add budget: no id returned")
	}
	created := *budget
	created.ID = ids[0]
	return &created, nil
}

// Update writes the non-nil columns of update
func (r *BudgetRepository) Update(ctx context.Context, id int64, update domain.BudgetUpdate) error {
	fields := Fields{}
	if update.CategoryID != nil {
		fields["category_id"] = *update.CategoryID
	}
	if update.Year != nil {
		fields["year"] = *update.Year
	}
	if update.Month != nil {
		fields["month"] = *update.Month
	}
	if update.PlannedAmount != nil {
		fields["planned_amount"] = number(*update.PlannedAmount)
	}
	if update.ActualAmount != nil {
		fields["actual_amount"] = number(*update.ActualAmount)
	}
	if update.Variance != nil {
		fields["variance"] = number(*update.Variance)
	}
	if update.VariancePercentage != nil {
		fields["variance_percentage"] = number(*update.VariancePercentage)
	}
	if len(fields) == 0 {
		return nil
	}
	return r.client.UpdateRecords(ctx, TableBudget, []Record{{ID: id, Fields: fields}})
}

// Delete removes a budget row
func (r *BudgetRepository) Delete(ctx context.Context, id int64) error {
	return r.client.DeleteRecords(ctx, TableBudget, []int64{id})
}

func parseBudget(rec Record) *domain.Budget {
	f := rec.Fields
	b := &domain.Budget{
		ID:            rec.ID,
		BudgetID:      f.int64Or("budget_id", 0),
		CategoryID:    f.int64Or("category_id", 0),
		Year:          f.intOr("year", 0),
		Month:         f.intOr("month", 0),
		PlannedAmount: f.decimal("planned_amount"),
		ActualAmount:  f.decimal("actual_amount"),
	}
	b.Recalculate()
	return b
}

func budgetFields(b *domain.Budget) Fields {
	return Fields{
		"category_id":         b.CategoryID,
		"year":                b.Year,
		"month":               b.Month,
		"planned_amount":      number(b.PlannedAmount),
		"actual_amount":       number(b.ActualAmount),
		"variance":            number(b.Variance),
		"variance_percentage": number(b.VariancePercentage),
	}
}
