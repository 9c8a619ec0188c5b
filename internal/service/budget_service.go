package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/websocket"
)

// BudgetService handles budget lines and their variance
type BudgetService struct {
	writeGate
	budgetRepo     domain.BudgetRepository
	categoryRepo   domain.CategoryRepository
	eventPublisher websocket.EventPublisher
	now            Clock
}

// NewBudgetService creates a new BudgetService
func NewBudgetService(budgetRepo domain.BudgetRepository, categoryRepo domain.CategoryRepository) *BudgetService {
	return &BudgetService{
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for real-time updates
func (s *BudgetService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *BudgetService) SetClock(clock Clock) {
	s.now = clock
}

func (s *BudgetService) publishEvent(event websocket.Event) {
	if s.eventPublisher != nil {
		s.eventPublisher.Publish(event)
	}
}

// BudgetInput holds submitted budget fields. Nil means not sent.
type BudgetInput struct {
	CategoryID    *int64
	Year          *int
	Month         *int
	PlannedAmount *decimal.Decimal
	ActualAmount  *decimal.Decimal
}

// ListBudgets returns every budget line with variance recomputed
func (s *BudgetService) ListBudgets(ctx context.Context) ([]*domain.Budget, error) {
	return s.budgetRepo.List(ctx)
}

// CreateBudget validates input, derives variance and stores the budget
func (s *BudgetService) CreateBudget(ctx context.Context, input BudgetInput) (*domain.Budget, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	v.require("category_id", input.CategoryID != nil)
	v.require("year", input.Year != nil)
	v.require("month", input.Month != nil)
	v.require("planned_amount", input.PlannedAmount != nil)
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
		return nil, err
	}

	budget := &domain.Budget{
		CategoryID:    *input.CategoryID,
		Year:          *input.Year,
		Month:         *input.Month,
		PlannedAmount: *input.PlannedAmount,
		ActualAmount:  decimal.Zero,
	}
	if input.ActualAmount != nil {
		budget.ActualAmount = *input.ActualAmount
	}
	budget.Recalculate()

	created, err := s.budgetRepo.Create(ctx, budget)
	if err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Created(websocket.EntityTypeBudget, created))
	return created, nil
}

// UpdateBudget patches a budget. Variance is recomputed from the merged
// amounts whenever either amount is part of the patch.
func (s *BudgetService) UpdateBudget(ctx context.Context, id int64, input BudgetInput) (*domain.Budget, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}
	var v fieldErrors
	s.validate(&v, input)
	if err := v.err(); err != nil {
		return nil, err
	}

	current, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != current.CategoryID {
		if err := s.checkCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	update := domain.BudgetUpdate{
		CategoryID:    input.CategoryID,
		Year:          input.Year,
		Month:         input.Month,
		PlannedAmount: input.PlannedAmount,
		ActualAmount:  input.ActualAmount,
	}

	merged := *current
	merged.Apply(update)
	if input.PlannedAmount != nil || input.ActualAmount != nil {
		merged.Recalculate()
		update.Variance = &merged.Variance
		update.VariancePercentage = &merged.VariancePercentage
	}

	if err := s.budgetRepo.Update(ctx, id, update); err != nil {
		return nil, err
	}

	s.publishEvent(websocket.Updated(websocket.EntityTypeBudget, &merged))
	return &merged, nil
}

// DeleteBudget removes a budget line
func (s *BudgetService) DeleteBudget(ctx context.Context, id int64) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	err := deleteWithPrecheck(ctx, "budget", id, domain.ErrBudgetNotFound,
		func(ctx context.Context, id int64) error {
			_, err := s.budgetRepo.GetByID(ctx, id)
			return err
		},
		s.budgetRepo.Delete,
	)
	if err != nil {
		return err
	}

	s.publishEvent(websocket.Deleted(websocket.EntityTypeBudget, id))
	return nil
}

func (s *BudgetService) validate(v *fieldErrors, input BudgetInput) {
	v.year("year", input.Year, s.now())
	v.month("month", input.Month)
}

func (s *BudgetService) checkCategory(ctx context.Context, categoryID int64) error {
	if _, err := s.categoryRepo.GetByID(ctx, categoryID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.ValidationErrors{domain.NewValidationError("category_id", "Category not found")}
		}
		return fmt.Errorf("look up category: %w", err)
	}
	return nil
}
