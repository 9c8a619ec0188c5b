package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/testutil"
)

var fixedNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newBudgetService() (*BudgetService, *testutil.MockBudgetRepository, *testutil.MockCategoryRepository, *testutil.MockEventPublisher) {
	budgets := testutil.NewMockBudgetRepository()
	categories := testutil.NewMockCategoryRepository()
	categories.AddCategory(&domain.Category{ID: 3, Name: "Rent", Type: domain.TransactionTypeExpense})
	publisher := &testutil.MockEventPublisher{}

	svc := NewBudgetService(budgets, categories)
	svc.SetClock(fixedClock)
	svc.SetEventPublisher(publisher)
	return svc, budgets, categories, publisher
}

func TestBudgetService_CreateBudget_Variance(t *testing.T) {
	tests := []struct {
		name        string
		planned     string
		actual      *string
		wantVar     string
		wantPercent string
	}{
		{"over budget", "1000", ptr("1200"), "200", "20"},
		{"zero planned", "0", ptr("500"), "500", "0"},
		{"under budget", "800", ptr("600"), "-200", "-25"},
		{"actual omitted", "400", nil, "-400", "-100"},
		{"rounded percentage", "3", ptr("4"), "1", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, publisher := newBudgetService()

			input := BudgetInput{
				CategoryID:    ptr(int64(3)),
				Year:          ptr(2026),
				Month:         ptr(10),
				PlannedAmount: ptr(dec(tt.planned)),
			}
			if tt.actual != nil {
				input.ActualAmount = ptr(dec(*tt.actual))
			}

			budget, err := svc.CreateBudget(context.Background(), input)
			require.NoError(t, err)

			assert.True(t, dec(tt.wantVar).Equal(budget.Variance), "variance = %s", budget.Variance)
			assert.True(t, dec(tt.wantPercent).Equal(budget.VariancePercentage), "percentage = %s", budget.VariancePercentage)
			assert.Len(t, repo.Budgets, 1)
			assert.Equal(t, []string{"budget.created"}, publisher.Types())
		})
	}
}

func TestBudgetService_CreateBudget_Validation(t *testing.T) {
	svc, repo, _, _ := newBudgetService()

	_, err := svc.CreateBudget(context.Background(), BudgetInput{
		Year:  ptr(1999),
		Month: ptr(13),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, len(verrs))
	for i, v := range verrs {
		fields[i] = v.Field
	}
	assert.ElementsMatch(t, []string{"category_id", "planned_amount", "year", "month"}, fields)
	assert.Empty(t, repo.Budgets)
}

func TestBudgetService_CreateBudget_ZeroPlannedIsPresent(t *testing.T) {
	svc, _, _, _ := newBudgetService()

	_, err := svc.CreateBudget(context.Background(), BudgetInput{
		CategoryID:    ptr(int64(3)),
		Year:          ptr(2026),
		Month:         ptr(1),
		PlannedAmount: ptr(decimal.Zero),
	})
	assert.NoError(t, err)
}

func TestBudgetService_CreateBudget_UnknownCategory(t *testing.T) {
	svc, repo, _, _ := newBudgetService()

	_, err := svc.CreateBudget(context.Background(), BudgetInput{
		CategoryID:    ptr(int64(99)),
		Year:          ptr(2026),
		Month:         ptr(10),
		PlannedAmount: ptr(dec("100")),
	})
	require.Error(t, err)

	var verrs domain.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "category_id", verrs[0].Field)
	assert.Empty(t, repo.Budgets)
}

func TestBudgetService_CreateBudget_CategoryLookupFails(t *testing.T) {
	svc, _, categories, _ := newBudgetService()
	categories.GetErr = domain.ErrStoreUnavailable

	_, err := svc.CreateBudget(context.Background(), BudgetInput{
		CategoryID:    ptr(int64(3)),
		Year:          ptr(2026),
		Month:         ptr(10),
		PlannedAmount: ptr(dec("100")),
	})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBudgetService_UpdateBudget_RecomputesFromMergedValues(t *testing.T) {
	svc, repo, _, publisher := newBudgetService()
	repo.AddBudget(&domain.Budget{
		ID:            5,
		CategoryID:    3,
		Year:          2026,
		Month:         10,
		PlannedAmount: dec("1000"),
		ActualAmount:  dec("900"),
	})

	budget, err := svc.UpdateBudget(context.Background(), 5, BudgetInput{ActualAmount: ptr(dec("1500"))})
	require.NoError(t, err)

	assert.True(t, dec("500").Equal(budget.Variance))
	assert.True(t, dec("50").Equal(budget.VariancePercentage))
	require.Len(t, repo.Updates, 1)
	require.NotNil(t, repo.Updates[0].Variance)
	assert.True(t, dec("500").Equal(*repo.Updates[0].Variance))
	assert.Nil(t, repo.Updates[0].PlannedAmount)
	assert.Equal(t, []string{"budget.updated"}, publisher.Types())
}

func TestBudgetService_UpdateBudget_WithoutAmountsLeavesVariance(t *testing.T) {
	svc, repo, _, _ := newBudgetService()
	repo.AddBudget(&domain.Budget{ID: 5, CategoryID: 3, Year: 2026, Month: 10, PlannedAmount: dec("10")})

	_, err := svc.UpdateBudget(context.Background(), 5, BudgetInput{Month: ptr(11)})
	require.NoError(t, err)

	require.Len(t, repo.Updates, 1)
	assert.Nil(t, repo.Updates[0].Variance)
	assert.Equal(t, 11, repo.Budgets[5].Month)
}

func TestBudgetService_UpdateBudget_NotFound(t *testing.T) {
	svc, _, _, publisher := newBudgetService()

	_, err := svc.UpdateBudget(context.Background(), 42, BudgetInput{Month: ptr(2)})
	assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
	assert.Empty(t, publisher.Events)
}

func TestBudgetService_DeleteBudget(t *testing.T) {
	t.Run("deletes existing budget", func(t *testing.T) {
		svc, repo, _, publisher := newBudgetService()
		repo.AddBudget(&domain.Budget{ID: 5})

		require.NoError(t, svc.DeleteBudget(context.Background(), 5))
		assert.Equal(t, []int64{5}, repo.Deleted)
		assert.Equal(t, []string{"budget.deleted"}, publisher.Types())
	})

	t.Run("missing budget is not found", func(t *testing.T) {
		svc, repo, _, _ := newBudgetService()

		err := svc.DeleteBudget(context.Background(), 5)
		assert.ErrorIs(t, err, domain.ErrBudgetNotFound)
		assert.Empty(t, repo.Deleted)
	})

	t.Run("failed pre-check lets the delete decide", func(t *testing.T) {
		svc, repo, _, _ := newBudgetService()
		repo.AddBudget(&domain.Budget{ID: 5})
		repo.GetErr = domain.ErrStoreUnavailable

		require.NoError(t, svc.DeleteBudget(context.Background(), 5))
		assert.Equal(t, []int64{5}, repo.Deleted)
	})
}
