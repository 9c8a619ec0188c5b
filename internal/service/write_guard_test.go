package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/repository/grist"
)

// newKeylessClient returns a client without an API key pointed at a document
// that rejects unauthenticated requests, and a counter of requests received.
func newKeylessClient(t *testing.T) (*grist.Client, *int64) {
	t.Helper()
	var calls int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	client, err := grist.NewClient(grist.Config{DocID: "doc123", BaseURL: srv.URL, HTTPClient: srv.Client()})
	require.NoError(t, err)
	return client, &calls
}

func TestWriteGuard_KeylessClientRejectsMutations(t *testing.T) {
	client, calls := newKeylessClient(t)
	ctx := context.Background()

	budgets := NewBudgetService(grist.NewBudgetRepository(client), grist.NewCategoryRepository(client))
	budgets.SetWriteGuard(client)
	categories := NewCategoryService(grist.NewCategoryRepository(client), grist.NewTransactionRepository(client))
	categories.SetWriteGuard(client)
	transactions := NewTransactionService(grist.NewTransactionRepository(client), grist.NewCategoryRepository(client))
	transactions.SetWriteGuard(client)
	summaries := NewMonthlySummaryService(grist.NewMonthlySummaryRepository(client))
	summaries.SetWriteGuard(client)

	date := time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)
	txInput := TransactionInput{
		TransactionDate: &date,
		Amount:          ptr(dec("100")),
		CategoryID:      ptr(int64(3)),
		Description:     ptr("supplies"),
	}

	mutations := map[string]func() error{
		"create budget": func() error {
			_, err := budgets.CreateBudget(ctx, BudgetInput{CategoryID: ptr(int64(3)), Year: ptr(2026), Month: ptr(10), PlannedAmount: ptr(dec("10"))})
			return err
		},
		"update budget": func() error { _, err := budgets.UpdateBudget(ctx, 1, BudgetInput{PlannedAmount: ptr(dec("5"))}); return err },
		"delete budget": func() error { return budgets.DeleteBudget(ctx, 1) },
		"create category": func() error {
			_, err := categories.CreateCategory(ctx, CategoryInput{Name: ptr("Rent"), Type: ptr("expense")})
			return err
		},
		"update category":    func() error { _, err := categories.UpdateCategory(ctx, 7, CategoryInput{Name: ptr("Rent")}); return err },
		"delete category":    func() error { return categories.DeleteCategory(ctx, 7) },
		"create transaction": func() error { _, err := transactions.CreateTransaction(ctx, txInput); return err },
		"update transaction": func() error {
			_, err := transactions.UpdateTransaction(ctx, 1, TransactionInput{Amount: ptr(dec("5"))})
			return err
		},
		"delete transaction": func() error { return transactions.DeleteTransaction(ctx, 1) },
		"create summary": func() error {
			_, err := summaries.CreateSummary(ctx, MonthlySummaryInput{Year: ptr(2026), Month: ptr(10)})
			return err
		},
		"update summary": func() error { _, err := summaries.UpdateSummary(ctx, 1, MonthlySummaryInput{Month: ptr(9)}); return err },
		"delete summary": func() error { return summaries.DeleteSummary(ctx, 1) },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			err := mutate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrStoreNotConfigured), err.Error())
			assert.False(t, errors.Is(err, domain.ErrStorePermission))
		})
	}
	assert.Zero(t, atomic.LoadInt64(calls))
}

func TestWriteGuard_ReadsStillReachStore(t *testing.T) {
	client, calls := newKeylessClient(t)
	svc := NewCategoryService(grist.NewCategoryRepository(client), grist.NewTransactionRepository(client))
	svc.SetWriteGuard(client)

	_, err := svc.ListCategories(context.Background())

	assert.True(t, errors.Is(err, domain.ErrStorePermission))
	assert.Equal(t, int64(1), atomic.LoadInt64(calls))
}
