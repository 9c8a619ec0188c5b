package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/testutil"
)

func newReportService() (*ReportService, *testutil.MockTransactionRepository, *testutil.MockCategoryRepository) {
	transactions := testutil.NewMockTransactionRepository()
	categories := testutil.NewMockCategoryRepository()
	categories.AddCategory(&domain.Category{ID: 1, Name: "Sales", Type: domain.TransactionTypeIncome, Color: "#10B981"})
	categories.AddCategory(&domain.Category{ID: 2, Name: "Rent", Type: domain.TransactionTypeExpense, Color: "#EF4444"})
	categories.AddCategory(&domain.Category{ID: 3, Name: "Food", Type: domain.TransactionTypeExpense, Color: "#F59E0B"})

	svc := NewReportService(transactions, categories)
	svc.SetClock(fixedClock)
	return svc, transactions, categories
}

func addReportTx(repo *testutil.MockTransactionRepository, id, categoryID int64, amount string, year, month int) {
	date := day(year, month, 10)
	repo.AddTransaction(&domain.Transaction{ID: id, CategoryID: categoryID, Amount: dec(amount), TransactionDate: &date})
}

func TestReportService_GetCategoryReport(t *testing.T) {
	svc, transactions, _ := newReportService()
	addReportTx(transactions, 1, 1, "1000", 2026, 10)
	addReportTx(transactions, 2, 2, "250", 2026, 10)
	addReportTx(transactions, 3, 3, "100", 2026, 9)
	addReportTx(transactions, 4, 3, "200", 2026, 8)
	addReportTx(transactions, 5, 2, "5000", 2026, 1)
	addReportTx(transactions, 6, 9, "50", 2026, 10)

	report, err := svc.GetCategoryReport(context.Background(), "3months")
	require.NoError(t, err)

	assert.Equal(t, "3months", report.Period)
	assert.Equal(t, 3, report.Months)
	assert.True(t, dec("1000").Equal(report.TotalIncome))
	assert.True(t, dec("600").Equal(report.TotalExpenses))
	assert.True(t, dec("400").Equal(report.NetProfit))

	require.Len(t, report.Income, 1)
	assert.Equal(t, "Sales", report.Income[0].Name)
	assert.True(t, dec("100").Equal(report.Income[0].Percentage))

	require.Len(t, report.Expenses, 3)
	assert.Equal(t, "Food", report.Expenses[0].Name)
	assert.True(t, dec("300").Equal(report.Expenses[0].Amount))
	assert.Equal(t, int64(2), report.Expenses[0].Count)
	assert.True(t, dec("50").Equal(report.Expenses[0].Percentage), "percentage = %s", report.Expenses[0].Percentage)
	assert.Equal(t, "Rent", report.Expenses[1].Name)

	unknown := report.Expenses[2]
	assert.Equal(t, int64(9), unknown.CategoryID)
	assert.Equal(t, domain.UnspecifiedCategoryName, unknown.Name)
	assert.Equal(t, domain.UnspecifiedCategoryColor, unknown.Color)
}

func TestReportService_GetCategoryReport_DefaultPeriod(t *testing.T) {
	svc, _, _ := newReportService()

	report, err := svc.GetCategoryReport(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultReportPeriod, report.Period)
	assert.Empty(t, report.Income)
	assert.Empty(t, report.Expenses)
	assert.True(t, report.NetProfit.IsZero())
}

func TestReportService_GetCategoryReport_InvalidPeriod(t *testing.T) {
	svc, _, _ := newReportService()

	_, err := svc.GetCategoryReport(context.Background(), "2weeks")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorContains(t, err, "period")
}
