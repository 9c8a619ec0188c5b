package domain

import "github.com/shopspring/decimal"

// DefaultTrendMonths is the length of the dashboard trend window.
const DefaultTrendMonths = 6

// MaxTrendMonths bounds the trend window a caller may request.
const MaxTrendMonths = 24

// TrendSource tells where a trend bucket's totals came from.
type TrendSource string

const (
	TrendSourceSummary      TrendSource = "summary"
	TrendSourceTransactions TrendSource = "transactions"
)

// TrendPoint is one (year, month) bucket of the dashboard trend.
type TrendPoint struct {
	Label    string          `json:"month"`
	Year     int             `json:"year"`
	Month    int             `json:"monthNumber"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
	Source   TrendSource     `json:"source"`
}

// DashboardStats contains the headline figures for the current month and the
// trailing trend.
type DashboardStats struct {
	Income           decimal.Decimal `json:"income"`
	Expenses         decimal.Decimal `json:"expenses"`
	Profit           decimal.Decimal `json:"profit"`
	TransactionCount int64           `json:"transactionCount"`
	Source           TrendSource     `json:"source"`
	Trends           []TrendPoint    `json:"trends"`
}

// MonthTotals holds income and expense sums for a set of transactions.
type MonthTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Count    int64
}

// Profit returns income minus expenses.
func (t MonthTotals) Profit() decimal.Decimal {
	return CalculateNetProfit(t.Income, t.Expenses)
}

// Add accumulates one transaction of the given resolved type.
func (t *MonthTotals) Add(txType TransactionType, amount decimal.Decimal) {
	switch txType {
	case TransactionTypeIncome:
		t.Income = t.Income.Add(amount)
	case TransactionTypeExpense:
		t.Expenses = t.Expenses.Add(amount)
	}
	t.Count++
}

// CategoryBreakdown is one category's share of income or expense over a period.
type CategoryBreakdown struct {
	CategoryID int64           `json:"categoryId"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Type       TransactionType `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Count      int64           `json:"count"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CategoryReport groups category breakdowns for a reporting period.
type CategoryReport struct {
	Period        string              `json:"period"`
	Months        int                 `json:"months"`
	TotalIncome   decimal.Decimal     `json:"totalIncome"`
	TotalExpenses decimal.Decimal     `json:"totalExpenses"`
	NetProfit     decimal.Decimal     `json:"netProfit"`
	Income        []CategoryBreakdown `json:"income"`
	Expenses      []CategoryBreakdown `json:"expenses"`
}
