package grist

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

func TestParseTransaction_Defaults(t *testing.T) {
	tx := parseTransaction(Record{ID: 9, Fields: Fields{
		"amount":           json.Number("250.5"),
		"category_name":    "3",
		"description":      "test",
		"transaction_date": json.Number("1700000000"),
		"transaction_type": " Expense ",
	}})

	assert.Equal(t, int64(9), tx.ID)
	assert.True(t, decimal.RequireFromString("250.5").Equal(tx.Amount))
	assert.True(t, decimal.RequireFromString("250.5").Equal(tx.UnitPrice))
	assert.Equal(t, int64(1), tx.Quantity)
	assert.Equal(t, int64(3), tx.CategoryID)
	assert.Equal(t, domain.TransactionTypeExpense, tx.Type)
	assert.Equal(t, " Expense ", tx.StoredType)
	assert.Equal(t, domain.DefaultPaymentMethod, tx.PaymentMethod)
	assert.Equal(t, domain.DefaultStatus, tx.Status)
	require.NotNil(t, tx.TransactionDate)
	assert.Equal(t, int64(1700000000), tx.TransactionDate.Unix())
	assert.Nil(t, tx.CreatedDate)
}

func TestParseTransaction_MalformedCells(t *testing.T) {
	tx := parseTransaction(Record{ID: 1, Fields: Fields{
		"amount":           "abc",
		"quantity":         "0",
		"category_name":    "Food",
		"transaction_date": "yesterday",
	}})

	assert.True(t, tx.Amount.IsZero())
	assert.Equal(t, int64(1), tx.Quantity)
	assert.Equal(t, int64(0), tx.CategoryID)
	assert.Nil(t, tx.TransactionDate)
}

func TestParseTransaction_UnitPriceFromQuantity(t *testing.T) {
	tx := parseTransaction(Record{ID: 1, Fields: Fields{
		"amount":   json.Number("300"),
		"quantity": json.Number("4"),
	}})
	assert.True(t, decimal.NewFromInt(75).Equal(tx.UnitPrice))
}

func TestParseCategory_Defaults(t *testing.T) {
	c := parseCategory(Record{ID: 4, Fields: Fields{"category_type": "Savings"}})

	assert.Equal(t, "Category 4", c.Name)
	assert.Equal(t, domain.TransactionTypeIncome, c.Type)
	assert.Equal(t, "Savings", c.StoredType)
	assert.Equal(t, domain.DefaultCategoryColor, c.Color)
	assert.True(t, c.IsActive)

	c = parseCategory(Record{ID: 5, Fields: Fields{"category_name": "Rent", "category_type": "EXPENSE", "is_active": false}})
	assert.Equal(t, "Rent", c.Name)
	assert.Equal(t, domain.TransactionTypeExpense, c.Type)
	assert.False(t, c.IsActive)
}

func TestParseBudget_RecomputesVariance(t *testing.T) {
	b := parseBudget(Record{ID: 2, Fields: Fields{
		"category_id":         json.Number("3"),
		"year":                json.Number("2024"),
		"month":               json.Number("5"),
		"planned_amount":      json.Number("1000"),
		"actual_amount":       json.Number("1200"),
		"variance":            json.Number("-1"),
		"variance_percentage": json.Number("-1"),
	}})

	assert.Equal(t, 2024, b.Year)
	assert.Equal(t, 5, b.Month)
	assert.True(t, decimal.NewFromInt(200).Equal(b.Variance))
	assert.True(t, decimal.NewFromInt(20).Equal(b.VariancePercentage))
}

func TestParseMonthlySummary(t *testing.T) {
	s := parseMonthlySummary(Record{ID: 1, Fields: Fields{
		"year":          json.Number("2024"),
		"month":         json.Number("10"),
		"total_income":  json.Number("5000"),
		"total_expense": "1200.25",
		"created_date":  "2024-10-01T08:00:00Z",
	}})

	assert.True(t, decimal.RequireFromString("3799.75").Equal(s.NetProfit))
	assert.Equal(t, int64(0), s.TransactionCount)
	require.NotNil(t, s.CreatedDate)
	assert.Equal(t, time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC), *s.CreatedDate)
}

func TestTransactionRepository_ListByCategory(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `{"category_name":[7,"7"]}`, r.URL.Query().Get("filter"))
		_, _ = w.Write([]byte(`{"records":[{"id":1,"fields":{"category_name":"7","amount":10}}]}`))
	})

	txs, err := NewTransactionRepository(client).ListByCategory(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(7), txs[0].CategoryID)
}

func TestTransactionRepository_NextTransactionID(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[
			{"id":1,"fields":{"transaction_id":3}},
			{"id":2,"fields":{"transaction_id":"11"}},
			{"id":13,"fields":{}}
		]}`))
	})

	next, err := NewTransactionRepository(client).NextTransactionID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(14), next)
}

func TestTransactionRepository_Create(t *testing.T) {
	date := time.Unix(1700000000, 0).UTC()
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			Records []struct {
				Fields map[string]any `json:"fields"`
			} `json:"records"`
		}
		require.NoError(t, json.Unmarshal(body, &payload))
		require.Len(t, payload.Records, 1)
		fields := payload.Records[0].Fields
		assert.Equal(t, 250.5, fields["amount"])
		assert.Equal(t, float64(3), fields["category_name"])
		assert.Equal(t, "expense", fields["transaction_type"])
		assert.Equal(t, float64(1700000000), fields["transaction_date"])

		_, _ = w.Write([]byte(`{"records":[{"id":77}]}`))
	})

	created, err := NewTransactionRepository(client).Create(context.Background(), &domain.Transaction{
		Amount:          decimal.RequireFromString("250.5"),
		UnitPrice:       decimal.RequireFromString("250.5"),
		Quantity:        1,
		CategoryID:      3,
		Type:            domain.TransactionTypeExpense,
		TransactionDate: &date,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(77), created.ID)
}

func TestCategoryRepository_GetByIDMissing(t *testing.T) {
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[]}`))
	})

	_, err := NewCategoryRepository(client).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
}

func TestBudgetRepository_UpdateSkipsEmptyPatch(t *testing.T) {
	called := false
	client := newTestClient(t, "secret", func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	require.NoError(t, NewBudgetRepository(client).Update(context.Background(), 1, domain.BudgetUpdate{}))
	assert.False(t, called)
}
