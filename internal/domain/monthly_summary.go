package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type MonthlySummary struct {
	ID               int64           `json:"id"`
	SummaryID        int64           `json:"summaryId"`
	Year             int             `json:"year"`
	Month            int             `json:"month"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	TransactionCount int64           `json:"transactionCount"`
	CreatedDate      *time.Time      `json:"createdDate,omitempty"`
}

// Recalculate refreshes the derived net profit from the totals.
func (s *MonthlySummary) Recalculate() {
	s.NetProfit = CalculateNetProfit(s.TotalIncome, s.TotalExpense)
}

// MonthlySummaryUpdate holds the columns to change on a summary row.
type MonthlySummaryUpdate struct {
	Year             *int
	Month            *int
	TotalIncome      *decimal.Decimal
	TotalExpense     *decimal.Decimal
	NetProfit        *decimal.Decimal
	TransactionCount *int64
}

// Apply copies every non-nil field of u onto s.
func (s *MonthlySummary) Apply(u MonthlySummaryUpdate) {
	if u.Year != nil {
		s.Year = *u.Year
	}
	if u.Month != nil {
		s.Month = *u.Month
	}
	if u.TotalIncome != nil {
		s.TotalIncome = *u.TotalIncome
	}
	if u.TotalExpense != nil {
		s.TotalExpense = *u.TotalExpense
	}
	if u.NetProfit != nil {
		s.NetProfit = *u.NetProfit
	}
	if u.TransactionCount != nil {
		s.TransactionCount = *u.TransactionCount
	}
}

type MonthlySummaryRepository interface {
	List(ctx context.Context) ([]*MonthlySummary, error)
	GetByID(ctx context.Context, id int64) (*MonthlySummary, error)
	Create(ctx context.Context, summary *MonthlySummary) (*MonthlySummary, error)
	Update(ctx context.Context, id int64, update MonthlySummaryUpdate) error
	Delete(ctx context.Context, id int64) error
}

// FindSummary returns the first summary for year/month, or nil.
func FindSummary(summaries []*MonthlySummary, year, month int) *MonthlySummary {
	for _, s := range summaries {
		if s.Year == year && s.Month == month {
			return s
		}
	}
	return nil
}
