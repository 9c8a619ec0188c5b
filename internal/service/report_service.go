package service

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/util"
)

// ReportPeriods maps the accepted period names onto trailing month counts.
var ReportPeriods = map[string]int{
	"1months":  1,
	"3months":  3,
	"6months":  6,
	"12months": 12,
}

// DefaultReportPeriod is used when no period is requested
const DefaultReportPeriod = "6months"

var hundred = decimal.NewFromInt(100)

// ReportService builds per-category breakdowns over trailing periods
type ReportService struct {
	loader   ledgerLoader
	location *time.Location
	now      Clock
}

// NewReportService creates a new ReportService
func NewReportService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository) *ReportService {
	return &ReportService{
		loader: ledgerLoader{
			transactionRepo: transactionRepo,
			categoryRepo:    categoryRepo,
		},
		location: time.UTC,
		now:      time.Now,
	}
}

// SetClock overrides the time source
func (s *ReportService) SetClock(clock Clock) {
	s.now = clock
}

// SetLocation sets the time zone months are bucketed in
func (s *ReportService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// GetCategoryReport sums income and expense per category over the period
// ending with the current month. Each category's share is a percentage of its
// type's total, rounded to 2 places. Categories are ordered by amount.
func (s *ReportService) GetCategoryReport(ctx context.Context, period string) (*domain.CategoryReport, error) {
	if period == "" {
		period = DefaultReportPeriod
	}
	months, ok := ReportPeriods[period]
	if !ok {
		return nil, domain.ValidationErrors{
			domain.NewValidationError("period", "Period must be one of 1months, 3months, 6months, 12months"),
		}
	}

	data := s.loader.load(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	window := util.TrailingMonths(now.Year(), int(now.Month()), months)
	inWindow := func(t time.Time) bool {
		for _, ym := range window {
			if domain.InMonth(t, s.location, ym.Year, ym.Month) {
				return true
			}
		}
		return false
	}

	income := map[int64]*domain.CategoryBreakdown{}
	expenses := map[int64]*domain.CategoryBreakdown{}
	report := &domain.CategoryReport{Period: period, Months: months}

	for _, t := range data.transactions {
		if !inWindow(*t.TransactionDate) {
			continue
		}
		bucket := expenses
		if t.Type == domain.TransactionTypeIncome {
			bucket = income
			report.TotalIncome = report.TotalIncome.Add(t.Amount)
		} else {
			report.TotalExpenses = report.TotalExpenses.Add(t.Amount)
		}

		entry, ok := bucket[t.CategoryID]
		if !ok {
			entry = &domain.CategoryBreakdown{
				CategoryID: t.CategoryID,
				Name:       domain.UnspecifiedCategoryName,
				Color:      domain.UnspecifiedCategoryColor,
				Type:       t.Type,
			}
			if category, found := data.categories[t.CategoryID]; found {
				entry.Name = category.Name
				entry.Color = category.Color
			}
			bucket[t.CategoryID] = entry
		}
		entry.Amount = entry.Amount.Add(t.Amount)
		entry.Count++
	}

	report.NetProfit = domain.CalculateNetProfit(report.TotalIncome, report.TotalExpenses)
	report.Income = breakdownList(income, report.TotalIncome)
	report.Expenses = breakdownList(expenses, report.TotalExpenses)
	return report, nil
}

func breakdownList(entries map[int64]*domain.CategoryBreakdown, total decimal.Decimal) []domain.CategoryBreakdown {
	list := make([]domain.CategoryBreakdown, 0, len(entries))
	for _, e := range entries {
		if total.IsPositive() {
			e.Percentage = e.Amount.Div(total).Mul(hundred).Round(2)
		}
		list = append(list, *e)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Amount.Equal(list[j].Amount) {
			return list[i].Amount.GreaterThan(list[j].Amount)
		}
		return list[i].CategoryID < list[j].CategoryID
	})
	return list
}
