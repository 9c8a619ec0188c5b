package service

import (
	"context"
	"time"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
	"github.com/dafibh/finboard/finboard-backend/internal/util"
)

// DefaultDashboardLocale labels trend months in Thai
const DefaultDashboardLocale = "th"

// DashboardService aggregates the dashboard headline and trend
type DashboardService struct {
	loader   ledgerLoader
	location *time.Location
	now      Clock
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(transactionRepo domain.TransactionRepository, categoryRepo domain.CategoryRepository, summaryRepo domain.MonthlySummaryRepository) *DashboardService {
	return &DashboardService{
		loader: ledgerLoader{
			transactionRepo: transactionRepo,
			categoryRepo:    categoryRepo,
			summaryRepo:     summaryRepo,
		},
		location: time.UTC,
		now:      time.Now,
	}
}

// SetClock overrides the time source
func (s *DashboardService) SetClock(clock Clock) {
	s.now = clock
}

// SetLocation sets the time zone months are bucketed in
func (s *DashboardService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.location = loc
	}
}

// GetStats returns the current month's totals and the trailing trend.
//
// The headline is computed from transactions. When the current month has no
// income and no expense but a monthly summary exists for it, the summary is
// shown instead. Each trend month prefers its summary row and otherwise sums
// that month's transactions.
func (s *DashboardService) GetStats(ctx context.Context, months int, locale string) (*domain.DashboardStats, error) {
	if months < 1 {
		months = domain.DefaultTrendMonths
	}
	if months > domain.MaxTrendMonths {
		months = domain.MaxTrendMonths
	}
	if locale == "" {
		locale = DefaultDashboardLocale
	}

	data := s.loader.load(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	year, month := now.Year(), int(now.Month())

	stats := &domain.DashboardStats{Source: domain.TrendSourceTransactions}
	current := data.monthTotals(s.location, year, month)
	if summary := domain.FindSummary(data.summaries, year, month); summary != nil &&
		current.Income.IsZero() && current.Expenses.IsZero() {
		stats.Income = summary.TotalIncome
		stats.Expenses = summary.TotalExpense
		stats.Profit = summary.NetProfit
		stats.TransactionCount = summary.TransactionCount
		stats.Source = domain.TrendSourceSummary
	} else {
		stats.Income = current.Income
		stats.Expenses = current.Expenses
		stats.Profit = current.Profit()
		stats.TransactionCount = current.Count
	}

	stats.Trends = s.trend(data, util.TrailingMonths(year, month, months), locale)
	return stats, nil
}

func (s *DashboardService) trend(data *ledger, months []util.YearMonth, locale string) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, len(months))
	for _, ym := range months {
		point := domain.TrendPoint{
			Label: util.MonthLabel(locale, ym.Year, ym.Month),
			Year:  ym.Year,
			Month: ym.Month,
		}
		if summary := domain.FindSummary(data.summaries, ym.Year, ym.Month); summary != nil {
			point.Income = summary.TotalIncome
			point.Expenses = summary.TotalExpense
			point.Profit = summary.NetProfit
			point.Source = domain.TrendSourceSummary
		} else {
			totals := data.monthTotals(s.location, ym.Year, ym.Month)
			point.Income = totals.Income
			point.Expenses = totals.Expenses
			point.Profit = totals.Profit()
			point.Source = domain.TrendSourceTransactions
		}
		points = append(points, point)
	}
	return points
}
