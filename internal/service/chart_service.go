package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/dafibh/finboard/finboard-backend/internal/domain"
)

// Chart labels use English month names; the bundled chart font has no Thai glyphs.
const chartLocale = "en"

const minChartMonths = 2

// ChartService renders dashboard data as PNG images
type ChartService struct {
	dashboard *DashboardService
	reports   *ReportService
}

// NewChartService creates a new ChartService
func NewChartService(dashboard *DashboardService, reports *ReportService) *ChartService {
	return &ChartService{
		dashboard: dashboard,
		reports:   reports,
	}
}

// RenderTrendChart draws income, expenses and profit for the trailing months
func (s *ChartService) RenderTrendChart(ctx context.Context, months int) ([]byte, error) {
	if months < minChartMonths {
		months = minChartMonths
	}
	stats, err := s.dashboard.GetStats(ctx, months, chartLocale)
	if err != nil {
		return nil, err
	}
	return renderTrend(stats.Trends)
}

// RenderExpenseChart draws each expense category's share over the period
func (s *ChartService) RenderExpenseChart(ctx context.Context, period string) ([]byte, error) {
	report, err := s.reports.GetCategoryReport(ctx, period)
	if err != nil {
		return nil, err
	}
	return renderBreakdown("Expenses by category", report.Expenses)
}

func renderTrend(points []domain.TrendPoint) ([]byte, error) {
	if len(points) < minChartMonths {
		return nil, domain.ErrNoChartData
	}

	xValues := make([]float64, len(points))
	incomeValues := make([]float64, len(points))
	expenseValues := make([]float64, len(points))
	profitValues := make([]float64, len(points))
	ticks := make([]chart.Tick, len(points))

	low, high := 0.0, 0.0
	for i, p := range points {
		xValues[i] = float64(i)
		incomeValues[i] = p.Income.InexactFloat64()
		expenseValues[i] = p.Expenses.InexactFloat64()
		profitValues[i] = p.Profit.InexactFloat64()
		ticks[i] = chart.Tick{Value: float64(i), Label: p.Label}
		for _, v := range []float64{incomeValues[i], expenseValues[i], profitValues[i]} {
			low = min(low, v)
			high = max(high, v)
		}
	}
	if high == low {
		high = low + 1
	}

	graph := chart.Chart{
		Title:  "Income and expenses",
		Width:  1200,
		Height: 600,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: low, Max: high * 1.1},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
			Style: chart.Style{
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Income",
				XValues: xValues,
				YValues: incomeValues,
				Style: chart.Style{
					StrokeColor: chart.ColorGreen,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Expenses",
				XValues: xValues,
				YValues: expenseValues,
				Style: chart.Style{
					StrokeColor: chart.ColorRed,
					StrokeWidth: 2,
				},
			},
			chart.ContinuousSeries{
				Name:    "Profit",
				XValues: xValues,
				YValues: profitValues,
				Style: chart.Style{
					StrokeColor:     chart.ColorBlue,
					StrokeWidth:     2,
					StrokeDashArray: []float64{5.0, 5.0},
				},
			},
		},
	}

	graph.Elements = []chart.Renderable{
		chart.Legend(&graph, chart.Style{
			FontSize:  12,
			FontColor: chart.ColorBlack,
		}),
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render trend chart: %w", err)
	}
	return buffer.Bytes(), nil
}

func renderBreakdown(title string, entries []domain.CategoryBreakdown) ([]byte, error) {
	values := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s%%)", e.Name, e.Percentage.StringFixed(1)),
			Value: e.Amount.InexactFloat64(),
			Style: chart.Style{
				FillColor: categoryColor(e.Color),
				FontSize:  12,
				FontColor: chart.ColorBlack,
			},
		})
	}
	if len(values) == 0 {
		return nil, domain.ErrNoChartData
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  800,
		Height: 800,
		Values: values,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   50,
				Right:  50,
				Bottom: 50,
			},
			FillColor: chart.ColorWhite,
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := pie.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render category chart: %w", err)
	}
	return buffer.Bytes(), nil
}

// categoryColor converts a #RGB or #RRGGBB category color. Invalid colors fall
// back to the chart palette.
func categoryColor(hex string) drawing.Color {
	if !domain.IsValidColor(hex) {
		return drawing.Color{}
	}
	return drawing.ColorFromHex(hex[1:])
}

