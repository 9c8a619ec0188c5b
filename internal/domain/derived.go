package domain

import "github.com/shopspring/decimal"

// VariancePrecision is the number of decimal places kept on variance percentages.
const VariancePrecision = 2

var hundred = decimal.NewFromInt(100)

// Variance holds the derived budget fields.
type Variance struct {
	Variance           decimal.Decimal `json:"variance"`
	VariancePercentage decimal.Decimal `json:"variancePercentage"`
}

// CalculateVariance returns actual - planned and its share of planned in percent.
// The percentage is 0 whenever planned is not positive.
func CalculateVariance(planned, actual decimal.Decimal) Variance {
	variance := actual.Sub(planned)

	percentage := decimal.Zero
	if planned.IsPositive() {
		percentage = variance.Div(planned).Mul(hundred).Round(VariancePrecision)
	}

	return Variance{
		Variance:           variance,
		VariancePercentage: percentage,
	}
}

// CalculateNetProfit returns income - expense.
func CalculateNetProfit(income, expense decimal.Decimal) decimal.Decimal {
	return income.Sub(expense)
}
