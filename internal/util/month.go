package util

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month int
}

var thaiMonthAbbr = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// TrailingMonths returns the n months ending at year/month, oldest first
func TrailingMonths(year, month, n int) []YearMonth {
	if n <= 0 {
		return nil
	}
	months := make([]YearMonth, n)
	for i := n - 1; i >= 0; i-- {
		months[i] = YearMonth{Year: year, Month: month}
		year, month = PreviousMonth(year, month)
	}
	return months
}

// MonthLabel returns the abbreviated month name followed by the year.
// locale "th" uses Thai abbreviations; anything else uses English.
func MonthLabel(locale string, year, month int) string {
	if month < 1 || month > 12 {
		return fmt.Sprintf("%d/%d", month, year)
	}
	if locale == "th" {
		return fmt.Sprintf("%s %d", thaiMonthAbbr[month-1], year)
	}
	return fmt.Sprintf("%s %d", time.Month(month).String()[:3], year)
}

// IsValidYear returns true if year is within [2000, currentYear+10]
func IsValidYear(year int, now time.Time) bool {
	return year >= 2000 && year <= now.Year()+10
}

// IsValidMonth returns true for 1..12
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
