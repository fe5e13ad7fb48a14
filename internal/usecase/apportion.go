package usecase

import (
	"math"

	"github.com/shopspring/decimal"
)

// Apportion returns a sub-category's share of a campaign total given its
// percentage of audience: total * (percentage / 100). Percentages outside
// [0, 100] are accepted and produce out-of-range shares; normalization is an
// upstream concern.
func Apportion(total, percentage float64) float64 {
	return total * percentage / 100
}

// apportionCount apportions an integer total and rounds the share to the
// nearest whole unit at accumulation time.
func apportionCount(total int64, percentage float64) int64 {
	return int64(math.Round(Apportion(float64(total), percentage)))
}

// apportionAmount apportions a monetary total. The share stays an exact
// decimal until the display boundary rounds it.
func apportionAmount(total decimal.Decimal, percentage float64) decimal.Decimal {
	return total.Mul(decimal.NewFromFloat(percentage)).Div(decimal.NewFromInt(100))
}

// round2 rounds a rate to two decimals for display.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// displayAmount rounds an exact monetary amount to its two-decimal display form.
func displayAmount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
