package report

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatAmount rounds amount to whole currency units and adds thousands separators,
// e.g. 1234567.5 -> "1,234,568".
func FormatAmount(amount float64) string {
	return humanize.Comma(decimal.NewFromFloat(amount).Round(0).IntPart())
}

// FormatDecimal renders amount with two decimal places and no separators, for
// machine-readable output.
func FormatDecimal(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
