// Package display renders ledger data for terminal adapters.
package display

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Money formats an amount with Indian digit grouping and two decimals, e.g. ₹1,23,456.00.
func Money(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return printer.Sprintf("₹%v", number.Decimal(f, number.Scale(2)))
}

// Grams formats a weight to three decimals.
func Grams(d decimal.Decimal) string {
	return d.StringFixed(3) + "g"
}

// Count formats an integer with digit grouping.
func Count(n int) string {
	return printer.Sprintf("%v", number.Decimal(n))
}
