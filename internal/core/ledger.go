package core

import "github.com/shopspring/decimal"

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

// Breakdown holds every derived figure of a bill. It is produced by ComputeBreakdown
// for both the live preview and the committed bill so the two can never drift.
type Breakdown struct {
	TotalGrossWeight         decimal.Decimal `json:"totalGrossWeight"`
	SubtotalBeforeLessWeight decimal.Decimal `json:"subtotalBeforeLessWeight"`
	AverageRatePerGram       decimal.Decimal `json:"averageRatePerGram"`
	LessWeightValue          decimal.Decimal `json:"lessWeightValue"`
	FinalAmount              decimal.Decimal `json:"finalAmount"`
	ExtraChargeAmount        decimal.Decimal `json:"extraChargeAmount"`
	GrandTotal               decimal.Decimal `json:"grandTotal"`
	NetWeight                decimal.Decimal `json:"netWeight"`
}

// ComputeBreakdown derives the bill economics from its lines and adjustments.
//
// The less-weight deduction is valued at the bill's average rate per gram, so it is
// computed as subtotal × lessWeight / grossWeight to avoid rounding the rate first.
// Monetary outputs are rounded to two places. GrandTotal is not clamped: a bargain
// larger than the bill yields a negative total, and the factory clamps the balance.
func ComputeBreakdown(items []BillItem, lessWeight, extraChargePercentage, bargainedAmount decimal.Decimal) Breakdown {
	gross := decimal.Zero
	subtotal := decimal.Zero
	for _, it := range items {
		gross = gross.Add(it.Weight.Mul(decimal.NewFromInt(int64(it.Units()))))
		subtotal = subtotal.Add(it.Price)
	}

	var b Breakdown
	b.TotalGrossWeight = gross
	b.SubtotalBeforeLessWeight = subtotal.Round(2)
	b.AverageRatePerGram = decimal.Zero
	b.LessWeightValue = decimal.Zero
	if gross.IsPositive() {
		b.AverageRatePerGram = subtotal.Div(gross).Round(4)
		b.LessWeightValue = subtotal.Mul(lessWeight).Div(gross).Round(2)
	}
	b.FinalAmount = subtotal.Sub(b.LessWeightValue).Round(2)
	b.ExtraChargeAmount = b.FinalAmount.Mul(extraChargePercentage).Div(hundred).Round(2)
	b.GrandTotal = b.FinalAmount.Add(b.ExtraChargeAmount).Sub(bargainedAmount).Round(2)
	b.NetWeight = gross.Sub(lessWeight)
	return b
}

// settle applies a payment to a freshly computed grand total. A positive balance
// below one currency unit is absorbed into amountPaid; the balance never goes negative.
func settle(grandTotal, amountPaid decimal.Decimal) (paid, balance decimal.Decimal) {
	paid = amountPaid
	balance = grandTotal.Sub(amountPaid)
	if balance.IsPositive() && balance.LessThan(one) {
		paid = paid.Add(balance)
		balance = decimal.Zero
	}
	balance = balance.Round(2)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	return paid.Round(2), balance
}
