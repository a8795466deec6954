package core

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AllocatePayment spreads amount over bills oldest-first, paying each open bill
// min(remaining, balance) until the amount runs out. Bills are updated in place.
// It returns the allocations made and the part of amount that found no open bill.
func AllocatePayment(bills []*Bill, amount decimal.Decimal) ([]Allocation, decimal.Decimal) {
	open := make([]*Bill, 0, len(bills))
	for _, b := range bills {
		if b.Balance.IsPositive() {
			open = append(open, b)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].Date.Before(open[j].Date) })

	remaining := amount
	var allocations []Allocation
	for _, b := range open {
		if !remaining.IsPositive() {
			break
		}
		applied := decimal.Min(remaining, b.Balance)
		b.AmountPaid = b.AmountPaid.Add(applied)
		b.Balance = b.Balance.Sub(applied)
		remaining = remaining.Sub(applied)
		allocations = append(allocations, Allocation{BillID: b.ID, Applied: applied, Balance: b.Balance})
	}
	return allocations, remaining
}

// CreditResidue pays off a residual pending balance below one currency unit,
// crediting the most recent open bills first.
func CreditResidue(bills []*Bill, residue decimal.Decimal) []Allocation {
	open := make([]*Bill, 0, len(bills))
	for _, b := range bills {
		if b.Balance.IsPositive() {
			open = append(open, b)
		}
	}
	sort.SliceStable(open, func(i, j int) bool { return open[i].Date.After(open[j].Date) })

	var credits []Allocation
	for _, b := range open {
		if !residue.IsPositive() {
			break
		}
		applied := decimal.Min(residue, b.Balance)
		b.AmountPaid = b.AmountPaid.Add(applied)
		b.Balance = b.Balance.Sub(applied)
		residue = residue.Sub(applied)
		credits = append(credits, Allocation{BillID: b.ID, Applied: applied, Balance: b.Balance})
	}
	return credits
}

func sumBalances(bills []*Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.Balance)
	}
	return total
}

// RecordPayment applies a customer payment across their open bills oldest-first
// and recomputes the pending balance from the bills. A pending balance left
// strictly between 0 and 1 is written off against the newest bills.
//
// A non-positive amount is ignored. Amounts above the pending balance are applied
// as far as they go; the excess is reported as Unapplied.
func (s *Store) RecordPayment(ctx context.Context, customerID string, amount decimal.Decimal) (*PaymentResult, error) {
	amount = amount.Round(2)
	result := &PaymentResult{CustomerID: customerID, Amount: amount, Unapplied: decimal.Zero}

	if !amount.IsPositive() {
		s.log.Debug("ignoring non-positive payment", zap.String("customer", customerID), zap.Stringer("amount", amount))
		err := s.view(func(doc *Document) error {
			cust := doc.customer(customerID)
			if cust == nil {
				return notFoundf("customer %s", customerID)
			}
			result.PendingBalance = cust.PendingBalance
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	err := s.mutate(ctx, "record_payment", func(doc *Document) error {
		cust := doc.customer(customerID)
		if cust == nil {
			return notFoundf("customer %s", customerID)
		}

		bills := doc.customerBills(customerID)
		result.Allocations, result.Unapplied = AllocatePayment(bills, amount)

		pending := sumBalances(bills).Round(2)
		if pending.IsPositive() && pending.LessThan(one) {
			result.ResidueCredits = CreditResidue(bills, pending)
			pending = decimal.Zero
		}
		cust.PendingBalance = pending
		result.PendingBalance = pending
		return nil
	})
	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			return result, err
		}
		return nil, err
	}
	return result, nil
}
