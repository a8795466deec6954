package core

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// TotalRevenue is the sum of amountPaid over all bills.
func TotalRevenue(bills []Bill) decimal.Decimal {
	total := decimal.Zero
	for _, b := range bills {
		total = total.Add(b.AmountPaid)
	}
	return total
}

// SetRevenue makes total revenue equal target by appending a self-balancing
// adjustment invoice against the Manual Adjustments customer. It returns nil
// when revenue already equals target. Inventory and pending balances are untouched.
func (s *Store) SetRevenue(ctx context.Context, target decimal.Decimal) (*Bill, error) {
	target = target.Round(2)

	var created *Bill
	err := s.mutate(ctx, "set_revenue", func(doc *Document) error {
		adjustment := target.Sub(TotalRevenue(doc.Bills)).Round(2)
		if adjustment.IsZero() {
			return errNoChange
		}

		if doc.customer(ManualAdjustmentsCustomerID) == nil {
			doc.Customers = append(doc.Customers, Customer{
				ID:             ManualAdjustmentsCustomerID,
				Name:           ManualAdjustmentsCustomerName,
				Phone:          "-",
				JoinDate:       s.now(),
				PendingBalance: decimal.Zero,
			})
		}

		bill := Bill{
			ID:           s.newID(),
			Type:         BillTypeInvoice,
			CustomerID:   ManualAdjustmentsCustomerID,
			CustomerName: ManualAdjustmentsCustomerName,
			Items: []BillItem{{
				ItemID: manualAdjustmentItemID,
				Name:   "Revenue adjustment",
				Weight: decimal.Zero,
				Price:  adjustment,
			}},
			TotalAmount:           adjustment,
			LessWeight:            decimal.Zero,
			NetWeight:             decimal.Zero,
			BargainedAmount:       decimal.Zero,
			ExtraChargePercentage: decimal.Zero,
			ExtraChargeAmount:     decimal.Zero,
			FinalAmount:           adjustment,
			GrandTotal:            adjustment,
			AmountPaid:            adjustment,
			Balance:               decimal.Zero,
			Date:                  s.now(),
		}
		doc.Bills = append(doc.Bills, bill)
		created = &bill
		return nil
	})
	if errors.Is(err, errNoChange) {
		return nil, nil
	}
	return created, err
}

// errNoChange aborts a mutation that turned out to be a no-op, skipping the write.
var errNoChange = errors.New("no change")
