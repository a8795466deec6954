package core

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// BillPreview is what the operator sees while drafting: the breakdown plus the
// payment split the factory would commit.
type BillPreview struct {
	Breakdown
	AmountPaid decimal.Decimal `json:"amountPaid"`
	Balance    decimal.Decimal `json:"balance"`
}

// PreviewBill computes a draft's figures without touching any state.
func PreviewBill(draft BillDraft) BillPreview {
	b := ComputeBreakdown(draft.Items, draft.LessWeight, draft.ExtraChargePercentage, draft.BargainedAmount)
	paid, balance := settle(b.GrandTotal, draft.AmountPaid)
	return BillPreview{Breakdown: b, AmountPaid: paid, Balance: balance}
}

// CreateBill validates the draft, appends the bill, raises the customer's pending
// balance and, for invoices, decrements inventory.
//
// If the in-memory step succeeds but the write fails, the created bill is returned
// together with the *PersistenceError.
func (s *Store) CreateBill(ctx context.Context, draft BillDraft) (*Bill, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var created Bill
	err := s.mutate(ctx, "create_bill", func(doc *Document) error {
		cust := doc.customer(draft.CustomerID)
		if cust == nil {
			return notFoundf("customer %s", draft.CustomerID)
		}

		bill := assembleBill(draft, cust.Name, s.newID(), s.now())
		cust.PendingBalance = cust.PendingBalance.Add(bill.Balance).Round(2)
		doc.Bills = append(doc.Bills, bill)

		if bill.Type == BillTypeInvoice {
			for _, it := range bill.Items {
				decrementStock(doc, it.ItemID, it.Units())
			}
		}
		created = bill
		return nil
	})
	if err != nil {
		var pe *PersistenceError
		if errors.As(err, &pe) {
			return &created, err
		}
		return nil, err
	}
	return &created, nil
}

func assembleBill(draft BillDraft, customerName, id string, now time.Time) Bill {
	p := PreviewBill(draft)
	return Bill{
		ID:                    id,
		Type:                  draft.Type,
		CustomerID:            draft.CustomerID,
		CustomerName:          customerName,
		Items:                 append([]BillItem{}, draft.Items...),
		TotalAmount:           p.SubtotalBeforeLessWeight,
		LessWeight:            draft.LessWeight,
		NetWeight:             p.NetWeight,
		BargainedAmount:       draft.BargainedAmount,
		ExtraChargePercentage: draft.ExtraChargePercentage,
		ExtraChargeAmount:     p.ExtraChargeAmount,
		FinalAmount:           p.FinalAmount,
		GrandTotal:            p.GrandTotal,
		AmountPaid:            p.AmountPaid,
		Balance:               p.Balance,
		Date:                  now,
	}
}

// decrementStock lowers an item's quantity, floored at zero. Items that no longer
// exist have nothing to decrement.
func decrementStock(doc *Document, itemID string, units int) {
	item := doc.item(itemID)
	if item == nil {
		return
	}
	item.Quantity -= units
	if item.Quantity < 0 {
		item.Quantity = 0
	}
}
