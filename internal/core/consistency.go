package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Inconsistency describes one broken ledger invariant in a document.
type Inconsistency struct {
	Kind    string `json:"kind"`
	Ref     string `json:"ref"`
	Message string `json:"message"`
}

func (i Inconsistency) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Kind, i.Ref, i.Message)
}

// VerifyConsistency checks the ledger invariants of doc and returns every violation found.
func VerifyConsistency(doc Document) []Inconsistency {
	var issues []Inconsistency
	add := func(kind, ref, format string, args ...any) {
		issues = append(issues, Inconsistency{Kind: kind, Ref: ref, Message: fmt.Sprintf(format, args...)})
	}

	customers := make(map[string]*Customer, len(doc.Customers))
	for i := range doc.Customers {
		c := &doc.Customers[i]
		if _, dup := customers[c.ID]; dup {
			add("duplicate_customer", c.ID, "customer id appears more than once")
		}
		customers[c.ID] = c
		if c.PendingBalance.IsNegative() {
			add("negative_pending", c.ID, "pending balance %s is negative", c.PendingBalance)
		}
	}

	sums := make(map[string]decimal.Decimal)
	for _, b := range doc.Bills {
		if !b.Type.Valid() {
			add("bill_type", b.ID, "unknown bill type %q", b.Type)
		}
		if b.Balance.IsNegative() {
			add("negative_balance", b.ID, "balance %s is negative", b.Balance)
		}
		if want := b.GrandTotal.Sub(b.AmountPaid); b.Balance.IsPositive() && !want.Round(2).Equal(b.Balance) {
			add("bill_balance", b.ID, "balance %s != grandTotal %s - amountPaid %s", b.Balance, b.GrandTotal, b.AmountPaid)
		}
		if _, ok := customers[b.CustomerID]; !ok {
			add("orphan_bill", b.ID, "customer %s does not exist", b.CustomerID)
			continue
		}
		sums[b.CustomerID] = sums[b.CustomerID].Add(b.Balance)
	}

	for _, c := range doc.Customers {
		want := sums[c.ID].Round(2)
		if !want.Equal(c.PendingBalance.Round(2)) {
			add("pending_mismatch", c.ID, "pending balance %s != sum of bill balances %s", c.PendingBalance, want)
		}
	}

	seen := make(map[string]bool)
	for _, it := range doc.Inventory {
		if it.Quantity < 0 {
			add("negative_stock", it.ID, "quantity %d is negative", it.Quantity)
		}
		key := it.Category + "#" + it.SerialNo
		if seen[key] {
			add("duplicate_serial", it.ID, "serial %s repeats in category %s", it.SerialNo, it.Category)
		}
		seen[key] = true
	}
	return issues
}
