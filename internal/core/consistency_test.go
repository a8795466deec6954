package core_test

import (
	"context"
	"testing"

	"jewelry-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(issues []core.Inconsistency) []string {
	var out []string
	for _, i := range issues {
		out = append(out, i.Kind)
	}
	return out
}

func TestVerifyConsistency_CleanAfterOperations(t *testing.T) {
	env := newTestEnv(t, nil)
	cust := env.addCustomer(t, "Asha")
	env.billFor(t, cust.ID, core.BillTypeInvoice, "1000.75", "0")
	env.billFor(t, cust.ID, core.BillTypeEstimate, "250", "10")
	_, err := env.store.RecordPayment(context.Background(), cust.ID, d("1000"))
	require.NoError(t, err)

	doc, err := env.store.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, core.VerifyConsistency(doc))
}

func TestVerifyConsistency_ReportsViolations(t *testing.T) {
	doc := core.NewDocument()
	doc.Customers = []core.Customer{
		{ID: "C0001", Name: "A", PendingBalance: d("100")},
		{ID: "C0001", Name: "Dup", PendingBalance: d("0")},
	}
	doc.Bills = []core.Bill{
		{ID: "b1", Type: core.BillTypeInvoice, CustomerID: "C0001", GrandTotal: d("100"), AmountPaid: d("0"), Balance: d("90")},
		{ID: "b2", Type: "RECEIPT", CustomerID: "C0404", Balance: d("-1")},
	}
	doc.Inventory = []core.JewelryItem{
		{ID: "i1", Category: "Ring", SerialNo: "0001", Quantity: -2},
		{ID: "i2", Category: "Ring", SerialNo: "0001"},
	}

	got := kinds(core.VerifyConsistency(doc))
	for _, want := range []string{
		"duplicate_customer", "bill_balance", "bill_type", "negative_balance",
		"orphan_bill", "pending_mismatch", "negative_stock", "duplicate_serial",
	} {
		assert.Contains(t, got, want)
	}
}
