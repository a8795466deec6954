package core_test

import (
	"context"
	"testing"

	"jewelry-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRevenue(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, nil)
	cust := env.addCustomer(t, "Anita")
	ring := env.addItem(t, "Band", core.CategoryRing, "4", "1000", 5)
	env.billFor(t, cust.ID, core.BillTypeInvoice, "1000", "1000")
	env.billFor(t, cust.ID, core.BillTypeInvoice, "400", "0")

	totalRevenue := func() string {
		doc, err := env.store.Snapshot()
		require.NoError(t, err)
		return core.TotalRevenue(doc.Bills).String()
	}

	adj, err := env.store.SetRevenue(ctx, d("1500"))
	require.NoError(t, err)
	require.NotNil(t, adj)
	assert.Equal(t, core.ManualAdjustmentsCustomerID, adj.CustomerID)
	assert.Equal(t, core.BillTypeInvoice, adj.Type)
	assertDecimal(t, "500", adj.GrandTotal)
	assertDecimal(t, "500", adj.AmountPaid)
	assertDecimal(t, "0", adj.Balance)
	require.Len(t, adj.Items, 1)
	assertDecimal(t, "0", adj.Items[0].Weight)
	assertDecimal(t, "1500", d(totalRevenue()))

	adj, err = env.store.SetRevenue(ctx, d("1200"))
	require.NoError(t, err)
	require.NotNil(t, adj)
	assertDecimal(t, "-300", adj.GrandTotal)
	assertDecimal(t, "1200", d(totalRevenue()))

	bills, err := env.store.ListBills(core.BillFilter{})
	require.NoError(t, err)
	adj, err = env.store.SetRevenue(ctx, d("1200"))
	require.NoError(t, err)
	assert.Nil(t, adj, "matching target is a no-op")
	after, err := env.store.ListBills(core.BillFilter{})
	require.NoError(t, err)
	assert.Len(t, after, len(bills))

	customers, err := env.store.Customers()
	require.NoError(t, err)
	manual := 0
	for _, c := range customers {
		if c.ID == core.ManualAdjustmentsCustomerID {
			manual++
			assert.Equal(t, core.ManualAdjustmentsCustomerName, c.Name)
			assertDecimal(t, "0", c.PendingBalance)
		}
		if c.ID == cust.ID {
			assertDecimal(t, "400", c.PendingBalance, "real customers are untouched")
		}
	}
	assert.Equal(t, 1, manual)

	r, err := env.store.Item(ring.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Quantity)

	doc, err := env.store.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, core.VerifyConsistency(doc))
}
