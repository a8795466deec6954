package core_test

import (
	"testing"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporting(t *testing.T) {
	env := newTestEnv(t, nil)
	a := env.addCustomer(t, "Anand")
	b := env.addCustomer(t, "Bhavna")
	env.addItem(t, "Band", core.CategoryRing, "4", "1000", 1)
	env.addItem(t, "Choker", core.CategoryNecklace, "20", "5000", 8)
	env.billFor(t, a.ID, core.BillTypeInvoice, "1000", "400")
	env.billFor(t, a.ID, core.BillTypeEstimate, "500", "0")
	env.billFor(t, b.ID, core.BillTypeInvoice, "2000", "2000")

	reports := core.NewReportingService(env.store)

	t.Run("summary", func(t *testing.T) {
		s, err := reports.Summary()
		require.NoError(t, err)
		assertDecimal(t, "2400", s.TotalRevenue, "revenue")
		assertDecimal(t, "3500", s.TotalBilled, "billed")
		assertDecimal(t, "1100", s.TotalPending, "pending")
		assert.Equal(t, 2, s.InvoiceCount)
		assert.Equal(t, 1, s.EstimateCount)
		assert.Equal(t, 2, s.CustomerCount)
		assert.Equal(t, 9, s.InventoryUnits)
		assertDecimal(t, "41000", s.InventoryValue, "inventory value")
	})

	t.Run("monthly", func(t *testing.T) {
		months, err := reports.MonthlyRevenue(2024)
		require.NoError(t, err)
		require.Len(t, months, 12)
		assert.Equal(t, time.January, months[0].Month)
		assert.Equal(t, 3, months[0].Bills)
		assertDecimal(t, "2400", months[0].Collected)
		assertDecimal(t, "0", months[1].Billed)
	})

	t.Run("receivables", func(t *testing.T) {
		lines, err := reports.Receivables(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, lines, 1)
		assert.Equal(t, a.ID, lines[0].CustomerID)
		assertDecimal(t, "1100", lines[0].Days61To90)
		assertDecimal(t, "1100", lines[0].Total)
		assertDecimal(t, "0", lines[0].Current)
	})

	t.Run("low stock", func(t *testing.T) {
		items, err := reports.LowStock(1)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Band", items[0].Name)
	})

	t.Run("customer statement", func(t *testing.T) {
		st, err := reports.CustomerStatement(a.ID)
		require.NoError(t, err)
		require.Len(t, st.Entries, 2)
		assertDecimal(t, "600", st.Entries[0].RunningBalance)
		assertDecimal(t, "1100", st.Entries[1].RunningBalance)
		assertDecimal(t, "1100", st.PendingBalance)
		assertDecimal(t, "400", st.TotalPaid)

		_, err = reports.CustomerStatement("C0404")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
