package display

import (
	"fmt"
	"io"
	"strings"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/core"
)

const width = 78

func rule(w io.Writer, ch string) {
	fmt.Fprintln(w, strings.Repeat(ch, width))
}

func header(w io.Writer, title string) {
	fmt.Fprintln(w)
	rule(w, "=")
	fmt.Fprintf(w, "  %s\n", title)
	rule(w, "=")
}

func Inventory(w io.Writer, items []core.JewelryItem) {
	header(w, "INVENTORY")
	if len(items) == 0 {
		fmt.Fprintln(w, "  No items found.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-10s %-6s %-22s %10s %6s %14s %5s\n", "CATEGORY", "SERIAL", "NAME", "WEIGHT", "PURITY", "PRICE", "QTY")
	rule(w, "-")
	for _, it := range items {
		fmt.Fprintf(w, "  %-10s %-6s %-22s %10s %6s %14s %5d\n",
			it.Category, it.SerialNo, truncate(it.Name, 22), Grams(it.Weight), it.Purity, Money(it.Price), it.Quantity)
	}
	rule(w, "=")
}

func Customers(w io.Writer, customers []core.Customer) {
	header(w, "CUSTOMERS")
	if len(customers) == 0 {
		fmt.Fprintln(w, "  No customers found.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-10s %-28s %-15s %16s\n", "ID", "NAME", "PHONE", "PENDING")
	rule(w, "-")
	for _, c := range customers {
		fmt.Fprintf(w, "  %-10s %-28s %-15s %16s\n", c.ID, truncate(c.Name, 28), c.Phone, Money(c.PendingBalance))
	}
	rule(w, "=")
}

func Bills(w io.Writer, bills []core.Bill) {
	header(w, "BILLS")
	if len(bills) == 0 {
		fmt.Fprintln(w, "  No bills found.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-10s %-8s %-10s %-18s %14s %14s\n", "DATE", "TYPE", "CUSTOMER", "ID", "TOTAL", "BALANCE")
	rule(w, "-")
	for _, b := range bills {
		fmt.Fprintf(w, "  %-10s %-8s %-10s %-18s %14s %14s\n",
			b.Date.Format("2006-01-02"), b.Type, b.CustomerID, truncate(b.ID, 18), Money(b.GrandTotal), Money(b.Balance))
	}
	rule(w, "=")
}

// Bill prints one bill with its lines and the full breakdown.
func Bill(w io.Writer, b *core.Bill) {
	header(w, fmt.Sprintf("%s %s", b.Type, b.ID))
	fmt.Fprintf(w, "  Customer : %s (%s)\n", b.CustomerName, b.CustomerID)
	fmt.Fprintf(w, "  Date     : %s\n", b.Date.Format("2006-01-02 15:04"))
	rule(w, "-")
	billLines(w, b.Items)
	rule(w, "-")
	row(w, "Subtotal", Money(b.TotalAmount))
	row(w, "Less weight", Grams(b.LessWeight))
	row(w, "Net weight", Grams(b.NetWeight))
	row(w, "After less weight", Money(b.FinalAmount))
	row(w, fmt.Sprintf("Extra charge (%s%%)", b.ExtraChargePercentage.String()), Money(b.ExtraChargeAmount))
	row(w, "Discount", Money(b.BargainedAmount))
	row(w, "Grand total", Money(b.GrandTotal))
	row(w, "Paid", Money(b.AmountPaid))
	row(w, "Balance", Money(b.Balance))
	rule(w, "=")
}

// Preview prints the live figures of a draft.
func Preview(w io.Writer, p *app.PreviewResult) {
	header(w, "BILL PREVIEW")
	billLines(w, p.Items)
	rule(w, "-")
	row(w, "Gross weight", Grams(p.Preview.TotalGrossWeight))
	row(w, "Net weight", Grams(p.Preview.NetWeight))
	row(w, "Subtotal", Money(p.Preview.SubtotalBeforeLessWeight))
	row(w, "Less weight value", Money(p.Preview.LessWeightValue))
	row(w, "After less weight", Money(p.Preview.FinalAmount))
	row(w, "Extra charge", Money(p.Preview.ExtraChargeAmount))
	row(w, "Grand total", Money(p.Preview.GrandTotal))
	row(w, "Paid", Money(p.Preview.AmountPaid))
	row(w, "Balance", Money(p.Preview.Balance))
	rule(w, "=")
}

func billLines(w io.Writer, items []core.BillItem) {
	fmt.Fprintf(w, "  %-34s %5s %12s %16s\n", "ITEM", "QTY", "WEIGHT", "AMOUNT")
	for _, it := range items {
		fmt.Fprintf(w, "  %-34s %5d %12s %16s\n", truncate(it.Name, 34), it.Units(), Grams(it.Weight), Money(it.Price))
	}
}

func row(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-40s %20s\n", label, value)
}

func Payment(w io.Writer, p *core.PaymentResult) {
	header(w, fmt.Sprintf("PAYMENT %s from %s", Money(p.Amount), p.CustomerID))
	for _, a := range p.Allocations {
		fmt.Fprintf(w, "  %-30s applied %14s  balance %14s\n", a.BillID, Money(a.Applied), Money(a.Balance))
	}
	for _, a := range p.ResidueCredits {
		fmt.Fprintf(w, "  %-30s rounded %14s\n", a.BillID, Money(a.Applied))
	}
	if p.Unapplied.IsPositive() {
		row(w, "Unapplied", Money(p.Unapplied))
	}
	row(w, "Pending balance", Money(p.PendingBalance))
	rule(w, "=")
}

func Summary(w io.Writer, s *core.RevenueSummary) {
	header(w, "SHOP SUMMARY")
	row(w, "Total revenue (collected)", Money(s.TotalRevenue))
	row(w, "Total billed", Money(s.TotalBilled))
	row(w, "Total pending", Money(s.TotalPending))
	row(w, "Invoices / estimates", fmt.Sprintf("%d / %d", s.InvoiceCount, s.EstimateCount))
	row(w, "Customers", Count(s.CustomerCount))
	row(w, "Items / units in stock", fmt.Sprintf("%s / %s", Count(s.ItemCount), Count(s.InventoryUnits)))
	row(w, "Inventory value", Money(s.InventoryValue))
	rule(w, "=")
}

func Receivables(w io.Writer, r *app.ReceivablesResult) {
	header(w, "RECEIVABLES as of "+r.AsOf.Format("2006-01-02"))
	if len(r.Lines) == 0 {
		fmt.Fprintln(w, "  Nothing outstanding.")
		rule(w, "=")
		return
	}
	fmt.Fprintf(w, "  %-18s %13s %13s %13s %13s\n", "CUSTOMER", "0-30", "31-60", "61-90", "90+")
	rule(w, "-")
	for _, l := range r.Lines {
		fmt.Fprintf(w, "  %-18s %13s %13s %13s %13s\n",
			truncate(l.CustomerName, 18), Money(l.Current), Money(l.Days31To60), Money(l.Days61To90), Money(l.Over90))
	}
	rule(w, "=")
}

func Statement(w io.Writer, st *core.CustomerStatement) {
	header(w, fmt.Sprintf("STATEMENT %s (%s)", st.Customer.Name, st.Customer.ID))
	fmt.Fprintf(w, "  %-10s %-8s %14s %14s %14s\n", "DATE", "TYPE", "TOTAL", "PAID", "RUNNING")
	rule(w, "-")
	for _, e := range st.Entries {
		fmt.Fprintf(w, "  %-10s %-8s %14s %14s %14s\n",
			e.Date.Format("2006-01-02"), e.Type, Money(e.GrandTotal), Money(e.AmountPaid), Money(e.RunningBalance))
	}
	rule(w, "-")
	row(w, "Pending balance", Money(st.PendingBalance))
	rule(w, "=")
}

func Issues(w io.Writer, issues []core.Inconsistency) {
	if len(issues) == 0 {
		fmt.Fprintln(w, "Ledger is consistent.")
		return
	}
	fmt.Fprintf(w, "%d inconsistencies found:\n", len(issues))
	for _, i := range issues {
		fmt.Fprintf(w, "  %s\n", i)
	}
}

// Proposal prints an AI bill draft before confirmation.
func Proposal(w io.Writer, p *core.DraftProposal) {
	fmt.Fprintf(w, "\nCUSTOMER:   %s\n", p.CustomerID)
	fmt.Fprintf(w, "TYPE:       %s\n", p.BillType)
	fmt.Fprintf(w, "REASONING:  %s\n", p.Reasoning)
	fmt.Fprintf(w, "CONFIDENCE: %.2f\n", p.Confidence)
	fmt.Fprintln(w, "LINES:")
	for _, l := range p.Lines {
		fmt.Fprintf(w, "  %s #%s x%d\n", l.Category, l.SerialNo, l.Quantity)
	}
	fmt.Fprintf(w, "LESS WEIGHT: %s  EXTRA: %s  DISCOUNT: %s  PAID: %s\n",
		p.LessWeight, orDefault(p.ExtraChargePercentage), p.BargainedAmount, p.AmountPaid)
}

func orDefault(s string) string {
	if s == "" {
		return "default"
	}
	return s + "%"
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
