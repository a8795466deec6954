package core

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// RevenueSummary is the dashboard view of the shop.
// TotalRevenue is derived from bills (Σ amountPaid), never stored.
type RevenueSummary struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalBilled    decimal.Decimal `json:"totalBilled"`
	TotalPending   decimal.Decimal `json:"totalPending"`
	InvoiceCount   int             `json:"invoiceCount"`
	EstimateCount  int             `json:"estimateCount"`
	CustomerCount  int             `json:"customerCount"`
	ItemCount      int             `json:"itemCount"`
	InventoryUnits int             `json:"inventoryUnits"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

// MonthRevenue aggregates the bills dated in one calendar month.
type MonthRevenue struct {
	Year      int             `json:"year"`
	Month     time.Month      `json:"month"`
	Billed    decimal.Decimal `json:"billed"`
	Collected decimal.Decimal `json:"collected"`
	Bills     int             `json:"bills"`
}

// ReceivableLine is one customer's outstanding balance split by bill age.
type ReceivableLine struct {
	CustomerID   string          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Phone        string          `json:"phone"`
	Current      decimal.Decimal `json:"current"` // 0-30 days
	Days31To60   decimal.Decimal `json:"days31To60"`
	Days61To90   decimal.Decimal `json:"days61To90"`
	Over90       decimal.Decimal `json:"over90"`
	Total        decimal.Decimal `json:"total"`
}

// StatementEntry is one bill on a customer statement with the running outstanding total.
type StatementEntry struct {
	BillID         string          `json:"billId"`
	Type           BillType        `json:"type"`
	Date           time.Time       `json:"date"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	AmountPaid     decimal.Decimal `json:"amountPaid"`
	Balance        decimal.Decimal `json:"balance"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

type CustomerStatement struct {
	Customer       Customer         `json:"customer"`
	Entries        []StatementEntry `json:"entries"`
	TotalBilled    decimal.Decimal  `json:"totalBilled"`
	TotalPaid      decimal.Decimal  `json:"totalPaid"`
	PendingBalance decimal.Decimal  `json:"pendingBalance"`
}

// ReportingService provides read-only views over the loaded document.
type ReportingService interface {
	Summary() (*RevenueSummary, error)
	MonthlyRevenue(year int) ([]MonthRevenue, error)
	Receivables(asOf time.Time) ([]ReceivableLine, error)
	LowStock(threshold int) ([]JewelryItem, error)
	CustomerStatement(customerID string) (*CustomerStatement, error)
}

type reportingService struct {
	store *Store
}

func NewReportingService(store *Store) ReportingService {
	return &reportingService{store: store}
}

func (r *reportingService) Summary() (*RevenueSummary, error) {
	var out RevenueSummary
	err := r.store.view(func(doc *Document) error {
		out = summarize(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reportingService) MonthlyRevenue(year int) ([]MonthRevenue, error) {
	var out []MonthRevenue
	err := r.store.view(func(doc *Document) error {
		out = monthlyRevenue(doc.Bills, year)
		return nil
	})
	return out, err
}

func (r *reportingService) Receivables(asOf time.Time) ([]ReceivableLine, error) {
	var out []ReceivableLine
	err := r.store.view(func(doc *Document) error {
		out = receivables(doc, asOf)
		return nil
	})
	return out, err
}

func (r *reportingService) LowStock(threshold int) ([]JewelryItem, error) {
	var out []JewelryItem
	err := r.store.view(func(doc *Document) error {
		for _, it := range doc.Inventory {
			if it.Quantity <= threshold {
				out = append(out, it)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity < out[j].Quantity
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, err
}

func (r *reportingService) CustomerStatement(customerID string) (*CustomerStatement, error) {
	var out *CustomerStatement
	err := r.store.view(func(doc *Document) error {
		c := doc.customer(customerID)
		if c == nil {
			return notFoundf("customer %s", customerID)
		}
		out = statement(*c, doc.customerBills(customerID))
		return nil
	})
	return out, err
}

// ── Report builders ───────────────────────────────────────────────────────────

func summarize(doc *Document) RevenueSummary {
	s := RevenueSummary{
		TotalRevenue:   TotalRevenue(doc.Bills),
		TotalBilled:    decimal.Zero,
		TotalPending:   decimal.Zero,
		InventoryValue: decimal.Zero,
		CustomerCount:  len(doc.Customers),
		ItemCount:      len(doc.Inventory),
	}
	for _, b := range doc.Bills {
		s.TotalBilled = s.TotalBilled.Add(b.GrandTotal)
		if b.Type == BillTypeInvoice {
			s.InvoiceCount++
		} else {
			s.EstimateCount++
		}
	}
	for _, c := range doc.Customers {
		s.TotalPending = s.TotalPending.Add(c.PendingBalance)
	}
	for _, it := range doc.Inventory {
		s.InventoryUnits += it.Quantity
		s.InventoryValue = s.InventoryValue.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return s
}

func monthlyRevenue(bills []Bill, year int) []MonthRevenue {
	months := make([]MonthRevenue, 12)
	for i := range months {
		months[i] = MonthRevenue{Year: year, Month: time.Month(i + 1), Billed: decimal.Zero, Collected: decimal.Zero}
	}
	for _, b := range bills {
		if b.Date.Year() != year {
			continue
		}
		m := &months[b.Date.Month()-1]
		m.Billed = m.Billed.Add(b.GrandTotal)
		m.Collected = m.Collected.Add(b.AmountPaid)
		m.Bills++
	}
	return months
}

func receivables(doc *Document, asOf time.Time) []ReceivableLine {
	var out []ReceivableLine
	for _, c := range doc.Customers {
		line := ReceivableLine{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Phone:        c.Phone,
			Current:      decimal.Zero,
			Days31To60:   decimal.Zero,
			Days61To90:   decimal.Zero,
			Over90:       decimal.Zero,
			Total:        decimal.Zero,
		}
		for _, b := range doc.customerBills(c.ID) {
			if !b.Balance.IsPositive() {
				continue
			}
			age := int(asOf.Sub(b.Date).Hours() / 24)
			switch {
			case age <= 30:
				line.Current = line.Current.Add(b.Balance)
			case age <= 60:
				line.Days31To60 = line.Days31To60.Add(b.Balance)
			case age <= 90:
				line.Days61To90 = line.Days61To90.Add(b.Balance)
			default:
				line.Over90 = line.Over90.Add(b.Balance)
			}
			line.Total = line.Total.Add(b.Balance)
		}
		if line.Total.IsPositive() {
			out = append(out, line)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Total.GreaterThan(out[j].Total) })
	return out
}

func statement(c Customer, bills []*Bill) *CustomerStatement {
	sorted := append([]*Bill{}, bills...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	st := &CustomerStatement{
		Customer:       c,
		Entries:        []StatementEntry{},
		TotalBilled:    decimal.Zero,
		TotalPaid:      decimal.Zero,
		PendingBalance: c.PendingBalance,
	}
	running := decimal.Zero
	for _, b := range sorted {
		running = running.Add(b.Balance)
		st.TotalBilled = st.TotalBilled.Add(b.GrandTotal)
		st.TotalPaid = st.TotalPaid.Add(b.AmountPaid)
		st.Entries = append(st.Entries, StatementEntry{
			BillID:         b.ID,
			Type:           b.Type,
			Date:           b.Date,
			GrandTotal:     b.GrandTotal,
			AmountPaid:     b.AmountPaid,
			Balance:        b.Balance,
			RunningBalance: running,
		})
	}
	return st
}
