package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentSchemaVersion is written into every persisted document.
// Documents without a version field are treated as version 1.
const DocumentSchemaVersion = 1

// Well-known categories. Any other label is accepted as a free-text "Other" category.
const (
	CategoryRing     = "Ring"
	CategoryNecklace = "Necklace"
	CategoryBracelet = "Bracelet"
	CategoryEarrings = "Earrings"
	CategoryOther    = "Other"
)

type BillType string

const (
	BillTypeEstimate BillType = "ESTIMATE"
	BillTypeInvoice  BillType = "INVOICE"
)

// Valid reports whether t is one of the two supported bill types.
func (t BillType) Valid() bool {
	return t == BillTypeEstimate || t == BillTypeInvoice
}

// ManualAdjustmentsCustomerID identifies the synthetic customer that carries revenue adjustments.
const (
	ManualAdjustmentsCustomerID   = "MANUAL-ADJ"
	ManualAdjustmentsCustomerName = "Manual Adjustments"
	manualAdjustmentItemID        = "manual-adjustment"
)

type JewelryItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	SerialNo  string          `json:"serialNo"`
	Weight    decimal.Decimal `json:"weight"`
	Purity    string          `json:"purity"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageUrl,omitempty"`
	DateAdded time.Time       `json:"dateAdded"`
}

type Customer struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Phone          string          `json:"phone"`
	DOB            *time.Time      `json:"dob,omitempty"`
	JoinDate       time.Time       `json:"joinDate"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
}

// BillItem is a snapshot of an inventory item taken when the bill is drafted.
// Price is the line amount. Weight is per unit and is multiplied by Quantity
// (0 means 1) when computing the gross weight.
type BillItem struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Weight   decimal.Decimal `json:"weight"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity,omitempty"`
	ImageURL string          `json:"imageUrl,omitempty"`
}

// Units returns the effective quantity of the line.
func (i BillItem) Units() int {
	if i.Quantity <= 0 {
		return 1
	}
	return i.Quantity
}

type Bill struct {
	ID                    string          `json:"id"`
	Type                  BillType        `json:"type"`
	CustomerID            string          `json:"customerId"`
	CustomerName          string          `json:"customerName"`
	Items                 []BillItem      `json:"items"`
	TotalAmount           decimal.Decimal `json:"totalAmount"`
	LessWeight            decimal.Decimal `json:"lessWeight"`
	NetWeight             decimal.Decimal `json:"netWeight"`
	BargainedAmount       decimal.Decimal `json:"bargainedAmount"`
	ExtraChargePercentage decimal.Decimal `json:"extraChargePercentage"`
	ExtraChargeAmount     decimal.Decimal `json:"extraChargeAmount"`
	FinalAmount           decimal.Decimal `json:"finalAmount"`
	GrandTotal            decimal.Decimal `json:"grandTotal"`
	AmountPaid            decimal.Decimal `json:"amountPaid"`
	Balance               decimal.Decimal `json:"balance"`
	Date                  time.Time       `json:"date"`
}

// Document is the whole persisted state of one shop.
type Document struct {
	SchemaVersion int           `json:"schemaVersion"`
	Inventory     []JewelryItem `json:"inventory"`
	Customers     []Customer    `json:"customers"`
	Bills         []Bill        `json:"bills"`
}

// NewDocument returns an empty document at the current schema version.
func NewDocument() Document {
	return Document{
		SchemaVersion: DocumentSchemaVersion,
		Inventory:     []JewelryItem{},
		Customers:     []Customer{},
		Bills:         []Bill{},
	}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{
		SchemaVersion: d.SchemaVersion,
		Inventory:     append([]JewelryItem{}, d.Inventory...),
		Customers:     make([]Customer, len(d.Customers)),
		Bills:         make([]Bill, len(d.Bills)),
	}
	for i, c := range d.Customers {
		if c.DOB != nil {
			dob := *c.DOB
			c.DOB = &dob
		}
		out.Customers[i] = c
	}
	for i, b := range d.Bills {
		b.Items = append([]BillItem{}, b.Items...)
		out.Bills[i] = b
	}
	return out
}

func (d *Document) customer(id string) *Customer {
	for i := range d.Customers {
		if d.Customers[i].ID == id {
			return &d.Customers[i]
		}
	}
	return nil
}

func (d *Document) item(id string) *JewelryItem {
	for i := range d.Inventory {
		if d.Inventory[i].ID == id {
			return &d.Inventory[i]
		}
	}
	return nil
}

func (d *Document) bill(id string) *Bill {
	for i := range d.Bills {
		if d.Bills[i].ID == id {
			return &d.Bills[i]
		}
	}
	return nil
}

// customerBills returns pointers into d.Bills for every bill of the customer, in stored order.
func (d *Document) customerBills(customerID string) []*Bill {
	var out []*Bill
	for i := range d.Bills {
		if d.Bills[i].CustomerID == customerID {
			out = append(out, &d.Bills[i])
		}
	}
	return out
}

// BillDraft is the operator's input to bill creation. Items are snapshots already
// resolved from inventory; the factory trusts their weight and price.
type BillDraft struct {
	CustomerID            string
	Type                  BillType
	Items                 []BillItem
	LessWeight            decimal.Decimal
	ExtraChargePercentage decimal.Decimal
	BargainedAmount       decimal.Decimal
	AmountPaid            decimal.Decimal
}

// LineSelection picks units of one inventory item for a draft.
type LineSelection struct {
	ItemID   string
	Quantity int
}

// NewItem carries the operator-supplied fields of an inventory item.
type NewItem struct {
	Name     string
	Category string
	Weight   decimal.Decimal
	Purity   string
	Price    decimal.Decimal
	Quantity int
	ImageURL string
}

// ItemUpdate changes only the non-nil fields.
type ItemUpdate struct {
	Name     *string
	Weight   *decimal.Decimal
	Purity   *string
	Price    *decimal.Decimal
	Quantity *int
	ImageURL *string
}

type NewCustomer struct {
	Name  string
	Phone string
	DOB   *time.Time
}

// CustomerUpdate changes only the non-nil fields. Existing bills keep the name they were issued under.
type CustomerUpdate struct {
	Name  *string
	Phone *string
	DOB   *time.Time
}

// Allocation records how much of a payment landed on one bill.
type Allocation struct {
	BillID  string          `json:"billId"`
	Applied decimal.Decimal `json:"applied"`
	Balance decimal.Decimal `json:"balance"`
}

// PaymentResult summarises one RecordPayment call.
type PaymentResult struct {
	CustomerID     string          `json:"customerId"`
	Amount         decimal.Decimal `json:"amount"`
	Allocations    []Allocation    `json:"allocations"`
	Unapplied      decimal.Decimal `json:"unapplied"`
	ResidueCredits []Allocation    `json:"residueCredits,omitempty"`
	PendingBalance decimal.Decimal `json:"pendingBalance"`
}
