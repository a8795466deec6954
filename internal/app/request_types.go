package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddItemRequest is the input for registering an inventory item.
type AddItemRequest struct {
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category" validate:"required"`
	Weight   decimal.Decimal `json:"weight" validate:"gt=0"`
	Purity   string          `json:"purity"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Quantity int             `json:"quantity" validate:"gte=0"`
	ImageURL string          `json:"imageUrl" validate:"omitempty,url"`
}

// UpdateItemRequest changes only the non-nil fields.
type UpdateItemRequest struct {
	ID       string           `json:"-" validate:"required"`
	Name     *string          `json:"name"`
	Weight   *decimal.Decimal `json:"weight"`
	Purity   *string          `json:"purity"`
	Price    *decimal.Decimal `json:"price"`
	Quantity *int             `json:"quantity" validate:"omitnil,gte=0"`
	ImageURL *string          `json:"imageUrl"`
}

type AddCustomerRequest struct {
	Name  string     `json:"name" validate:"required"`
	Phone string     `json:"phone" validate:"required,max=20"`
	DOB   *time.Time `json:"dob"`
}

type UpdateCustomerRequest struct {
	ID    string     `json:"-" validate:"required"`
	Name  *string    `json:"name" validate:"omitnil,min=1"`
	Phone *string    `json:"phone" validate:"omitnil,min=1,max=20"`
	DOB   *time.Time `json:"dob"`
}

// CreateBillRequest drafts a bill from inventory selections.
// A nil ExtraChargePercentage applies the configured default.
type CreateBillRequest struct {
	CustomerID            string           `json:"customerId" validate:"required"`
	Type                  string           `json:"type" validate:"required,oneof=ESTIMATE INVOICE"`
	Lines                 []BillLineInput  `json:"lines" validate:"required,min=1,dive"`
	LessWeight            decimal.Decimal  `json:"lessWeight" validate:"gte=0"`
	ExtraChargePercentage *decimal.Decimal `json:"extraChargePercentage"`
	BargainedAmount       decimal.Decimal  `json:"bargainedAmount" validate:"gte=0"`
	AmountPaid            decimal.Decimal  `json:"amountPaid" validate:"gte=0"`
}

// BillLineInput selects units of one inventory item. Quantity 0 means 1.
type BillLineInput struct {
	ItemID   string `json:"itemId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type ListBillsRequest struct {
	CustomerID string `json:"customerId"`
	Type       string `json:"type" validate:"omitempty,oneof=ESTIMATE INVOICE"`
}

type RecordPaymentRequest struct {
	CustomerID string          `json:"customerId" validate:"required"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
}

type SetRevenueRequest struct {
	Target decimal.Decimal `json:"target"`
}
