package app

import (
	"time"

	"jewelry-ledger/internal/core"
)

// LoginResult is returned by Login.
type LoginResult struct {
	Token     string    `json:"token"`
	Subject   string    `json:"subject"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// StatusResult is returned by Status.
type StatusResult struct {
	State     string `json:"state"`
	LastError string `json:"lastError,omitempty"`
}

type InventoryResult struct {
	Items []core.JewelryItem `json:"items"`
}

type ItemResult struct {
	Item *core.JewelryItem `json:"item"`
}

type CustomerListResult struct {
	Customers []core.Customer `json:"customers"`
}

type CustomerResult struct {
	Customer *core.Customer `json:"customer"`
}

// PreviewResult is the live preview shown while drafting a bill.
type PreviewResult struct {
	Items   []core.BillItem  `json:"items"`
	Preview core.BillPreview `json:"preview"`
}

// BillResult is returned by bill creation and lookup.
type BillResult struct {
	Bill *core.Bill `json:"bill"`
}

type BillListResult struct {
	Bills []core.Bill `json:"bills"`
}

type PaymentResult struct {
	Payment *core.PaymentResult `json:"payment"`
}

// RevenueResult is returned by SetRevenue. Adjustment is nil when revenue already matched.
type RevenueResult struct {
	Adjustment   *core.Bill `json:"adjustment,omitempty"`
	TotalRevenue string     `json:"totalRevenue"`
}

type MonthlyRevenueResult struct {
	Year   int                 `json:"year"`
	Months []core.MonthRevenue `json:"months"`
}

type ReceivablesResult struct {
	AsOf  time.Time             `json:"asOf"`
	Lines []core.ReceivableLine `json:"lines"`
}

type ConsistencyResult struct {
	Issues []core.Inconsistency `json:"issues"`
}

// DraftResult is returned by InterpretDraft. Exactly one of Clarification or
// Proposal is set. When the proposal resolves against inventory, Preview holds
// its figures; otherwise Problem explains what did not resolve.
type DraftResult struct {
	IsClarification bool                `json:"isClarification"`
	Clarification   string              `json:"clarification,omitempty"`
	Proposal        *core.DraftProposal `json:"proposal,omitempty"`
	Preview         *PreviewResult      `json:"preview,omitempty"`
	Problem         string              `json:"problem,omitempty"`
}
