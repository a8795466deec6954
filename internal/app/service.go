package app

import (
	"context"
	"time"

	"jewelry-ledger/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// ── Session ──

	// Login checks the operator password, issues a credential and opens the session.
	Login(ctx context.Context, password string) (*LoginResult, error)

	// Authenticate verifies a bearer token and returns its credential.
	Authenticate(token string) (core.Credential, error)

	// OpenSession loads the shop document under cred, or refreshes the credential
	// of an already open session.
	OpenSession(ctx context.Context, cred core.Credential) error

	// CloseSession disposes the in-memory document.
	CloseSession(ctx context.Context)

	// Status reports the store lifecycle state and the last write error, if any.
	Status(ctx context.Context) *StatusResult

	// Save retries writing the in-memory document after a persistence failure.
	Save(ctx context.Context) error

	// ── Inventory ──

	ListInventory(ctx context.Context) (*InventoryResult, error)
	AddItem(ctx context.Context, req AddItemRequest) (*ItemResult, error)
	UpdateItem(ctx context.Context, req UpdateItemRequest) (*ItemResult, error)
	DeleteItem(ctx context.Context, id string) error

	// ── Customers ──

	ListCustomers(ctx context.Context) (*CustomerListResult, error)
	AddCustomer(ctx context.Context, req AddCustomerRequest) (*CustomerResult, error)
	UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (*CustomerResult, error)
	// DeleteCustomer removes the customer and all of their bills.
	DeleteCustomer(ctx context.Context, id string) error

	// ── Billing ──

	// PreviewBill computes the figures of a draft without creating anything.
	PreviewBill(ctx context.Context, req CreateBillRequest) (*PreviewResult, error)
	CreateBill(ctx context.Context, req CreateBillRequest) (*BillResult, error)
	GetBill(ctx context.Context, id string) (*BillResult, error)
	ListBills(ctx context.Context, req ListBillsRequest) (*BillListResult, error)

	// RecordPayment rejects non-positive amounts and amounts above the customer's
	// pending balance, then allocates oldest-first.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error)

	// SetRevenue posts a manual adjustment so total revenue equals the target.
	SetRevenue(ctx context.Context, req SetRevenueRequest) (*RevenueResult, error)

	// ── Reports ──

	GetSummary(ctx context.Context) (*core.RevenueSummary, error)
	GetMonthlyRevenue(ctx context.Context, year int) (*MonthlyRevenueResult, error)
	GetReceivables(ctx context.Context, asOf time.Time) (*ReceivablesResult, error)
	GetLowStock(ctx context.Context, threshold int) (*InventoryResult, error)
	GetCustomerStatement(ctx context.Context, customerID string) (*core.CustomerStatement, error)
	VerifyConsistency(ctx context.Context) (*ConsistencyResult, error)

	// ── AI ──

	// InterpretDraft turns a natural-language billing instruction into a bill draft
	// proposal, or a clarification question. Nothing is created.
	InterpretDraft(ctx context.Context, text string) (*DraftResult, error)

	// ConfirmDraft creates the bill described by a previously interpreted proposal.
	ConfirmDraft(ctx context.Context, proposal core.DraftProposal) (*BillResult, error)
}
