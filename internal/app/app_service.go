package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jewelry-ledger/internal/auth"
	"jewelry-ledger/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DraftInterpreter turns free text into a bill draft proposal.
type DraftInterpreter interface {
	InterpretDraft(ctx context.Context, text, inventoryCatalog, customerDirectory string) (*core.DraftAgentResponse, error)
}

// ErrAgentUnavailable is returned by the AI operations when no interpreter is configured.
var ErrAgentUnavailable = errors.New("AI draft interpretation is not configured")

type appService struct {
	store        *core.Store
	reports      core.ReportingService
	issuer       *auth.Issuer
	passwordHash string
	subject      string
	agent        DraftInterpreter
	defaultExtra decimal.Decimal
	log          *zap.Logger
	validate     *validator.Validate
}

// Config carries the operator settings the service needs beyond the store.
type Config struct {
	PasswordHash       string
	Subject            string
	DefaultExtraCharge decimal.Decimal
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil, in which case the AI operations return ErrAgentUnavailable.
func NewAppService(
	store *core.Store,
	issuer *auth.Issuer,
	agent DraftInterpreter,
	cfg Config,
	log *zap.Logger,
) ApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	subject := cfg.Subject
	if subject == "" {
		subject = "operator"
	}
	return &appService{
		store:        store,
		reports:      core.NewReportingService(store),
		issuer:       issuer,
		passwordHash: cfg.PasswordHash,
		subject:      subject,
		agent:        agent,
		defaultExtra: cfg.DefaultExtraCharge,
		log:          log,
		validate:     newValidator(),
	}
}

func (s *appService) check(req any) error {
	if err := s.validate.Struct(req); err != nil {
		return validationError(err)
	}
	return nil
}

// ── Session ──────────────────────────────────────────────────────────────────

func (s *appService) Login(ctx context.Context, password string) (*LoginResult, error) {
	if err := auth.CheckPassword(s.passwordHash, password); err != nil {
		s.log.Warn("login rejected", zap.String("subject", s.subject))
		return nil, err
	}
	cred, err := s.issuer.Issue(s.subject)
	if err != nil {
		return nil, err
	}
	if err := s.OpenSession(ctx, cred); err != nil {
		return nil, err
	}
	return &LoginResult{Token: cred.Token, Subject: cred.Subject, ExpiresAt: cred.Expiry}, nil
}

func (s *appService) Authenticate(token string) (core.Credential, error) {
	return s.issuer.Parse(strings.TrimSpace(token))
}

// OpenSession loads the document on first use; afterwards it only swaps in the
// newer credential.
func (s *appService) OpenSession(ctx context.Context, cred core.Credential) error {
	switch s.store.State() {
	case core.StateReady, core.StateErrored:
		return s.store.UpdateCredential(cred)
	}
	return s.store.Initialize(ctx, cred)
}

func (s *appService) CloseSession(_ context.Context) {
	s.store.Dispose()
}

func (s *appService) Status(_ context.Context) *StatusResult {
	res := &StatusResult{State: s.store.State().String()}
	if err := s.store.LastError(); err != nil {
		res.LastError = err.Error()
	}
	return res
}

func (s *appService) Save(ctx context.Context) error {
	return s.store.Save(ctx)
}

// ── Inventory ────────────────────────────────────────────────────────────────

func (s *appService) ListInventory(_ context.Context) (*InventoryResult, error) {
	items, err := s.store.Inventory()
	if err != nil {
		return nil, err
	}
	return &InventoryResult{Items: items}, nil
}

func (s *appService) AddItem(ctx context.Context, req AddItemRequest) (*ItemResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	item, err := s.store.AddItem(ctx, core.NewItem{
		Name:     req.Name,
		Category: req.Category,
		Weight:   req.Weight,
		Purity:   req.Purity,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	})
	if item == nil {
		return nil, err
	}
	return &ItemResult{Item: item}, err
}

func (s *appService) UpdateItem(ctx context.Context, req UpdateItemRequest) (*ItemResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	item, err := s.store.UpdateItem(ctx, req.ID, core.ItemUpdate{
		Name:     req.Name,
		Weight:   req.Weight,
		Purity:   req.Purity,
		Price:    req.Price,
		Quantity: req.Quantity,
		ImageURL: req.ImageURL,
	})
	if item == nil {
		return nil, err
	}
	return &ItemResult{Item: item}, err
}

func (s *appService) DeleteItem(ctx context.Context, id string) error {
	return s.store.DeleteItem(ctx, strings.TrimSpace(id))
}

// ── Customers ────────────────────────────────────────────────────────────────

func (s *appService) ListCustomers(_ context.Context) (*CustomerListResult, error) {
	customers, err := s.store.Customers()
	if err != nil {
		return nil, err
	}
	return &CustomerListResult{Customers: customers}, nil
}

func (s *appService) AddCustomer(ctx context.Context, req AddCustomerRequest) (*CustomerResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	c, err := s.store.AddCustomer(ctx, core.NewCustomer{Name: req.Name, Phone: req.Phone, DOB: req.DOB})
	if c == nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, err
}

func (s *appService) UpdateCustomer(ctx context.Context, req UpdateCustomerRequest) (*CustomerResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	c, err := s.store.UpdateCustomer(ctx, req.ID, core.CustomerUpdate{Name: req.Name, Phone: req.Phone, DOB: req.DOB})
	if c == nil {
		return nil, err
	}
	return &CustomerResult{Customer: c}, err
}

func (s *appService) DeleteCustomer(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == core.ManualAdjustmentsCustomerID {
		return fmt.Errorf("%w: the %s account cannot be deleted", core.ErrValidation, core.ManualAdjustmentsCustomerName)
	}
	return s.store.DeleteCustomer(ctx, id)
}

// ── Billing ──────────────────────────────────────────────────────────────────

// draftFrom resolves request lines against inventory and applies the default extra charge.
func (s *appService) draftFrom(req CreateBillRequest) (core.BillDraft, error) {
	lines := make([]core.LineSelection, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = core.LineSelection{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	items, err := s.store.SelectItems(lines)
	if err != nil {
		return core.BillDraft{}, err
	}

	extra := s.defaultExtra
	if req.ExtraChargePercentage != nil {
		if req.ExtraChargePercentage.IsNegative() {
			return core.BillDraft{}, fmt.Errorf("%w: extraChargePercentage cannot be below 0", core.ErrValidation)
		}
		extra = *req.ExtraChargePercentage
	}

	draft := core.BillDraft{
		CustomerID:            req.CustomerID,
		Type:                  core.BillType(req.Type),
		Items:                 items,
		LessWeight:            req.LessWeight,
		ExtraChargePercentage: extra,
		BargainedAmount:       req.BargainedAmount,
		AmountPaid:            req.AmountPaid,
	}
	if err := checkLessWeight(draft); err != nil {
		return core.BillDraft{}, err
	}
	return draft, nil
}

// checkLessWeight rejects a deduction heavier than the items themselves.
func checkLessWeight(draft core.BillDraft) error {
	b := core.ComputeBreakdown(draft.Items, draft.LessWeight, decimal.Zero, decimal.Zero)
	if draft.LessWeight.GreaterThan(b.TotalGrossWeight) {
		return fmt.Errorf("%w: lessWeight %s exceeds gross weight %s", core.ErrValidation, draft.LessWeight, b.TotalGrossWeight)
	}
	return nil
}

func (s *appService) PreviewBill(_ context.Context, req CreateBillRequest) (*PreviewResult, error) {
	// A preview may be drawn before the customer and bill type are chosen.
	if err := s.validate.StructExcept(req, "CustomerID", "Type"); err != nil {
		return nil, validationError(err)
	}
	draft, err := s.draftFrom(req)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Items: draft.Items, Preview: core.PreviewBill(draft)}, nil
}

func (s *appService) CreateBill(ctx context.Context, req CreateBillRequest) (*BillResult, error) {
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if err := s.check(req); err != nil {
		return nil, err
	}
	draft, err := s.draftFrom(req)
	if err != nil {
		return nil, err
	}
	return s.createBill(ctx, draft)
}

func (s *appService) createBill(ctx context.Context, draft core.BillDraft) (*BillResult, error) {
	bill, err := s.store.CreateBill(ctx, draft)
	if bill == nil {
		return nil, err
	}
	s.log.Info("bill created",
		zap.String("bill_id", bill.ID),
		zap.String("type", string(bill.Type)),
		zap.String("customer_id", bill.CustomerID),
		zap.Stringer("grand_total", bill.GrandTotal),
	)
	return &BillResult{Bill: bill}, err
}

func (s *appService) GetBill(_ context.Context, id string) (*BillResult, error) {
	bill, err := s.store.Bill(strings.TrimSpace(id))
	if err != nil {
		return nil, err
	}
	return &BillResult{Bill: bill}, nil
}

func (s *appService) ListBills(_ context.Context, req ListBillsRequest) (*BillListResult, error) {
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))
	if err := s.check(req); err != nil {
		return nil, err
	}
	bills, err := s.store.ListBills(core.BillFilter{CustomerID: strings.TrimSpace(req.CustomerID), Type: core.BillType(req.Type)})
	if err != nil {
		return nil, err
	}
	return &BillListResult{Bills: bills}, nil
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResult, error) {
	if err := s.check(req); err != nil {
		return nil, err
	}
	cust, err := s.store.Customer(req.CustomerID)
	if err != nil {
		return nil, err
	}
	if req.Amount.Round(2).GreaterThan(cust.PendingBalance) {
		return nil, fmt.Errorf("%w: payment %s exceeds pending balance %s", core.ErrValidation, req.Amount.StringFixed(2), cust.PendingBalance.StringFixed(2))
	}

	res, err := s.store.RecordPayment(ctx, req.CustomerID, req.Amount)
	if res == nil {
		return nil, err
	}
	s.log.Info("payment recorded",
		zap.String("customer_id", res.CustomerID),
		zap.Stringer("amount", res.Amount),
		zap.Int("bills", len(res.Allocations)),
		zap.Stringer("pending", res.PendingBalance),
	)
	return &PaymentResult{Payment: res}, err
}

func (s *appService) SetRevenue(ctx context.Context, req SetRevenueRequest) (*RevenueResult, error) {
	if req.Target.IsNegative() {
		return nil, fmt.Errorf("%w: revenue target cannot be negative", core.ErrValidation)
	}
	adj, err := s.store.SetRevenue(ctx, req.Target)
	if err != nil && adj == nil {
		return nil, err
	}
	bills, lerr := s.store.ListBills(core.BillFilter{})
	if lerr != nil {
		return nil, lerr
	}
	return &RevenueResult{Adjustment: adj, TotalRevenue: core.TotalRevenue(bills).StringFixed(2)}, err
}

// ── Reports ──────────────────────────────────────────────────────────────────

func (s *appService) GetSummary(_ context.Context) (*core.RevenueSummary, error) {
	return s.reports.Summary()
}

func (s *appService) GetMonthlyRevenue(_ context.Context, year int) (*MonthlyRevenueResult, error) {
	if year < 1 {
		return nil, fmt.Errorf("%w: year must be positive", core.ErrValidation)
	}
	months, err := s.reports.MonthlyRevenue(year)
	if err != nil {
		return nil, err
	}
	return &MonthlyRevenueResult{Year: year, Months: months}, nil
}

func (s *appService) GetReceivables(_ context.Context, asOf time.Time) (*ReceivablesResult, error) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	lines, err := s.reports.Receivables(asOf)
	if err != nil {
		return nil, err
	}
	return &ReceivablesResult{AsOf: asOf, Lines: lines}, nil
}

func (s *appService) GetLowStock(_ context.Context, threshold int) (*InventoryResult, error) {
	items, err := s.reports.LowStock(threshold)
	if err != nil {
		return nil, err
	}
	return &InventoryResult{Items: items}, nil
}

func (s *appService) GetCustomerStatement(_ context.Context, customerID string) (*core.CustomerStatement, error) {
	return s.reports.CustomerStatement(strings.TrimSpace(customerID))
}

func (s *appService) VerifyConsistency(_ context.Context) (*ConsistencyResult, error) {
	doc, err := s.store.Snapshot()
	if err != nil {
		return nil, err
	}
	issues := core.VerifyConsistency(doc)
	if issues == nil {
		issues = []core.Inconsistency{}
	}
	return &ConsistencyResult{Issues: issues}, nil
}

// ── AI ───────────────────────────────────────────────────────────────────────

func (s *appService) InterpretDraft(ctx context.Context, text string) (*DraftResult, error) {
	if s.agent == nil {
		return nil, ErrAgentUnavailable
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: instruction text is required", core.ErrValidation)
	}
	inventory, err := s.store.Inventory()
	if err != nil {
		return nil, err
	}
	customers, err := s.store.Customers()
	if err != nil {
		return nil, err
	}

	resp, err := s.agent.InterpretDraft(ctx, text, inventoryCatalog(inventory), customerDirectory(customers))
	if err != nil {
		return nil, err
	}
	if resp.IsClarificationRequest {
		msg := ""
		if resp.Clarification != nil {
			msg = resp.Clarification.Message
		}
		return &DraftResult{IsClarification: true, Clarification: msg}, nil
	}
	if resp.Proposal == nil {
		return nil, fmt.Errorf("agent returned neither a proposal nor a clarification")
	}

	proposal := *resp.Proposal
	proposal.Normalize()
	out := &DraftResult{Proposal: &proposal}
	draft, err := proposal.ToDraft(inventory, s.defaultExtra)
	if err == nil {
		err = checkLessWeight(draft)
	}
	if err != nil {
		if errors.Is(err, core.ErrValidation) || errors.Is(err, core.ErrNotFound) {
			out.Problem = err.Error()
			return out, nil
		}
		return nil, err
	}
	out.Preview = &PreviewResult{Items: draft.Items, Preview: core.PreviewBill(draft)}
	return out, nil
}

func (s *appService) ConfirmDraft(ctx context.Context, proposal core.DraftProposal) (*BillResult, error) {
	proposal.Normalize()
	inventory, err := s.store.Inventory()
	if err != nil {
		return nil, err
	}
	draft, err := proposal.ToDraft(inventory, s.defaultExtra)
	if err != nil {
		return nil, err
	}
	if err := checkLessWeight(draft); err != nil {
		return nil, err
	}
	return s.createBill(ctx, draft)
}

// inventoryCatalog lists in-stock items one per line for the agent prompt.
func inventoryCatalog(items []core.JewelryItem) string {
	var sb strings.Builder
	for _, it := range items {
		fmt.Fprintf(&sb, "- %s #%s: %s, %sg, purity %s, price %s, in stock %d\n",
			it.Category, it.SerialNo, it.Name, it.Weight.String(), it.Purity, it.Price.StringFixed(2), it.Quantity)
	}
	return sb.String()
}

func customerDirectory(customers []core.Customer) string {
	var sb strings.Builder
	for _, c := range customers {
		if c.ID == core.ManualAdjustmentsCustomerID {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s (phone %s, pending %s)\n", c.ID, c.Name, c.Phone, c.PendingBalance.StringFixed(2))
	}
	return sb.String()
}
