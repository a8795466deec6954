package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/auth"
	"jewelry-ledger/internal/core"
	"jewelry-ledger/internal/docstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct horse battery staple"

type stubAgent struct {
	resp     *core.DraftAgentResponse
	err      error
	lastText string
	catalog  string
	people   string
}

func (a *stubAgent) InterpretDraft(_ context.Context, text, catalog, people string) (*core.DraftAgentResponse, error) {
	a.lastText, a.catalog, a.people = text, catalog, people
	return a.resp, a.err
}

type fixture struct {
	svc   app.ApplicationService
	mem   *docstore.Memory
	agent *stubAgent
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	issuer, err := auth.NewIssuer("test-secret-test-secret-test-secret!", time.Hour)
	require.NoError(t, err)

	mem := docstore.NewMemory()
	n := 0
	store := core.NewStore(mem, "shop", core.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}))
	agent := &stubAgent{}
	svc := app.NewAppService(store, issuer, agent, app.Config{
		PasswordHash:       hash,
		DefaultExtraCharge: decimal.NewFromInt(10),
	}, nil)
	return &fixture{svc: svc, mem: mem, agent: agent}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	_, err := f.svc.Login(context.Background(), testPassword)
	require.NoError(t, err)
}

func (f *fixture) seed(t *testing.T) (custID, ringID, chainID string) {
	t.Helper()
	ctx := context.Background()
	c, err := f.svc.AddCustomer(ctx, app.AddCustomerRequest{Name: "Meera Iyer", Phone: "9876543210"})
	require.NoError(t, err)
	ring, err := f.svc.AddItem(ctx, app.AddItemRequest{
		Name: "Gold Ring", Category: core.CategoryRing, Weight: decimal.NewFromInt(10),
		Purity: "22", Price: decimal.NewFromInt(50000), Quantity: 3,
	})
	require.NoError(t, err)
	chain, err := f.svc.AddItem(ctx, app.AddItemRequest{
		Name: "Rope Chain", Category: core.CategoryNecklace, Weight: decimal.NewFromInt(20),
		Purity: "22", Price: decimal.NewFromInt(100000), Quantity: 1,
	})
	require.NoError(t, err)
	return c.Customer.ID, ring.Item.ID, chain.Item.ID
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, "wrong")
	assert.ErrorIs(t, err, core.ErrUnauthenticated)
	assert.Equal(t, core.StateUninitialized.String(), f.svc.Status(ctx).State)

	res, err := f.svc.Login(ctx, testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "operator", res.Subject)
	assert.Equal(t, core.StateReady.String(), f.svc.Status(ctx).State)

	cred, err := f.svc.Authenticate("  " + res.Token + " ")
	require.NoError(t, err)
	assert.Equal(t, "operator", cred.Subject)

	_, err = f.svc.Authenticate("garbage")
	assert.ErrorIs(t, err, core.ErrUnauthenticated)
}

func TestOperationsRequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListInventory(ctx)
	assert.ErrorIs(t, err, core.ErrNotReady)
	_, err = f.svc.AddCustomer(ctx, app.AddCustomerRequest{Name: "A", Phone: "1"})
	assert.ErrorIs(t, err, core.ErrNotReady)

	f.login(t)
	f.svc.CloseSession(ctx)
	_, err = f.svc.ListCustomers(ctx)
	assert.ErrorIs(t, err, core.ErrNotReady)
}

func TestOpenSessionOnLiveStoreSwapsCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.login(t)
	_, err := f.svc.AddCustomer(ctx, app.AddCustomerRequest{Name: "Meera Iyer", Phone: "9876543210"})
	require.NoError(t, err)

	expired := core.Credential{Token: "t", Subject: "operator", Expiry: time.Now().Add(-time.Minute)}
	assert.ErrorIs(t, f.svc.OpenSession(ctx, expired), core.ErrUnauthenticated)

	writes := f.mem.Writes()
	f.login(t)
	assert.Equal(t, writes, f.mem.Writes(), "re-login must not reload or write")
	list, err := f.svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Customers, 1)

	f.svc.CloseSession(ctx)
	f.login(t)
	list, err = f.svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Len(t, list.Customers, 1, "document reloaded from the store")
}

func TestRequestValidation(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, app.AddItemRequest{Name: "Ring", Category: "Ring", Weight: decimal.Zero, Price: d("1")})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "weight must be greater than 0")

	_, err = f.svc.AddItem(ctx, app.AddItemRequest{Name: "Ring", Category: "Ring", Weight: d("1"), Price: d("-1")})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.svc.AddCustomer(ctx, app.AddCustomerRequest{Name: "No Phone"})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "phone is required")

	_, err = f.svc.CreateBill(ctx, app.CreateBillRequest{CustomerID: "C0001", Type: "RECEIPT", Lines: []app.BillLineInput{{ItemID: "x"}}})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "type must be one of")

	_, err = f.svc.CreateBill(ctx, app.CreateBillRequest{CustomerID: "C0001", Type: "INVOICE"})
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = f.svc.ListBills(ctx, app.ListBillsRequest{Type: "receipt"})
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestCreateBillAppliesDefaultsAndDecrementsStock(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	custID, ringID, _ := f.seed(t)

	res, err := f.svc.CreateBill(ctx, app.CreateBillRequest{
		CustomerID: custID,
		Type:       "invoice",
		Lines:      []app.BillLineInput{{ItemID: ringID, Quantity: 2}},
		AmountPaid: d("10000"),
	})
	require.NoError(t, err)
	bill := res.Bill
	assert.Equal(t, core.BillTypeInvoice, bill.Type)
	assert.True(t, d("10").Equal(bill.ExtraChargePercentage), "default extra charge applied")
	assert.True(t, d("100000").Equal(bill.TotalAmount))
	assert.True(t, d("110000").Equal(bill.GrandTotal))
	assert.True(t, d("100000").Equal(bill.Balance))

	inv, err := f.svc.ListInventory(ctx)
	require.NoError(t, err)
	for _, it := range inv.Items {
		if it.ID == ringID {
			assert.Equal(t, 1, it.Quantity)
		}
	}

	zero := decimal.Zero
	res, err = f.svc.CreateBill(ctx, app.CreateBillRequest{
		CustomerID:            custID,
		Type:                  "ESTIMATE",
		Lines:                 []app.BillLineInput{{ItemID: ringID}},
		ExtraChargePercentage: &zero,
	})
	require.NoError(t, err)
	assert.True(t, res.Bill.ExtraChargePercentage.IsZero())
}

func TestCreateBillRejectsExcessLessWeight(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	custID, ringID, _ := f.seed(t)

	_, err := f.svc.CreateBill(context.Background(), app.CreateBillRequest{
		CustomerID: custID,
		Type:       "ESTIMATE",
		Lines:      []app.BillLineInput{{ItemID: ringID}},
		LessWeight: d("10.5"),
	})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds gross weight")
}

func TestCreateBillUnknownItem(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	custID, _, _ := f.seed(t)

	_, err := f.svc.CreateBill(context.Background(), app.CreateBillRequest{
		CustomerID: custID, Type: "ESTIMATE", Lines: []app.BillLineInput{{ItemID: "missing"}},
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestPreviewBillWithoutCustomer(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	_, ringID, chainID := f.seed(t)

	res, err := f.svc.PreviewBill(context.Background(), app.CreateBillRequest{
		Lines:           []app.BillLineInput{{ItemID: ringID}, {ItemID: chainID}},
		LessWeight:      d("3"),
		BargainedAmount: d("500"),
	})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.True(t, d("30").Equal(res.Preview.TotalGrossWeight))
	assert.True(t, d("27").Equal(res.Preview.NetWeight))
	assert.True(t, d("135000").Equal(res.Preview.FinalAmount))
	assert.True(t, d("13500").Equal(res.Preview.ExtraChargeAmount))
	assert.True(t, d("148000").Equal(res.Preview.GrandTotal))

	bills, err := f.svc.ListBills(context.Background(), app.ListBillsRequest{})
	require.NoError(t, err)
	assert.Empty(t, bills.Bills, "preview creates nothing")
}

func TestRecordPaymentGuards(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	custID, ringID, _ := f.seed(t)

	_, err := f.svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: custID, Amount: d("100")})
	require.ErrorIs(t, err, core.ErrValidation, "nothing pending")

	_, err = f.svc.CreateBill(ctx, app.CreateBillRequest{
		CustomerID: custID, Type: "ESTIMATE", Lines: []app.BillLineInput{{ItemID: ringID}},
	})
	require.NoError(t, err)

	_, err = f.svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: custID, Amount: decimal.Zero})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "amount must be greater than 0")

	_, err = f.svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: custID, Amount: d("55000.01")})
	require.ErrorIs(t, err, core.ErrValidation)
	assert.Contains(t, err.Error(), "exceeds pending balance")

	_, err = f.svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: "C9999", Amount: d("1")})
	assert.ErrorIs(t, err, core.ErrNotFound)

	res, err := f.svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: custID, Amount: d("54999.50")})
	require.NoError(t, err)
	assert.True(t, res.Payment.PendingBalance.IsZero(), "residue under 1 is credited away")
	assert.NotEmpty(t, res.Payment.ResidueCredits)
}

func TestSetRevenueReportsTotal(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	res, err := f.svc.SetRevenue(ctx, app.SetRevenueRequest{Target: d("1200")})
	require.NoError(t, err)
	require.NotNil(t, res.Adjustment)
	assert.Equal(t, "1200.00", res.TotalRevenue)

	res, err = f.svc.SetRevenue(ctx, app.SetRevenueRequest{Target: d("1200")})
	require.NoError(t, err)
	assert.Nil(t, res.Adjustment)

	_, err = f.svc.SetRevenue(ctx, app.SetRevenueRequest{Target: d("-1")})
	assert.ErrorIs(t, err, core.ErrValidation)

	err = f.svc.DeleteCustomer(ctx, core.ManualAdjustmentsCustomerID)
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestReportsAndConsistency(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	custID, _, chainID := f.seed(t)

	_, err := f.svc.CreateBill(ctx, app.CreateBillRequest{
		CustomerID: custID, Type: "INVOICE", Lines: []app.BillLineInput{{ItemID: chainID}}, AmountPaid: d("10000"),
	})
	require.NoError(t, err)

	sum, err := f.svc.GetSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.InvoiceCount)
	assert.True(t, d("10000").Equal(sum.TotalRevenue))

	low, err := f.svc.GetLowStock(ctx, 0)
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, chainID, low.Items[0].ID)

	rec, err := f.svc.GetReceivables(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, rec.Lines, 1)
	assert.True(t, d("100000").Equal(rec.Lines[0].Current))

	_, err = f.svc.GetMonthlyRevenue(ctx, 0)
	assert.ErrorIs(t, err, core.ErrValidation)

	st, err := f.svc.GetCustomerStatement(ctx, custID)
	require.NoError(t, err)
	assert.Len(t, st.Entries, 1)

	cons, err := f.svc.VerifyConsistency(ctx)
	require.NoError(t, err)
	assert.Empty(t, cons.Issues)
}

func TestInterpretDraft(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	custID, _, _ := f.seed(t)

	f.agent.resp = &core.DraftAgentResponse{Proposal: &core.DraftProposal{
		CustomerID:            custID,
		BillType:              "invoice",
		Lines:                 []core.DraftLine{{Category: "ring", SerialNo: "1", Quantity: 1}},
		LessWeight:            "null",
		ExtraChargePercentage: "",
		BargainedAmount:       "0",
		AmountPaid:            "1,000",
		Confidence:            0.9,
	}}

	res, err := f.svc.InterpretDraft(ctx, "sell ring 1 to Meera, she paid 1000")
	require.NoError(t, err)
	assert.False(t, res.IsClarification)
	require.NotNil(t, res.Preview)
	assert.Empty(t, res.Problem)
	assert.True(t, d("55000").Equal(res.Preview.Preview.GrandTotal))
	assert.Contains(t, f.agent.catalog, "Ring #0001")
	assert.Contains(t, f.agent.people, custID)

	bills, err := f.svc.ListBills(ctx, app.ListBillsRequest{})
	require.NoError(t, err)
	assert.Empty(t, bills.Bills)

	created, err := f.svc.ConfirmDraft(ctx, *res.Proposal)
	require.NoError(t, err)
	assert.True(t, d("1000").Equal(created.Bill.AmountPaid))
	assert.True(t, d("54000").Equal(created.Bill.Balance))
}

func TestInterpretDraftUnresolved(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()
	custID, _, _ := f.seed(t)

	f.agent.resp = &core.DraftAgentResponse{Proposal: &core.DraftProposal{
		CustomerID: custID, BillType: "ESTIMATE",
		Lines: []core.DraftLine{{Category: "Bracelet", SerialNo: "0009", Quantity: 1}},
	}}
	res, err := f.svc.InterpretDraft(ctx, "estimate bracelet 9")
	require.NoError(t, err)
	assert.Nil(t, res.Preview)
	assert.Contains(t, res.Problem, "not found")

	_, err = f.svc.ConfirmDraft(ctx, *res.Proposal)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestInterpretDraftClarification(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	f.agent.resp = &core.DraftAgentResponse{
		IsClarificationRequest: true,
		Clarification:          &core.DraftClarification{Message: "Which customer?"},
	}
	res, err := f.svc.InterpretDraft(ctx, "bill the ring")
	require.NoError(t, err)
	assert.True(t, res.IsClarification)
	assert.Equal(t, "Which customer?", res.Clarification)

	f.agent.err = errors.New("upstream timeout")
	_, err = f.svc.InterpretDraft(ctx, "bill the ring")
	assert.EqualError(t, err, "upstream timeout")

	_, err = f.svc.InterpretDraft(ctx, "   ")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func TestInterpretDraftWithoutAgent(t *testing.T) {
	issuer, err := auth.NewIssuer("test-secret-test-secret-test-secret!", time.Hour)
	require.NoError(t, err)
	store := core.NewStore(docstore.NewMemory(), "shop")
	svc := app.NewAppService(store, issuer, nil, app.Config{}, nil)

	_, err = svc.InterpretDraft(context.Background(), "anything")
	assert.ErrorIs(t, err, app.ErrAgentUnavailable)
}
