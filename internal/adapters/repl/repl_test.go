package repl

import (
	"bufio"
	"bytes"
	"context"
	"strings"
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

type scriptedAgent struct {
	replies []*core.DraftAgentResponse
	calls   int
}

func (a *scriptedAgent) InterpretDraft(context.Context, string, string, string) (*core.DraftAgentResponse, error) {
	r := a.replies[a.calls]
	a.calls++
	return r, nil
}

func newService(t *testing.T, agent app.DraftInterpreter) app.ApplicationService {
	t.Helper()
	issuer, err := auth.NewIssuer("repl-test-secret-repl-test-secret-01", time.Hour)
	require.NoError(t, err)
	svc := app.NewAppService(core.NewStore(docstore.NewMemory(), "shop"), issuer, agent, app.Config{}, nil)
	cred, err := issuer.Issue("operator")
	require.NoError(t, err)
	require.NoError(t, svc.OpenSession(context.Background(), cred))
	return svc
}

func run(t *testing.T, svc app.ApplicationService, script ...string) string {
	t.Helper()
	var out bytes.Buffer
	Run(context.Background(), svc, bufio.NewReader(strings.NewReader(strings.Join(script, "\n")+"\n")), &out)
	return out.String()
}

func TestReplBillingSession(t *testing.T) {
	svc := newService(t, nil)

	out := run(t, svc,
		"/add-customer 9811111111 Kavya Menon",
		"/add-item", "Temple Necklace", "Necklace", "25", "22", "125000", "2",
		"/items",
		"/new-bill C0001 invoice", "", // blank line cancels
		"/exit",
	)
	assert.Contains(t, out, "Customer C0001 created: Kavya Menon")
	assert.Contains(t, out, "Added Necklace #0001")
	assert.Contains(t, out, "Temple Necklace")
	assert.Contains(t, out, "Bill creation cancelled.")
	assert.Contains(t, out, "Goodbye!")

	inv, err := svc.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, inv.Items, 1)
	itemID := inv.Items[0].ID

	out = run(t, svc,
		"/new-bill C0001 invoice", itemID+" 1", "done", "0", "0", "0", "25000", "y",
		"/pay C0001 100000",
		"/verify",
		"/exit",
	)
	assert.Contains(t, out, "BILL PREVIEW")
	assert.Contains(t, out, "INVOICE")
	assert.Contains(t, out, "PAYMENT")
	assert.Contains(t, out, "Ledger is consistent.")

	cust, err := svc.ListCustomers(context.Background())
	require.NoError(t, err)
	assert.True(t, cust.Customers[0].PendingBalance.IsZero())
}

func TestReplUnknownAndErrors(t *testing.T) {
	svc := newService(t, nil)
	out := run(t, svc, "/frobnicate", "/bill missing", "/pay C0001 abc", "/q")
	assert.Contains(t, out, "Unknown command: /frobnicate")
	assert.Contains(t, out, "Error: bill missing: not found")
	assert.Contains(t, out, "Invalid amount: abc")
}

func TestReplAIDraftWithClarification(t *testing.T) {
	agent := &scriptedAgent{}
	svc := newService(t, agent)
	ctx := context.Background()
	_, err := svc.AddCustomer(ctx, app.AddCustomerRequest{Name: "Kavya", Phone: "1"})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, app.AddItemRequest{Name: "Band", Category: "Ring", Weight: decimal.NewFromInt(4), Price: decimal.NewFromInt(20000), Quantity: 1})
	require.NoError(t, err)

	agent.replies = []*core.DraftAgentResponse{
		{IsClarificationRequest: true, Clarification: &core.DraftClarification{Message: "Which customer?"}},
		{Proposal: &core.DraftProposal{CustomerID: "C0001", BillType: "ESTIMATE", Lines: []core.DraftLine{{Category: "Ring", SerialNo: "0001", Quantity: 1}}, Confidence: 0.95}},
	}
	out := run(t, svc, "estimate the band", "Kavya", "y", "/exit")
	assert.Contains(t, out, "[AI]: Which customer?")
	assert.Contains(t, out, "BILL PREVIEW")
	assert.Contains(t, out, "ESTIMATE")
	assert.Equal(t, 2, agent.calls)

	bills, err := svc.ListBills(ctx, app.ListBillsRequest{})
	require.NoError(t, err)
	assert.Len(t, bills.Bills, 1)
}
