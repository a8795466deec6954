package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"jewelry-ledger/internal/adapters/display"
	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// ErrUsage is returned for unknown commands or missing arguments.
var ErrUsage = errors.New("usage")

// ErrInconsistent is returned by "verify" when the ledger breaks an invariant.
var ErrInconsistent = errors.New("ledger is inconsistent")

// Commands lists the subcommands Run understands.
const Commands = "items, customers, add-customer, bills, bill, pay, revenue, summary, receivables, low-stock, statement, verify, draft, confirm"

// Run executes a one-shot CLI command against an open session.
// args is os.Args[1:]; the first element is the subcommand name.
// JSON input for "confirm" is read from in.
func Run(ctx context.Context, svc app.ApplicationService, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: available commands: %s", ErrUsage, Commands)
	}
	need := func(n int, usage string) error {
		if len(args) < n+1 {
			return fmt.Errorf("%w: %s", ErrUsage, usage)
		}
		return nil
	}

	switch args[0] {
	case "items", "inventory":
		res, err := svc.ListInventory(ctx)
		if err != nil {
			return err
		}
		display.Inventory(out, res.Items)

	case "customers":
		res, err := svc.ListCustomers(ctx)
		if err != nil {
			return err
		}
		display.Customers(out, res.Customers)

	case "add-customer":
		if err := need(2, `add-customer <phone> "<name>"`); err != nil {
			return err
		}
		res, err := svc.AddCustomer(ctx, app.AddCustomerRequest{Phone: args[1], Name: strings.Join(args[2:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Customer %s created.\n", res.Customer.ID)

	case "bills":
		req := app.ListBillsRequest{}
		if len(args) > 1 {
			req.CustomerID = strings.ToUpper(args[1])
		}
		res, err := svc.ListBills(ctx, req)
		if err != nil {
			return err
		}
		display.Bills(out, res.Bills)

	case "bill":
		if err := need(1, "bill <bill-id>"); err != nil {
			return err
		}
		res, err := svc.GetBill(ctx, args[1])
		if err != nil {
			return err
		}
		display.Bill(out, res.Bill)

	case "pay":
		if err := need(2, "pay <customer-id> <amount>"); err != nil {
			return err
		}
		amount, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("%w: invalid amount %q", ErrUsage, args[2])
		}
		res, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: strings.ToUpper(args[1]), Amount: amount})
		if res != nil {
			display.Payment(out, res.Payment)
		}
		return err

	case "revenue":
		if err := need(1, "revenue <target-total>"); err != nil {
			return err
		}
		target, err := decimal.NewFromString(args[1])
		if err != nil {
			return fmt.Errorf("%w: invalid amount %q", ErrUsage, args[1])
		}
		res, err := svc.SetRevenue(ctx, app.SetRevenueRequest{Target: target})
		if res != nil {
			fmt.Fprintf(out, "Total revenue: %s\n", res.TotalRevenue)
		}
		return err

	case "summary":
		res, err := svc.GetSummary(ctx)
		if err != nil {
			return err
		}
		display.Summary(out, res)

	case "receivables":
		var asOf time.Time
		if len(args) > 1 {
			t, err := time.Parse("2006-01-02", args[1])
			if err != nil {
				return fmt.Errorf("%w: as-of date must be YYYY-MM-DD", ErrUsage)
			}
			asOf = t.Add(24*time.Hour - time.Nanosecond)
		}
		res, err := svc.GetReceivables(ctx, asOf)
		if err != nil {
			return err
		}
		display.Receivables(out, res)

	case "low-stock":
		threshold := 1
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("%w: threshold must be an integer", ErrUsage)
			}
			threshold = n
		}
		res, err := svc.GetLowStock(ctx, threshold)
		if err != nil {
			return err
		}
		display.Inventory(out, res.Items)

	case "statement":
		if err := need(1, "statement <customer-id>"); err != nil {
			return err
		}
		res, err := svc.GetCustomerStatement(ctx, strings.ToUpper(args[1]))
		if err != nil {
			return err
		}
		display.Statement(out, res)

	case "verify":
		res, err := svc.VerifyConsistency(ctx)
		if err != nil {
			return err
		}
		display.Issues(out, res.Issues)
		if len(res.Issues) > 0 {
			return ErrInconsistent
		}

	case "draft":
		if err := need(1, `draft "<instruction>"`); err != nil {
			return err
		}
		res, err := svc.InterpretDraft(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if res.IsClarification {
			return fmt.Errorf("AI needs clarification: %s", res.Clarification)
		}
		if res.Problem != "" {
			return fmt.Errorf("draft does not resolve: %s", res.Problem)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res.Proposal)

	case "confirm":
		var proposal core.DraftProposal
		if err := json.NewDecoder(in).Decode(&proposal); err != nil {
			return fmt.Errorf("invalid JSON: %w", err)
		}
		res, err := svc.ConfirmDraft(ctx, proposal)
		if res != nil {
			display.Bill(out, res.Bill)
		}
		return err

	default:
		return fmt.Errorf("%w: unknown command %q; available: %s", ErrUsage, args[0], Commands)
	}
	return nil
}
