package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"jewelry-ledger/internal/adapters/display"
	"jewelry-ledger/internal/app"

	"github.com/shopspring/decimal"
)

var errExit = errors.New("exit")

type session struct {
	ctx    context.Context
	svc    app.ApplicationService
	reader *bufio.Reader
	out    io.Writer
}

// Run starts the interactive REPL loop.
// It reads commands from reader, dispatches slash commands deterministically,
// and routes natural language input through the AI draft interpreter.
// The session must already be open.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader, out io.Writer) {
	s := &session{ctx: ctx, svc: svc, reader: reader, out: out}

	fmt.Fprintln(out, "Jewelry Ledger")
	if sum, err := svc.GetSummary(ctx); err == nil {
		fmt.Fprintf(out, "%d customers, %d items, pending %s\n", sum.CustomerCount, sum.ItemCount, display.Money(sum.TotalPending))
	}
	fmt.Fprintln(out, "Describe a sale to draft a bill, or use /help for commands.")
	fmt.Fprintln(out, strings.Repeat("-", 70))

	for {
		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "" {
			if err != nil {
				return
			}
			continue
		}

		// Slash prefix → deterministic command dispatcher, no AI invoked.
		if strings.HasPrefix(input, "/") {
			if err := s.dispatchSlash(input); err != nil {
				if errors.Is(err, errExit) {
					fmt.Fprintln(out, "Goodbye!")
					return
				}
				fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		if err := s.aiDraft(input); err != nil {
			if errors.Is(err, errExit) {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error: %v\n", err)
		}
	}
}

func (s *session) readLine() string {
	line, _ := s.reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func (s *session) dispatchSlash(input string) error {
	tokens := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(tokens) == 0 {
		return nil
	}
	cmd := strings.ToLower(tokens[0])
	args := tokens[1:]
	ctx, svc, out := s.ctx, s.svc, s.out

	switch cmd {
	case "items", "inventory":
		res, err := svc.ListInventory(ctx)
		if err != nil {
			return err
		}
		display.Inventory(out, res.Items)

	case "add-item":
		return s.addItemWizard()

	case "restock":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: /restock <item-id> <quantity>")
			return nil
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(out, "Invalid quantity: %s\n", args[1])
			return nil
		}
		res, err := svc.UpdateItem(ctx, app.UpdateItemRequest{ID: args[0], Quantity: &qty})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s #%s now has %d in stock.\n", res.Item.Category, res.Item.SerialNo, res.Item.Quantity)

	case "delete-item":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /delete-item <item-id>")
			return nil
		}
		if err := svc.DeleteItem(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Item deleted.")

	case "customers":
		res, err := svc.ListCustomers(ctx)
		if err != nil {
			return err
		}
		display.Customers(out, res.Customers)

	case "add-customer":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: /add-customer <phone> <name...>")
			return nil
		}
		res, err := svc.AddCustomer(ctx, app.AddCustomerRequest{Phone: args[0], Name: strings.Join(args[1:], " ")})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Customer %s created: %s\n", res.Customer.ID, res.Customer.Name)

	case "delete-customer":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /delete-customer <customer-id>")
			return nil
		}
		fmt.Fprintf(out, "Delete %s and ALL of their bills? (y/n): ", args[0])
		if !isYes(s.readLine()) {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
		if err := svc.DeleteCustomer(ctx, strings.ToUpper(args[0])); err != nil {
			return err
		}
		fmt.Fprintln(out, "Customer deleted.")

	case "new-bill":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /new-bill <customer-id> [estimate|invoice]")
			return nil
		}
		billType := "ESTIMATE"
		if len(args) >= 2 {
			billType = strings.ToUpper(args[1])
		}
		return s.newBillWizard(strings.ToUpper(args[0]), billType)

	case "bills":
		req := app.ListBillsRequest{}
		if len(args) > 0 {
			req.CustomerID = strings.ToUpper(args[0])
		}
		res, err := svc.ListBills(ctx, req)
		if err != nil {
			return err
		}
		display.Bills(out, res.Bills)

	case "bill":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /bill <bill-id>")
			return nil
		}
		res, err := svc.GetBill(ctx, args[0])
		if err != nil {
			return err
		}
		display.Bill(out, res.Bill)

	case "pay", "payment":
		if len(args) < 2 {
			fmt.Fprintln(out, "Usage: /pay <customer-id> <amount>")
			return nil
		}
		amount, err := decimal.NewFromString(args[1])
		if err != nil {
			fmt.Fprintf(out, "Invalid amount: %s\n", args[1])
			return nil
		}
		res, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{CustomerID: strings.ToUpper(args[0]), Amount: amount})
		if res != nil {
			display.Payment(out, res.Payment)
		}
		return err

	case "revenue":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /revenue <target-total>")
			return nil
		}
		target, err := decimal.NewFromString(args[0])
		if err != nil {
			fmt.Fprintf(out, "Invalid amount: %s\n", args[0])
			return nil
		}
		res, err := svc.SetRevenue(ctx, app.SetRevenueRequest{Target: target})
		if err != nil && res == nil {
			return err
		}
		if res.Adjustment == nil {
			fmt.Fprintln(out, "Revenue already matches; nothing posted.")
		} else {
			fmt.Fprintf(out, "Adjustment of %s posted. Total revenue is now %s.\n", display.Money(res.Adjustment.AmountPaid), res.TotalRevenue)
		}
		return err

	case "summary":
		res, err := svc.GetSummary(ctx)
		if err != nil {
			return err
		}
		display.Summary(out, res)

	case "receivables":
		res, err := svc.GetReceivables(ctx, time.Time{})
		if err != nil {
			return err
		}
		display.Receivables(out, res)

	case "low-stock":
		threshold := 1
		if len(args) > 0 {
			if n, err := strconv.Atoi(args[0]); err == nil {
				threshold = n
			}
		}
		res, err := svc.GetLowStock(ctx, threshold)
		if err != nil {
			return err
		}
		display.Inventory(out, res.Items)

	case "statement":
		if len(args) < 1 {
			fmt.Fprintln(out, "Usage: /statement <customer-id>")
			return nil
		}
		res, err := svc.GetCustomerStatement(ctx, strings.ToUpper(args[0]))
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

	case "status":
		st := svc.Status(ctx)
		fmt.Fprintf(out, "Store: %s\n", st.State)
		if st.LastError != "" {
			fmt.Fprintf(out, "Last write error: %s\n", st.LastError)
		}

	case "save":
		if err := svc.Save(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Saved.")

	case "help", "h":
		printHelp(out)

	case "exit", "quit", "e", "q":
		return errExit

	default:
		fmt.Fprintf(out, "Unknown command: /%s  (type /help for all commands)\n", cmd)
	}
	return nil
}

// aiDraft interprets free text as a bill, asking follow-up questions up to three times.
func (s *session) aiDraft(input string) error {
	fmt.Fprintln(s.out, "[AI] Processing...")
	accumulated := input

	for rounds := 1; ; rounds++ {
		if rounds > 3 {
			fmt.Fprintln(s.out, "Could not produce a draft. Try /new-bill instead.")
			return nil
		}

		result, err := s.svc.InterpretDraft(s.ctx, accumulated)
		if err != nil {
			return err
		}

		if result.IsClarification {
			fmt.Fprintf(s.out, "\n[AI]: %s\n> ", result.Clarification)
			followUp := s.readLine()

			// Slash command during clarification cancels the AI flow and runs it.
			if strings.HasPrefix(followUp, "/") {
				fmt.Fprintln(s.out, "(AI session cancelled)")
				return s.dispatchSlash(followUp)
			}
			if followUp == "" || strings.EqualFold(followUp, "cancel") {
				fmt.Fprintln(s.out, "Cancelled.")
				return nil
			}
			accumulated = fmt.Sprintf("Original instruction: %s\nClarification requested: %s\nUser response: %s",
				accumulated, result.Clarification, followUp)
			fmt.Fprintln(s.out, "[AI] Thinking...")
			continue
		}

		display.Proposal(s.out, result.Proposal)
		if result.Problem != "" {
			fmt.Fprintf(s.out, "\nCannot create this bill: %s\n", result.Problem)
			return nil
		}
		display.Preview(s.out, result.Preview)
		if result.Proposal.Confidence < 0.6 {
			fmt.Fprintln(s.out, "\nWARNING: Low confidence draft.")
		}

		fmt.Fprint(s.out, "\nCreate this bill? (y/n): ")
		if !isYes(s.readLine()) {
			fmt.Fprintln(s.out, "Bill cancelled.")
			return nil
		}
		res, err := s.svc.ConfirmDraft(s.ctx, *result.Proposal)
		if res != nil {
			display.Bill(s.out, res.Bill)
		}
		return err
	}
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}
