package repl

import (
	"fmt"
	"strconv"
	"strings"

	"jewelry-ledger/internal/adapters/display"
	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/core"

	"github.com/shopspring/decimal"
)

// prompt asks for a value; an empty answer returns fallback.
func (s *session) prompt(label, fallback string) string {
	if fallback != "" {
		fmt.Fprintf(s.out, "%s [%s]: ", label, fallback)
	} else {
		fmt.Fprintf(s.out, "%s: ", label)
	}
	if v := s.readLine(); v != "" {
		return v
	}
	return fallback
}

func (s *session) promptDecimal(label, fallback string) (decimal.Decimal, error) {
	raw := s.prompt(label, fallback)
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %q", strings.ToLower(label), raw)
	}
	return d, nil
}

// addItemWizard registers one inventory item.
func (s *session) addItemWizard() error {
	req := app.AddItemRequest{}
	req.Name = s.prompt("Name", "")
	req.Category = s.prompt("Category (Ring/Necklace/Bracelet/Earrings/other)", core.CategoryOther)
	var err error
	if req.Weight, err = s.promptDecimal("Weight in grams", ""); err != nil {
		return err
	}
	req.Purity = s.prompt("Purity (karat)", "22")
	if req.Price, err = s.promptDecimal("Price per unit", ""); err != nil {
		return err
	}
	qty := s.prompt("Quantity", "1")
	if req.Quantity, err = strconv.Atoi(qty); err != nil {
		return fmt.Errorf("invalid quantity: %q", qty)
	}

	res, err := s.svc.AddItem(s.ctx, req)
	if res != nil {
		fmt.Fprintf(s.out, "Added %s #%s (%s).\n", res.Item.Category, res.Item.SerialNo, res.Item.ID)
	}
	return err
}

// newBillWizard runs an interactive bill creation session with a live preview.
func (s *session) newBillWizard(customerID, billType string) error {
	fmt.Fprintf(s.out, "Creating %s for customer: %s\n", billType, customerID)
	fmt.Fprintln(s.out, "Enter bill lines. Type 'done' when finished, 'cancel' to abort.")
	fmt.Fprintln(s.out, "Format per line: <item-id> [quantity]")

	req := app.CreateBillRequest{CustomerID: customerID, Type: billType}
	for lineNum := 1; ; lineNum++ {
		fmt.Fprintf(s.out, "  Line %d: ", lineNum)
		raw := s.readLine()
		switch strings.ToLower(raw) {
		case "cancel", "":
			fmt.Fprintln(s.out, "Bill creation cancelled.")
			return nil
		case "done":
		default:
			parts := strings.Fields(raw)
			line := app.BillLineInput{ItemID: parts[0], Quantity: 1}
			if len(parts) >= 2 {
				q, err := strconv.Atoi(parts[1])
				if err != nil || q <= 0 {
					fmt.Fprintln(s.out, "  Invalid quantity.")
					lineNum--
					continue
				}
				line.Quantity = q
			}
			req.Lines = append(req.Lines, line)
			continue
		}
		break
	}

	if len(req.Lines) == 0 {
		fmt.Fprintln(s.out, "No lines entered. Bill not created.")
		return nil
	}

	var err error
	if req.LessWeight, err = s.promptDecimal("Less weight (g)", "0"); err != nil {
		return err
	}
	extra := s.prompt("Extra charge % (blank for default)", "")
	if extra != "" {
		pct, err := decimal.NewFromString(extra)
		if err != nil {
			return fmt.Errorf("invalid extra charge: %q", extra)
		}
		req.ExtraChargePercentage = &pct
	}
	if req.BargainedAmount, err = s.promptDecimal("Discount", "0"); err != nil {
		return err
	}
	if req.AmountPaid, err = s.promptDecimal("Amount paid now", "0"); err != nil {
		return err
	}

	preview, err := s.svc.PreviewBill(s.ctx, req)
	if err != nil {
		return err
	}
	display.Preview(s.out, preview)

	fmt.Fprint(s.out, "\nCreate this bill? (y/n): ")
	if !isYes(s.readLine()) {
		fmt.Fprintln(s.out, "Bill cancelled.")
		return nil
	}
	res, err := s.svc.CreateBill(s.ctx, req)
	if res != nil {
		display.Bill(s.out, res.Bill)
	}
	return err
}
