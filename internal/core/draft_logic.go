package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Normalize cleans up operator input before validation.
func (d *BillDraft) Normalize() {
	d.CustomerID = strings.TrimSpace(d.CustomerID)
	d.Type = BillType(strings.ToUpper(strings.TrimSpace(string(d.Type))))
	for i := range d.Items {
		d.Items[i].ItemID = strings.TrimSpace(d.Items[i].ItemID)
		if d.Items[i].Quantity < 0 {
			d.Items[i].Quantity = 0
		}
	}
}

// Validate rejects drafts the bill factory cannot turn into a bill.
func (d *BillDraft) Validate() error {
	if d.CustomerID == "" {
		return validationErrorf("bill must specify a customer")
	}
	if !d.Type.Valid() {
		return validationErrorf("bill type must be ESTIMATE or INVOICE, got %q", d.Type)
	}
	if len(d.Items) == 0 {
		return validationErrorf("bill must have at least one item")
	}
	for _, it := range d.Items {
		if it.Weight.IsNegative() {
			return validationErrorf("item %s has negative weight", it.ItemID)
		}
		if it.Price.IsNegative() {
			return validationErrorf("item %s has negative price", it.ItemID)
		}
	}
	if d.LessWeight.IsNegative() {
		return validationErrorf("less weight cannot be negative")
	}
	if d.ExtraChargePercentage.IsNegative() {
		return validationErrorf("extra charge percentage cannot be negative")
	}
	if d.BargainedAmount.IsNegative() {
		return validationErrorf("bargained amount cannot be negative")
	}
	if d.AmountPaid.IsNegative() {
		return validationErrorf("amount paid cannot be negative")
	}
	return nil
}

// Normalize cleans up LLM output dealing with common formatting issues.
func (p *DraftProposal) Normalize() {
	p.CustomerID = strings.ToUpper(strings.TrimSpace(p.CustomerID))
	p.BillType = strings.ToUpper(strings.TrimSpace(p.BillType))
	if p.BillType == "" {
		p.BillType = string(BillTypeEstimate)
	}

	p.LessWeight = normalizeAmount(p.LessWeight, "0")
	p.BargainedAmount = normalizeAmount(p.BargainedAmount, "0")
	p.AmountPaid = normalizeAmount(p.AmountPaid, "0")
	p.ExtraChargePercentage = normalizeAmount(p.ExtraChargePercentage, "")

	for i := range p.Lines {
		line := &p.Lines[i]
		line.Category = strings.TrimSpace(line.Category)
		line.SerialNo = strings.TrimSpace(line.SerialNo)
		// "7" and "0007" name the same item
		if n, err := strconv.Atoi(line.SerialNo); err == nil && n >= 0 {
			line.SerialNo = formatSerial(n)
		}
		if line.Quantity <= 0 {
			line.Quantity = 1
		}
	}
}

func normalizeAmount(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return fallback
	}
	return strings.ReplaceAll(s, ",", "")
}

// ToDraft resolves the proposal against inventory into a bill draft.
// An empty extra charge falls back to defaultExtraCharge.
func (p *DraftProposal) ToDraft(inventory []JewelryItem, defaultExtraCharge decimal.Decimal) (BillDraft, error) {
	draft := BillDraft{
		CustomerID: p.CustomerID,
		Type:       BillType(p.BillType),
	}

	var err error
	if draft.LessWeight, err = parseProposalAmount("less weight", p.LessWeight); err != nil {
		return BillDraft{}, err
	}
	if draft.BargainedAmount, err = parseProposalAmount("bargained amount", p.BargainedAmount); err != nil {
		return BillDraft{}, err
	}
	if draft.AmountPaid, err = parseProposalAmount("amount paid", p.AmountPaid); err != nil {
		return BillDraft{}, err
	}
	draft.ExtraChargePercentage = defaultExtraCharge
	if p.ExtraChargePercentage != "" {
		if draft.ExtraChargePercentage, err = parseProposalAmount("extra charge percentage", p.ExtraChargePercentage); err != nil {
			return BillDraft{}, err
		}
	}

	for _, line := range p.Lines {
		item := findBySerial(inventory, line.Category, line.SerialNo)
		if item == nil {
			return BillDraft{}, notFoundf("item %s #%s", line.Category, line.SerialNo)
		}
		draft.Items = append(draft.Items, snapshotItem(*item, line.Quantity))
	}

	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return BillDraft{}, err
	}
	return draft, nil
}

func parseProposalAmount(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, validationErrorf("invalid %s %q", field, s)
	}
	return d, nil
}

func findBySerial(inventory []JewelryItem, category, serial string) *JewelryItem {
	for i := range inventory {
		if strings.EqualFold(inventory[i].Category, category) && inventory[i].SerialNo == serial {
			return &inventory[i]
		}
	}
	return nil
}

// snapshotItem copies the billable fields of an inventory item. The line price is
// the unit price times the number of units.
func snapshotItem(item JewelryItem, quantity int) BillItem {
	if quantity <= 0 {
		quantity = 1
	}
	return BillItem{
		ItemID:   item.ID,
		Name:     item.Name,
		Weight:   item.Weight,
		Price:    item.Price.Mul(decimal.NewFromInt(int64(quantity))),
		Quantity: quantity,
		ImageURL: item.ImageURL,
	}
}

func formatSerial(n int) string {
	return fmt.Sprintf("%04d", n)
}
