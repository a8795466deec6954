package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ── Queries ──────────────────────────────────────────────────────────────────

// Inventory returns a copy of every inventory item in stored order.
func (s *Store) Inventory() ([]JewelryItem, error) {
	var out []JewelryItem
	err := s.view(func(doc *Document) error {
		out = append([]JewelryItem{}, doc.Inventory...)
		return nil
	})
	return out, err
}

func (s *Store) Item(id string) (*JewelryItem, error) {
	var out JewelryItem
	err := s.view(func(doc *Document) error {
		item := doc.item(id)
		if item == nil {
			return notFoundf("item %s", id)
		}
		out = *item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectItems snapshots inventory items into bill lines. Each line's price is the
// unit price times the selected quantity.
func (s *Store) SelectItems(lines []LineSelection) ([]BillItem, error) {
	var out []BillItem
	err := s.view(func(doc *Document) error {
		for _, l := range lines {
			item := doc.item(strings.TrimSpace(l.ItemID))
			if item == nil {
				return notFoundf("item %s", l.ItemID)
			}
			out = append(out, snapshotItem(*item, l.Quantity))
		}
		return nil
	})
	return out, err
}

// ── Mutations ────────────────────────────────────────────────────────────────

// AddItem registers a new inventory item and assigns the next serial number in its category.
func (s *Store) AddItem(ctx context.Context, in NewItem) (*JewelryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if err := validateItemFields(in.Name, in.Category, in.Weight, in.Price, in.Quantity); err != nil {
		return nil, err
	}

	var created JewelryItem
	err := s.mutate(ctx, "add_item", func(doc *Document) error {
		created = JewelryItem{
			ID:        s.newID(),
			Name:      in.Name,
			Category:  in.Category,
			SerialNo:  nextSerial(doc.Inventory, in.Category),
			Weight:    in.Weight,
			Purity:    strings.TrimSpace(in.Purity),
			Price:     in.Price,
			Quantity:  in.Quantity,
			ImageURL:  strings.TrimSpace(in.ImageURL),
			DateAdded: s.now(),
		}
		doc.Inventory = append(doc.Inventory, created)
		return nil
	})
	if err != nil && created.ID == "" {
		return nil, err
	}
	return &created, err
}

// UpdateItem edits an item in place. Bills already issued keep their snapshot.
func (s *Store) UpdateItem(ctx context.Context, id string, upd ItemUpdate) (*JewelryItem, error) {
	var updated JewelryItem
	err := s.mutate(ctx, "update_item", func(doc *Document) error {
		item := doc.item(id)
		if item == nil {
			return notFoundf("item %s", id)
		}
		next := *item
		if upd.Name != nil {
			next.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Weight != nil {
			next.Weight = *upd.Weight
		}
		if upd.Purity != nil {
			next.Purity = strings.TrimSpace(*upd.Purity)
		}
		if upd.Price != nil {
			next.Price = *upd.Price
		}
		if upd.Quantity != nil {
			next.Quantity = *upd.Quantity
		}
		if upd.ImageURL != nil {
			next.ImageURL = strings.TrimSpace(*upd.ImageURL)
		}
		if err := validateItemFields(next.Name, next.Category, next.Weight, next.Price, next.Quantity); err != nil {
			return err
		}
		*item = next
		updated = next
		return nil
	})
	if err != nil && updated.ID == "" {
		return nil, err
	}
	return &updated, err
}

// DeleteItem removes an item from inventory. Bills referencing it are unaffected.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_item", func(doc *Document) error {
		for i := range doc.Inventory {
			if doc.Inventory[i].ID == id {
				doc.Inventory = append(doc.Inventory[:i], doc.Inventory[i+1:]...)
				return nil
			}
		}
		return notFoundf("item %s", id)
	})
}

func validateItemFields(name, category string, weight, price decimal.Decimal, quantity int) error {
	if name == "" {
		return validationErrorf("item name is required")
	}
	if category == "" {
		return validationErrorf("item category is required")
	}
	if !weight.IsPositive() {
		return validationErrorf("item weight must be > 0, got %s", weight)
	}
	if price.IsNegative() {
		return validationErrorf("item price cannot be negative")
	}
	if quantity < 0 {
		return validationErrorf("item quantity cannot be negative")
	}
	return nil
}

// nextSerial returns one past the highest numeric serial in the category.
func nextSerial(inventory []JewelryItem, category string) string {
	highest := 0
	for _, it := range inventory {
		if !strings.EqualFold(it.Category, category) {
			continue
		}
		if n, err := strconv.Atoi(it.SerialNo); err == nil && n > highest {
			highest = n
		}
	}
	return formatSerial(highest + 1)
}
