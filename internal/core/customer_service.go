package core

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BillFilter narrows ListBills. Zero fields match everything.
type BillFilter struct {
	CustomerID string
	Type       BillType
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *Store) Customers() ([]Customer, error) {
	var out []Customer
	err := s.view(func(doc *Document) error {
		out = doc.Clone().Customers
		return nil
	})
	return out, err
}

func (s *Store) Customer(id string) (*Customer, error) {
	var out Customer
	err := s.view(func(doc *Document) error {
		c := doc.customer(id)
		if c == nil {
			return notFoundf("customer %s", id)
		}
		out = *c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) Bill(id string) (*Bill, error) {
	var out Bill
	err := s.view(func(doc *Document) error {
		b := doc.bill(id)
		if b == nil {
			return notFoundf("bill %s", id)
		}
		out = *b
		out.Items = append([]BillItem{}, b.Items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBills returns matching bills, newest first.
func (s *Store) ListBills(f BillFilter) ([]Bill, error) {
	var out []Bill
	err := s.view(func(doc *Document) error {
		for _, b := range doc.Bills {
			if f.CustomerID != "" && b.CustomerID != f.CustomerID {
				continue
			}
			if f.Type != "" && b.Type != f.Type {
				continue
			}
			b.Items = append([]BillItem{}, b.Items...)
			out = append(out, b)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}

// ── Mutations ────────────────────────────────────────────────────────────────

// AddCustomer registers a customer under the next sequential code (C0001, C0002, ...).
func (s *Store) AddCustomer(ctx context.Context, in NewCustomer) (*Customer, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return nil, validationErrorf("customer name is required")
	}
	if in.Phone == "" {
		return nil, validationErrorf("customer phone is required")
	}

	var created Customer
	err := s.mutate(ctx, "add_customer", func(doc *Document) error {
		created = Customer{
			ID:             nextCustomerCode(doc.Customers),
			Name:           in.Name,
			Phone:          in.Phone,
			DOB:            in.DOB,
			JoinDate:       s.now(),
			PendingBalance: decimal.Zero,
		}
		doc.Customers = append(doc.Customers, created)
		return nil
	})
	if err != nil && created.ID == "" {
		return nil, err
	}
	return &created, err
}

// UpdateCustomer edits contact details. Bills keep the customer name they were issued under.
func (s *Store) UpdateCustomer(ctx context.Context, id string, upd CustomerUpdate) (*Customer, error) {
	var updated Customer
	err := s.mutate(ctx, "update_customer", func(doc *Document) error {
		c := doc.customer(id)
		if c == nil {
			return notFoundf("customer %s", id)
		}
		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return validationErrorf("customer name is required")
			}
			c.Name = name
		}
		if upd.Phone != nil {
			phone := strings.TrimSpace(*upd.Phone)
			if phone == "" {
				return validationErrorf("customer phone is required")
			}
			c.Phone = phone
		}
		if upd.DOB != nil {
			dob := *upd.DOB
			c.DOB = &dob
		}
		updated = *c
		return nil
	})
	if err != nil && updated.ID == "" {
		return nil, err
	}
	return &updated, err
}

// DeleteCustomer removes the customer and every bill that references them.
// Inventory is not restocked.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	return s.mutate(ctx, "delete_customer", func(doc *Document) error {
		idx := -1
		for i := range doc.Customers {
			if doc.Customers[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return notFoundf("customer %s", id)
		}
		doc.Customers = append(doc.Customers[:idx], doc.Customers[idx+1:]...)

		kept := doc.Bills[:0]
		for _, b := range doc.Bills {
			if b.CustomerID != id {
				kept = append(kept, b)
			}
		}
		doc.Bills = kept
		return nil
	})
}

// nextCustomerCode returns one past the highest C-prefixed numeric code.
// Other ids, such as the Manual Adjustments customer, are ignored.
func nextCustomerCode(customers []Customer) string {
	highest := 0
	for _, c := range customers {
		if !strings.HasPrefix(c.ID, "C") {
			continue
		}
		if n, err := strconv.Atoi(c.ID[1:]); err == nil && n > highest {
			highest = n
		}
	}
	return fmt.Sprintf("C%04d", highest+1)
}
