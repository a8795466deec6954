package core_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"jewelry-ledger/internal/core"
	"jewelry-ledger/internal/docstore"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docName = "shop"

var testCred = core.Credential{Token: "t0k3n", Subject: "owner@example.com"}

// fakeClock advances by one hour on every read so bills get strictly increasing dates.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Hour)
	return c.now
}

// flakyStore fails writes on demand.
type flakyStore struct {
	core.DocumentStore
	mu         sync.Mutex
	failWrites bool
}

func (f *flakyStore) setFailing(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failWrites = v
}

func (f *flakyStore) Write(ctx context.Context, cred core.Credential, h core.Handle, doc core.Document) error {
	f.mu.Lock()
	failing := f.failWrites
	f.mu.Unlock()
	if failing {
		return errors.New("connection reset by peer")
	}
	return f.DocumentStore.Write(ctx, cred, h, doc)
}

type testEnv struct {
	store *core.Store
	mem   *docstore.Memory
	flaky *flakyStore
	clock *fakeClock
}

// newTestEnv returns a Ready store. When seed is non-nil it is written to the
// backend before the store loads it.
func newTestEnv(t *testing.T, seed *core.Document) *testEnv {
	t.Helper()
	ctx := context.Background()
	mem := docstore.NewMemory()
	if seed != nil {
		_, err := mem.Create(ctx, testCred, docName, *seed)
		require.NoError(t, err)
	}
	flaky := &flakyStore{DocumentStore: mem}
	clock := newFakeClock()

	seq := 0
	store := core.NewStore(flaky, docName,
		core.WithClock(clock.Now),
		core.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%03d", seq)
		}),
	)
	require.NoError(t, store.Initialize(ctx, testCred))
	return &testEnv{store: store, mem: mem, flaky: flaky, clock: clock}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, what ...string) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "%v: want %s, got %s", what, want, got)
}

func (e *testEnv) addCustomer(t *testing.T, name string) *core.Customer {
	t.Helper()
	c, err := e.store.AddCustomer(context.Background(), core.NewCustomer{Name: name, Phone: "9000000000"})
	require.NoError(t, err)
	return c
}

func (e *testEnv) addItem(t *testing.T, name, category, weight, price string, qty int) *core.JewelryItem {
	t.Helper()
	it, err := e.store.AddItem(context.Background(), core.NewItem{
		Name: name, Category: category, Weight: d(weight), Purity: "22K", Price: d(price), Quantity: qty,
	})
	require.NoError(t, err)
	return it
}

// billFor creates a single-line bill of the given grand total with no adjustments.
func (e *testEnv) billFor(t *testing.T, customerID string, billType core.BillType, total, paid string) *core.Bill {
	t.Helper()
	b, err := e.store.CreateBill(context.Background(), core.BillDraft{
		CustomerID: customerID,
		Type:       billType,
		Items:      []core.BillItem{{ItemID: "loose", Name: "Loose item", Weight: d("1"), Price: d(total)}},
		AmountPaid: d(paid),
	})
	require.NoError(t, err)
	return b
}
