package docstore_test

import (
	"context"
	"testing"
	"time"

	"jewelry-ledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credFor(subject string) core.Credential {
	return core.Credential{Token: "token-" + subject, Subject: subject, Expiry: time.Now().Add(time.Hour)}
}

func sampleDocument() core.Document {
	doc := core.NewDocument()
	doc.Customers = append(doc.Customers, core.Customer{
		ID:             "C0001",
		Name:           "Meera Iyer",
		Phone:          "9840012345",
		JoinDate:       time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		PendingBalance: decimal.RequireFromString("1250.50"),
	})
	doc.Inventory = append(doc.Inventory, core.JewelryItem{
		ID:        "item-1",
		Name:      "Temple Necklace",
		Category:  core.CategoryNecklace,
		SerialNo:  "0001",
		Weight:    decimal.RequireFromString("24.350"),
		Purity:    "22K",
		Price:     decimal.RequireFromString("152000"),
		Quantity:  2,
		DateAdded: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	return doc
}

// runConformance exercises the DocumentStore contract shared by every backend.
func runConformance(t *testing.T, store core.DocumentStore) {
	t.Helper()
	ctx := context.Background()
	owner := credFor("owner-" + t.Name())
	other := credFor("other-" + t.Name())

	t.Run("find on empty store", func(t *testing.T) {
		_, found, err := store.Find(ctx, owner, "shop")
		require.NoError(t, err)
		assert.False(t, found)
	})

	var h core.Handle
	t.Run("create then find", func(t *testing.T) {
		var err error
		h, err = store.Create(ctx, owner, "shop", core.NewDocument())
		require.NoError(t, err)
		require.NotEmpty(t, h.ID)

		got, found, err := store.Find(ctx, owner, "shop")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, h, got)

		again, err := store.Create(ctx, owner, "shop", core.NewDocument())
		require.NoError(t, err)
		assert.Equal(t, h, again, "create is idempotent per owner and name")
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, store.Write(ctx, owner, h, sampleDocument()))

		doc, err := store.Read(ctx, owner, h)
		require.NoError(t, err)
		assert.Equal(t, core.DocumentSchemaVersion, doc.SchemaVersion)
		require.Len(t, doc.Customers, 1)
		assert.True(t, decimal.RequireFromString("1250.50").Equal(doc.Customers[0].PendingBalance))
		require.Len(t, doc.Inventory, 1)
		assert.Equal(t, "0001", doc.Inventory[0].SerialNo)
		assert.True(t, decimal.RequireFromString("24.35").Equal(doc.Inventory[0].Weight))
		assert.Empty(t, doc.Bills)
	})

	t.Run("documents are scoped to their owner", func(t *testing.T) {
		_, found, err := store.Find(ctx, other, "shop")
		require.NoError(t, err)
		assert.False(t, found)

		_, err = store.Read(ctx, other, h)
		assert.ErrorIs(t, err, core.ErrNotFound)
		assert.ErrorIs(t, store.Write(ctx, other, h, core.NewDocument()), core.ErrNotFound)
	})

	t.Run("expired credential is rejected", func(t *testing.T) {
		expired := owner
		expired.Expiry = time.Now().Add(-time.Minute)
		_, err := store.Read(ctx, expired, h)
		assert.ErrorIs(t, err, core.ErrUnauthenticated)
		assert.ErrorIs(t, store.Write(ctx, core.Credential{}, h, core.NewDocument()), core.ErrUnauthenticated)
	})

	t.Run("unknown handle", func(t *testing.T) {
		_, err := store.Read(ctx, owner, core.Handle{ID: "00000000-0000-0000-0000-000000000000"})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}
