package docstore_test

import (
	"context"
	"testing"

	"jewelry-ledger/internal/core"
	"jewelry-ledger/internal/docstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryConformance(t *testing.T) {
	runConformance(t, docstore.NewMemory())
}

func TestMemoryCountsWrites(t *testing.T) {
	ctx := context.Background()
	mem := docstore.NewMemory()
	cred := credFor("counter")

	h, err := mem.Create(ctx, cred, "shop", core.NewDocument())
	require.NoError(t, err)
	assert.Equal(t, 0, mem.Writes(), "create is not a write")

	require.NoError(t, mem.Write(ctx, cred, h, sampleDocument()))
	require.NoError(t, mem.Write(ctx, cred, h, sampleDocument()))
	assert.Equal(t, 2, mem.Writes())
}
