package bootstrap

import (
	"context"
	"errors"
	"testing"
	"time"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		StoreDriver:     driver,
		DocumentName:    "shop",
		OperatorSubject: "operator",
		TokenTTL:        time.Hour,
		RedisPrefix:     "jewelry",
	}
}

func TestMemoryRuntime(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx, testConfig("memory"), nil)
	require.NoError(t, err)
	t.Cleanup(rt.Close)

	assert.Equal(t, "uninitialized", rt.Service.Status(ctx).State)
	require.NoError(t, rt.OpenOperatorSession(ctx))
	assert.Equal(t, "ready", rt.Service.Status(ctx).State)

	_, err = rt.Service.InterpretDraft(ctx, "sell a ring")
	assert.True(t, errors.Is(err, app.ErrAgentUnavailable))
}

func TestRedisRuntimePersistsAcrossSessions(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cfg := testConfig("redis")
	cfg.RedisAddr = mr.Addr()
	cfg.JWTSecret = "bootstrap-test-secret-bootstrap-test"

	rt, err := New(ctx, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, rt.OpenOperatorSession(ctx))
	_, err = rt.Service.AddCustomer(ctx, app.AddCustomerRequest{Name: "Meera", Phone: "9000000003"})
	require.NoError(t, err)
	rt.Close()

	rt, err = New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	require.NoError(t, rt.OpenOperatorSession(ctx))
	list, err := rt.Service.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list.Customers, 1)
	assert.Equal(t, "Meera", list.Customers[0].Name)
}

func TestUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), testConfig("sqlite"), nil)
	assert.ErrorContains(t, err, "unknown STORE_DRIVER")
}
