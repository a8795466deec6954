// verify-store loads the shop document and checks the ledger invariants:
// bill balances, customer pending totals and the revenue adjustment customer.
// Exits 1 when any issue is found.
//
// Usage: go run ./cmd/verify-store
package main

import (
	"context"
	"fmt"
	"os"

	"jewelry-ledger/internal/adapters/display"
	"jewelry-ledger/internal/bootstrap"
	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	issues, err := verify(context.Background(), cfg, log)
	if err != nil {
		log.Error("[VERIFY] failed", zap.Error(err))
		os.Exit(1)
	}
	if issues > 0 {
		log.Error("[VERIFY] ledger is inconsistent", zap.Int("issues", issues))
		os.Exit(1)
	}
	log.Info("[DONE] ledger is consistent")
}

func verify(ctx context.Context, cfg *config.Config, log *zap.Logger) (int, error) {
	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return 0, err
	}
	defer rt.Close()

	if err := rt.OpenOperatorSession(ctx); err != nil {
		return 0, err
	}
	log.Info("[CONNECT] success", zap.String("store", cfg.StoreDriver), zap.String("document", cfg.DocumentName))

	res, err := rt.Service.VerifyConsistency(ctx)
	if err != nil {
		return 0, err
	}
	display.Issues(os.Stdout, res.Issues)
	return len(res.Issues), nil
}
