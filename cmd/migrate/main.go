// migrate applies the SQL files in ./migrations to DATABASE_URL.
//
// Usage: go run ./cmd/migrate [dir]
package main

import (
	"context"
	"fmt"
	"os"

	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/db"
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

	dir := "migrations"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, 1)
	if err != nil {
		log.Fatal("[CONNECT] failed", zap.Error(err))
	}
	defer pool.Close()

	applied, err := db.ApplyMigrations(ctx, pool, dir)
	for _, f := range applied {
		log.Info("[APPLY]", zap.String("file", f))
	}
	if err != nil {
		pool.Close()
		log.Fatal("[ERROR] migration failed", zap.Error(err))
	}
	log.Info("[DONE] all migrations processed", zap.Int("applied", len(applied)))
}
