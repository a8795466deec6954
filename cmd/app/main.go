package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"jewelry-ledger/internal/adapters/cli"
	"jewelry-ledger/internal/adapters/repl"
	"jewelry-ledger/internal/auth"
	"jewelry-ledger/internal/bootstrap"
	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	args := os.Args[1:]

	// hash-password needs no store or configuration.
	if len(args) > 0 && args[0] == "hash-password" {
		if len(args) != 2 {
			return fmt.Errorf("%w: app hash-password <password>", cli.ErrUsage)
		}
		hash, err := auth.HashPassword(args[1])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.OpenOperatorSession(ctx); err != nil {
		return fmt.Errorf("failed to open shop document: %w", err)
	}
	log.Debug("session open", zap.String("document", cfg.DocumentName))

	if len(args) == 0 {
		repl.Run(ctx, rt.Service, bufio.NewReader(os.Stdin), os.Stdout)
		return nil
	}
	return cli.Run(ctx, rt.Service, args, os.Stdin, os.Stdout)
}
