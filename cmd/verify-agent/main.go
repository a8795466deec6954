package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"jewelry-ledger/internal/adapters/display"
	"jewelry-ledger/internal/ai"
	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/logger"

	"go.uber.org/zap"
)

const inventory = `- Ring #0001: Plain Band, 4.2g, purity 22K, price 26500.00, in stock 6
- Earrings #0002: Jhumka, 8g, purity 22K, price 48000.00, in stock 4
- Bangle #0003: Kada, 18.75g, purity 22K, price 112000.00, in stock 3`

const customers = `- C0001: Anita Rao (phone 9845000001, pending 0.00)
- C0002: Vikram Shetty (phone 9845000002, pending 12500.00)`

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

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}
	agent := ai.NewAgent(cfg.OpenAIAPIKey)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	instruction := "Anita bought one jhumka pair and two plain bands today, paid 50000 in cash."
	if len(os.Args) > 1 {
		instruction = os.Args[1]
	}

	fmt.Printf("INTERPRETING: %s\n", instruction)
	resp, err := agent.InterpretDraft(ctx, instruction, inventory, customers)
	if err != nil {
		log.Fatal("agent error", zap.Error(err))
	}

	if resp.IsClarificationRequest {
		fmt.Printf("\n[CLARIFICATION] %s\n", resp.Clarification.Message)
		return
	}
	fmt.Println("\n--- PROPOSAL ---")
	display.Proposal(os.Stdout, resp.Proposal)
}
