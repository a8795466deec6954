// restore-seed loads a small demo shop into an empty document: a handful of
// inventory items, three customers and a few bills with partial payments.
// It refuses to touch a document that already holds customers or items.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"fmt"
	"os"

	"jewelry-ledger/internal/app"
	"jewelry-ledger/internal/bootstrap"
	"jewelry-ledger/internal/config"
	"jewelry-ledger/internal/logger"

	"github.com/shopspring/decimal"
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

	if err := run(context.Background(), cfg, log); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()
	if err := rt.OpenOperatorSession(ctx); err != nil {
		return err
	}
	svc := rt.Service

	sum, err := svc.GetSummary(ctx)
	if err != nil {
		return err
	}
	if sum.CustomerCount > 0 || sum.ItemCount > 0 {
		return fmt.Errorf("document %q is not empty (%d customers, %d items)", cfg.DocumentName, sum.CustomerCount, sum.ItemCount)
	}

	d := decimal.RequireFromString
	log.Info("restoring inventory...")
	items := map[string]string{}
	for _, it := range []app.AddItemRequest{
		{Name: "Kundan Necklace", Category: "Necklace", Weight: d("42.500"), Purity: "22K", Price: d("265000"), Quantity: 2},
		{Name: "Plain Band", Category: "Ring", Weight: d("4.200"), Purity: "22K", Price: d("26500"), Quantity: 6},
		{Name: "Solitaire Ring", Category: "Ring", Weight: d("3.100"), Purity: "18K", Price: d("54000"), Quantity: 1},
		{Name: "Jhumka", Category: "Earrings", Weight: d("8.000"), Purity: "22K", Price: d("48000"), Quantity: 4},
		{Name: "Kada", Category: "Bangle", Weight: d("18.750"), Purity: "22K", Price: d("112000"), Quantity: 3},
	} {
		res, err := svc.AddItem(ctx, it)
		if err != nil {
			return fmt.Errorf("add item %s: %w", it.Name, err)
		}
		items[it.Name] = res.Item.ID
	}

	log.Info("restoring customers...")
	customers := map[string]string{}
	for _, c := range []app.AddCustomerRequest{
		{Name: "Anita Rao", Phone: "9845000001"},
		{Name: "Vikram Shetty", Phone: "9845000002"},
		{Name: "Farah Khan", Phone: "9845000003"},
	} {
		res, err := svc.AddCustomer(ctx, c)
		if err != nil {
			return fmt.Errorf("add customer %s: %w", c.Name, err)
		}
		customers[c.Name] = res.Customer.ID
	}

	log.Info("restoring bills...")
	for _, b := range []app.CreateBillRequest{
		{
			CustomerID: customers["Anita Rao"],
			Type:       "INVOICE",
			Lines:      []app.BillLineInput{{ItemID: items["Jhumka"], Quantity: 1}},
			AmountPaid: d("20000"),
		},
		{
			CustomerID:      customers["Anita Rao"],
			Type:            "INVOICE",
			Lines:           []app.BillLineInput{{ItemID: items["Plain Band"], Quantity: 2}},
			LessWeight:      d("0.400"),
			BargainedAmount: d("1500"),
		},
		{
			CustomerID: customers["Vikram Shetty"],
			Type:       "ESTIMATE",
			Lines: []app.BillLineInput{
				{ItemID: items["Kada"], Quantity: 1},
				{ItemID: items["Solitaire Ring"], Quantity: 1},
			},
			AmountPaid: d("50000"),
		},
		{
			CustomerID: customers["Farah Khan"],
			Type:       "INVOICE",
			Lines:      []app.BillLineInput{{ItemID: items["Kundan Necklace"], Quantity: 1}},
			AmountPaid: d("265000"),
		},
	} {
		if _, err := svc.CreateBill(ctx, b); err != nil {
			return fmt.Errorf("create bill for %s: %w", b.CustomerID, err)
		}
	}

	log.Info("recording a part payment...")
	if _, err := svc.RecordPayment(ctx, app.RecordPaymentRequest{
		CustomerID: customers["Anita Rao"],
		Amount:     d("25000"),
	}); err != nil {
		return err
	}

	sum, err = svc.GetSummary(ctx)
	if err != nil {
		return err
	}
	log.Info("seed data restored",
		zap.Int("customers", sum.CustomerCount),
		zap.Int("items", sum.ItemCount),
		zap.String("revenue", sum.TotalRevenue.StringFixed(2)),
		zap.String("pending", sum.TotalPending.StringFixed(2)),
	)
	return nil
}
