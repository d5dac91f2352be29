package main

import (
	"context"
	"fmt"
	"os"

	"bollette/internal/cli"
	"bollette/internal/services"
)

const usage = `bollette - track recurring household bills and their monthly payments

Usage:
  bollette <command> [flags]

Bills:
  add-bill         register a recurring bill
  list-bills       list bills
  update-bill      change a bill's fields
  deactivate-bill  exclude a bill from future generation, keeping history
  delete-bill      remove a bill and all its payments

Payments:
  add-payment      record a manual payment for a bill
  list-payments    list payments for a bill or a month
  pay              mark a payment as paid

Periodic work:
  generate         create the month's payments for all active bills
  sweep            flag stale pending payments as overdue

Reporting:
  summary          per-status totals for one month
  compare          three-month comparison with trends

Run 'bollette <command> -h' for the flags of a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	cli.SetupLogger(cfg.LogLevel)

	repo := cli.InitSQLite(cfg.SQLiteDBPath)
	defer repo.Close()

	var events services.EventPublisher
	if client := cli.InitAMQP(cfg); client != nil {
		defer client.Close()
		events = client
	}

	summaries := services.NewSummaryService(repo)
	app := &app{
		bills:       services.NewBillService(repo, events),
		payments:    services.NewPaymentService(repo, repo, events),
		generator:   services.NewPaymentGenerator(repo, repo),
		sweeper:     services.NewOverdueSweeper(repo),
		summaries:   summaries,
		comparisons: services.NewComparisonService(summaries),
	}

	ctx := context.Background()
	if err := app.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	bills       *services.BillService
	payments    *services.PaymentService
	generator   *services.PaymentGenerator
	sweeper     *services.OverdueSweeper
	summaries   *services.SummaryService
	comparisons *services.ComparisonService
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add-bill":
		return a.addBill(ctx, args)
	case "list-bills":
		return a.listBills(ctx, args)
	case "update-bill":
		return a.updateBill(ctx, args)
	case "deactivate-bill":
		return a.deactivateBill(ctx, args)
	case "delete-bill":
		return a.deleteBill(ctx, args)
	case "add-payment":
		return a.addPayment(ctx, args)
	case "list-payments":
		return a.listPayments(ctx, args)
	case "pay":
		return a.pay(ctx, args)
	case "generate":
		return a.generate(ctx, args)
	case "sweep":
		return a.sweep(ctx)
	case "summary":
		return a.summary(ctx, args)
	case "compare":
		return a.compare(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}
