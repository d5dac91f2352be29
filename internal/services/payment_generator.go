package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bollette/internal/core"
)

// GeneratorBillStore lists the bill templates eligible for generation.
type GeneratorBillStore interface {
	ListActiveBills(ctx context.Context) ([]core.Bill, error)
}

// GeneratorPaymentStore persists generated payments and answers the
// per-bill duplicate check.
type GeneratorPaymentStore interface {
	BillPaymentExistsInRange(ctx context.Context, billID int64, from, to time.Time) (bool, error)
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
}

// PaymentGenerator creates the monthly payment instances for active
// bills.
type PaymentGenerator struct {
	bills    GeneratorBillStore
	payments GeneratorPaymentStore
}

func NewPaymentGenerator(bills GeneratorBillStore, payments GeneratorPaymentStore) *PaymentGenerator {
	return &PaymentGenerator{
		bills:    bills,
		payments: payments,
	}
}

// Generate ensures every active bill has exactly one payment due inside
// the given month and returns the payments created by this call.
//
// Bills that already have a payment in the month are skipped, so
// re-running for the same period is safe and the repeat call returns an
// empty slice. The bill's amount is snapshotted onto the payment; later
// bill edits leave existing payments alone. A persistence failure
// aborts the batch; payments written before the failure stay written.
func (g *PaymentGenerator) Generate(ctx context.Context, year, month int) ([]core.Payment, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	from, to := monthRange(year, month)

	bills, err := g.bills.ListActiveBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active bills: %w", err)
	}

	created := []core.Payment{}
	for _, bill := range bills {
		exists, err := g.payments.BillPaymentExistsInRange(ctx, bill.ID, from, to)
		if err != nil {
			return created, fmt.Errorf("check existing payment for bill %d: %w", bill.ID, err)
		}
		if exists {
			continue
		}

		payment := core.Payment{
			BillID:  bill.ID,
			Amount:  bill.Amount,
			Status:  core.StatusPending,
			DueDate: core.DueDateFor(year, month, bill.DueDay),
		}
		saved, err := g.payments.CreatePayment(ctx, payment)
		if err != nil {
			return created, fmt.Errorf("create payment for bill %d: %w", bill.ID, err)
		}
		created = append(created, saved)
	}

	slog.InfoContext(ctx, "Payment generation complete",
		"year", year,
		"month", month,
		"bills_checked", len(bills),
		"created", len(created))

	return created, nil
}

// monthRange returns the [from, to) bounds of a calendar month.
func monthRange(year, month int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
