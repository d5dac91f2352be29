package services

import (
	"context"
	"testing"
	"time"

	"bollette/internal/core"
)

func TestOverdueSweeper_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	store := newMemStore()
	bill := store.addBill(activeBill("Rent", 85000, 1))

	stale := store.addPayment(core.Payment{
		BillID:  bill.ID,
		Amount:  bill.Amount,
		Status:  core.StatusPending,
		DueDate: core.NewDate(2024, 3, 1),
	})
	future := store.addPayment(core.Payment{
		BillID:  bill.ID,
		Amount:  bill.Amount,
		Status:  core.StatusPending,
		DueDate: core.NewDate(2024, 4, 1),
	})
	paid := store.addPayment(core.Payment{
		BillID:   bill.ID,
		Amount:   bill.Amount,
		Status:   core.StatusPaid,
		DueDate:  core.NewDate(2024, 2, 1),
		PaidDate: core.NewDate(2024, 2, 1),
	})

	sweeper := NewOverdueSweeper(store)

	count, err := sweeper.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if count != 1 {
		t.Errorf("Sweep() count = %d, want 1", count)
	}

	if got, _ := store.GetPayment(ctx, stale.ID); got.Status != core.StatusOverdue {
		t.Errorf("stale payment status = %s, want OVERDUE", got.Status)
	}
	if got, _ := store.GetPayment(ctx, future.ID); got.Status != core.StatusPending {
		t.Errorf("future payment status = %s, want PENDING", got.Status)
	}
	if got, _ := store.GetPayment(ctx, paid.ID); got.Status != core.StatusPaid {
		t.Errorf("paid payment status = %s, want PAID", got.Status)
	}

	count, err = sweeper.Sweep(ctx, now)
	if err != nil {
		t.Fatalf("second Sweep() error = %v", err)
	}
	if count != 0 {
		t.Errorf("second Sweep() count = %d, want 0", count)
	}
}

func TestOverdueSweeper_DueTodayStaysPending(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	store := newMemStore()
	bill := store.addBill(activeBill("Internet", 2999, 15))
	dueToday := store.addPayment(core.Payment{
		BillID:  bill.ID,
		Amount:  bill.Amount,
		Status:  core.StatusPending,
		DueDate: core.NewDate(2024, 3, 15),
	})

	count, err := NewOverdueSweeper(store).Sweep(ctx, now)
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Sweep() count = %d, want 0", count)
	}
	if got, _ := store.GetPayment(ctx, dueToday.ID); got.Status != core.StatusPending {
		t.Errorf("payment due today has status %s, want PENDING", got.Status)
	}
}
