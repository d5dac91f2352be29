package services

import (
	"context"
	"errors"
	"testing"

	"bollette/internal/core"
)

func TestPaymentGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates one payment per active bill", func(t *testing.T) {
		store := newMemStore()
		store.addBill(activeBill("Rent", 85000, 1))
		store.addBill(activeBill("Internet", 2999, 15))
		gen := NewPaymentGenerator(store, store)

		created, err := gen.Generate(ctx, 2024, 3)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(created) != 2 {
			t.Fatalf("Generate() created %d payments, want 2", len(created))
		}
		for _, p := range created {
			if p.Status != core.StatusPending {
				t.Errorf("payment for bill %d has status %s, want PENDING", p.BillID, p.Status)
			}
		}
	})

	t.Run("second run for the same month creates nothing", func(t *testing.T) {
		store := newMemStore()
		store.addBill(activeBill("Rent", 85000, 1))
		gen := NewPaymentGenerator(store, store)

		if _, err := gen.Generate(ctx, 2024, 3); err != nil {
			t.Fatalf("first Generate() error = %v", err)
		}
		created, err := gen.Generate(ctx, 2024, 3)
		if err != nil {
			t.Fatalf("second Generate() error = %v", err)
		}
		if len(created) != 0 {
			t.Errorf("second Generate() created %d payments, want 0", len(created))
		}
		if len(store.payments) != 1 {
			t.Errorf("store holds %d payments, want 1", len(store.payments))
		}
	})

	t.Run("skips inactive bills", func(t *testing.T) {
		store := newMemStore()
		store.addBill(activeBill("Rent", 85000, 1))
		inactive := activeBill("Old gym", 4500, 10)
		inactive.Active = false
		store.addBill(inactive)
		gen := NewPaymentGenerator(store, store)

		created, err := gen.Generate(ctx, 2024, 3)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(created) != 1 {
			t.Fatalf("Generate() created %d payments, want 1", len(created))
		}
	})

	t.Run("clamps due day to shorter months", func(t *testing.T) {
		store := newMemStore()
		store.addBill(activeBill("Electricity", 6000, 31))
		gen := NewPaymentGenerator(store, store)

		created, err := gen.Generate(ctx, 2024, 2)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		want := core.NewDate(2024, 2, 29)
		if !created[0].DueDate.Equal(want.Time) {
			t.Errorf("due date = %v, want %v", created[0].DueDate, want)
		}
	})

	t.Run("snapshots the bill amount", func(t *testing.T) {
		store := newMemStore()
		bill := store.addBill(activeBill("Water", 3200, 5))
		gen := NewPaymentGenerator(store, store)

		created, err := gen.Generate(ctx, 2024, 3)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}

		bill.Amount = core.Money{Cents: 9999}
		store.bills[bill.ID] = bill

		got, _ := store.GetPayment(ctx, created[0].ID)
		if got.Amount.Cents != 3200 {
			t.Errorf("payment amount = %d, want snapshotted 3200", got.Amount.Cents)
		}
	})

	t.Run("rejects invalid month", func(t *testing.T) {
		gen := NewPaymentGenerator(newMemStore(), newMemStore())
		if _, err := gen.Generate(ctx, 2024, 13); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Generate() error = %v, want ErrInvalidMonth", err)
		}
		if _, err := gen.Generate(ctx, 2024, 0); !errors.Is(err, core.ErrInvalidMonth) {
			t.Errorf("Generate() error = %v, want ErrInvalidMonth", err)
		}
	})

	t.Run("aborts on persistence failure and keeps earlier payments", func(t *testing.T) {
		store := newMemStore()
		store.addBill(activeBill("Rent", 85000, 1))
		store.addBill(activeBill("Internet", 2999, 15))
		store.addBill(activeBill("Gas", 5400, 20))
		store.createPaymentErr = errors.New("disk full")
		store.failCreateAfter = 1
		gen := NewPaymentGenerator(store, store)

		created, err := gen.Generate(ctx, 2024, 3)
		if err == nil {
			t.Fatal("Generate() should fail when a payment cannot be persisted")
		}
		if len(created) != 1 {
			t.Errorf("Generate() returned %d created payments, want 1", len(created))
		}
		if len(store.payments) != 1 {
			t.Errorf("store holds %d payments, want the 1 written before the failure", len(store.payments))
		}
	})
}
