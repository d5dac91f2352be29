package core

import (
	"testing"
	"time"
)

func TestBillValidate(t *testing.T) {
	good := Bill{
		Name:     "Rent",
		Category: CategoryRent,
		Amount:   Money{Cents: 150000},
		DueDay:   1,
		Active:   true,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Bill{
		{Name: "", Category: CategoryRent, Amount: Money{Cents: 1}, DueDay: 1},
		{Name: "a", Category: Category("LOANS"), Amount: Money{Cents: 1}, DueDay: 1},
		{Name: "a", Category: CategoryWater, Amount: Money{Cents: 0}, DueDay: 1},
		{Name: "a", Category: CategoryWater, Amount: Money{Cents: -5}, DueDay: 1},
		{Name: "a", Category: CategoryWater, Amount: Money{Cents: 1}, DueDay: 0},
		{Name: "a", Category: CategoryWater, Amount: Money{Cents: 1}, DueDay: 32},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestPaymentValidate(t *testing.T) {
	good := Payment{
		BillID:  1,
		Amount:  Money{Cents: 4500},
		Status:  StatusPending,
		DueDate: NewDate(2024, 2, 29),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	paid := good
	paid.Status = StatusPaid
	paid.PaidDate = NewDate(2024, 3, 1)
	if err := paid.Validate(); err != nil {
		t.Fatalf("expected ok for paid payment, got %v", err)
	}

	bads := []Payment{
		{BillID: 0, Amount: Money{Cents: 1}, Status: StatusPending, DueDate: NewDate(2024, 1, 1)},
		{BillID: 1, Amount: Money{Cents: 0}, Status: StatusPending, DueDate: NewDate(2024, 1, 1)},
		{BillID: 1, Amount: Money{Cents: 1}, Status: Status("CANCELLED"), DueDate: NewDate(2024, 1, 1)},
		{BillID: 1, Amount: Money{Cents: 1}, Status: StatusPending, DueDate: Date{Time: time.Time{}}},
		// paid without paid date
		{BillID: 1, Amount: Money{Cents: 1}, Status: StatusPaid, DueDate: NewDate(2024, 1, 1)},
		// pending with paid date
		{BillID: 1, Amount: Money{Cents: 1}, Status: StatusPending, DueDate: NewDate(2024, 1, 1), PaidDate: NewDate(2024, 1, 2)},
	}
	for i, p := range bads {
		if err := p.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusPaid, true},
		{StatusPending, StatusOverdue, true},
		{StatusOverdue, StatusPaid, true},
		{StatusOverdue, StatusPending, false},
		{StatusPaid, StatusPending, false},
		{StatusPaid, StatusOverdue, false},
		{StatusPaid, StatusPaid, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("%s -> %s = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestDueDateFor(t *testing.T) {
	cases := []struct {
		name        string
		year, month int
		day         int
		want        Date
	}{
		{"regular day", 2024, 1, 15, NewDate(2024, 1, 15)},
		{"day 31 in 30-day month clamps to 30", 2024, 4, 31, NewDate(2024, 4, 30)},
		{"day 31 in leap February clamps to 29", 2024, 2, 31, NewDate(2024, 2, 29)},
		{"day 31 in non-leap February clamps to 28", 2023, 2, 31, NewDate(2023, 2, 28)},
		{"day 29 in leap February stays", 2024, 2, 29, NewDate(2024, 2, 29)},
		{"last day of december", 2024, 12, 31, NewDate(2024, 12, 31)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DueDateFor(tc.year, tc.month, tc.day)
			if !got.Equal(tc.want.Time) {
				t.Errorf("DueDateFor(%d, %d, %d) = %v, want %v", tc.year, tc.month, tc.day, got, tc.want)
			}
		})
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); err == nil {
		t.Fatalf("expected error for zero")
	}
	if err := (Money{Cents: -100}).Validate(); err == nil {
		t.Fatalf("expected error for negative")
	}
}
