package core

import (
	"errors"
	"strings"
	"time"
)

const (
	CategoryRent        Category = "RENT"
	CategoryElectricity Category = "ELECTRICITY"
	CategoryWater       Category = "WATER"
	CategoryGas         Category = "GAS"
	CategoryInternet    Category = "INTERNET"
	CategoryPhone       Category = "PHONE"
	CategoryOther       Category = "OTHER"
)

const (
	StatusPending Status = "PENDING"
	StatusPaid    Status = "PAID"
	StatusOverdue Status = "OVERDUE"
)

type (
	Category string
	Status   string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Bill is a recurring expense template. Payments are generated from
	// it month by month.
	Bill struct {
		ID          int64
		Name        string
		Category    Category
		Amount      Money
		DueDay      int // 1-31, clamped to shorter months at generation time
		Description string
		Active      bool
	}

	// Payment is one month's instance of a bill's obligation. Amount is
	// snapshotted from the bill at creation time and may diverge from it.
	Payment struct {
		ID       int64
		BillID   int64
		Amount   Money
		Status   Status
		DueDate  Date
		PaidDate Date // set if and only if Status is PAID
		Notes    string
	}
)

var (
	ErrInvalidDueDay     = errors.New("invalid due day")
	ErrInvalidMonth      = errors.New("invalid month")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInvalidCategory   = errors.New("invalid category")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrEmptyName         = errors.New("empty bill name")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBillNotFound      = errors.New("bill not found")
	ErrPaymentNotFound   = errors.New("payment not found")
)

func (c Category) Validate() error {
	switch c {
	case CategoryRent, CategoryElectricity, CategoryWater, CategoryGas,
		CategoryInternet, CategoryPhone, CategoryOther:
		return nil
	default:
		return ErrInvalidCategory
	}
}

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusPaid, StatusOverdue:
		return nil
	default:
		return ErrInvalidStatus
	}
}

// CanTransition reports whether a payment may move from s to target.
// PAID is terminal; OVERDUE is only reachable from PENDING.
func (s Status) CanTransition(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusPaid || target == StatusOverdue
	case StatusOverdue:
		return target == StatusPaid
	default:
		return false
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DueDateFor computes the due date for a bill in a given month, clamping
// the day to the last day of months too short for it (day 31 in April
// yields the 30th, in February the 28th or 29th).
func DueDateFor(year, month, day int) Date {
	last := LastDayOfMonth(year, month)
	if day > last {
		day = last
	}
	return NewDate(year, month, day)
}

// LastDayOfMonth returns the number of days in the given month.
func LastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (b Bill) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if len(b.Name) > 200 {
		return errors.New("bill name too long (max 200 characters)")
	}
	if err := b.Category.Validate(); err != nil {
		return err
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

func (p Payment) Validate() error {
	if p.BillID <= 0 {
		return errors.New("payment must reference a bill")
	}
	if err := p.Amount.Validate(); err != nil {
		return err
	}
	if err := p.Status.Validate(); err != nil {
		return err
	}
	if err := p.DueDate.Validate(); err != nil {
		return errors.New("invalid due date: " + err.Error())
	}
	// Paid date goes hand in hand with the PAID status
	if p.Status == StatusPaid && p.PaidDate.IsEmpty() {
		return errors.New("paid payment must carry a paid date")
	}
	if p.Status != StatusPaid && !p.PaidDate.IsEmpty() {
		return errors.New("unpaid payment cannot carry a paid date")
	}
	return nil
}
