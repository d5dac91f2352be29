package services

import (
	"context"
	"fmt"
	"time"

	"bollette/internal/core"
)

// PaymentStore is the persistence surface PaymentService needs.
type PaymentStore interface {
	CreatePayment(ctx context.Context, p core.Payment) (core.Payment, error)
	GetPayment(ctx context.Context, id int64) (core.Payment, error)
	ListPaymentsByBill(ctx context.Context, billID int64) ([]core.Payment, error)
	ListPaymentsInRange(ctx context.Context, from, to time.Time) ([]core.Payment, error)
	UpdatePayment(ctx context.Context, p core.Payment) error
	DeletePayment(ctx context.Context, id int64) error
}

// BillGetter resolves a payment's parent bill.
type BillGetter interface {
	GetBill(ctx context.Context, id int64) (core.Bill, error)
}

// PaymentService manages individual payment instances, including the
// manual ones created outside the monthly generator.
type PaymentService struct {
	payments PaymentStore
	bills    BillGetter
	events   EventPublisher
}

func NewPaymentService(payments PaymentStore, bills BillGetter, events EventPublisher) *PaymentService {
	return &PaymentService{
		payments: payments,
		bills:    bills,
		events:   events,
	}
}

// Create records a manual payment against an existing bill. The bill
// lookup runs first so a bad bill id fails as bill-not-found rather
// than a foreign key violation. Status defaults to pending.
func (s *PaymentService) Create(ctx context.Context, payment core.Payment) (core.Payment, error) {
	if _, err := s.bills.GetBill(ctx, payment.BillID); err != nil {
		return core.Payment{}, err
	}

	if payment.Status == "" {
		payment.Status = core.StatusPending
	}
	if err := payment.Validate(); err != nil {
		return core.Payment{}, err
	}

	saved, err := s.payments.CreatePayment(ctx, payment)
	if err != nil {
		return core.Payment{}, fmt.Errorf("create payment: %w", err)
	}

	publishEvent(ctx, s.events, "payment", saved.ID, "created")
	return saved, nil
}

func (s *PaymentService) Get(ctx context.Context, id int64) (core.Payment, error) {
	return s.payments.GetPayment(ctx, id)
}

// ListForBill returns a bill's full payment history.
func (s *PaymentService) ListForBill(ctx context.Context, billID int64) ([]core.Payment, error) {
	if _, err := s.bills.GetBill(ctx, billID); err != nil {
		return nil, err
	}
	return s.payments.ListPaymentsByBill(ctx, billID)
}

// ListForPeriod returns the payments due in the given month.
func (s *PaymentService) ListForPeriod(ctx context.Context, year, month int) ([]core.Payment, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	from, to := monthRange(year, month)
	return s.payments.ListPaymentsInRange(ctx, from, to)
}

// MarkPaid settles a payment. Pending and overdue payments can be
// paid; paying an already paid payment fails with ErrInvalidTransition.
func (s *PaymentService) MarkPaid(ctx context.Context, id int64, paidDate core.Date) error {
	payment, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	if !payment.Status.CanTransition(core.StatusPaid) {
		return fmt.Errorf("payment %d is %s: %w", id, payment.Status, core.ErrInvalidTransition)
	}
	if err := paidDate.Validate(); err != nil {
		return fmt.Errorf("invalid paid date: %w", err)
	}

	payment.Status = core.StatusPaid
	payment.PaidDate = paidDate
	if err := s.payments.UpdatePayment(ctx, payment); err != nil {
		return fmt.Errorf("mark payment %d paid: %w", id, err)
	}

	publishEvent(ctx, s.events, "payment", id, "paid")
	return nil
}

// Update changes a payment's amount or notes. Status moves only
// through MarkPaid or the overdue sweep, never through Update.
func (s *PaymentService) Update(ctx context.Context, id int64, amount *core.Money, notes *string) error {
	payment, err := s.payments.GetPayment(ctx, id)
	if err != nil {
		return err
	}

	if amount != nil {
		payment.Amount = *amount
	}
	if notes != nil {
		payment.Notes = *notes
	}
	if err := payment.Validate(); err != nil {
		return err
	}

	if err := s.payments.UpdatePayment(ctx, payment); err != nil {
		return fmt.Errorf("update payment %d: %w", id, err)
	}

	publishEvent(ctx, s.events, "payment", id, "updated")
	return nil
}

func (s *PaymentService) Delete(ctx context.Context, id int64) error {
	if err := s.payments.DeletePayment(ctx, id); err != nil {
		return fmt.Errorf("delete payment %d: %w", id, err)
	}

	publishEvent(ctx, s.events, "payment", id, "deleted")
	return nil
}
