package services

import (
	"context"
	"fmt"
	"log/slog"

	"bollette/internal/core"
)

// BillStore is the persistence surface BillService needs.
type BillStore interface {
	CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
	GetBill(ctx context.Context, id int64) (core.Bill, error)
	ListBills(ctx context.Context) ([]core.Bill, error)
	ListActiveBills(ctx context.Context) ([]core.Bill, error)
	UpdateBill(ctx context.Context, b core.Bill) error
	DeleteBill(ctx context.Context, id int64) error
}

// EventPublisher notifies external consumers of entity mutations. A nil
// publisher disables events.
type EventPublisher interface {
	PublishEvent(ctx context.Context, entity string, id int64, action string) error
}

// BillService manages the recurring bill templates.
type BillService struct {
	bills  BillStore
	events EventPublisher
}

func NewBillService(bills BillStore, events EventPublisher) *BillService {
	return &BillService{
		bills:  bills,
		events: events,
	}
}

// Create validates and persists a new bill. New bills start active
// unless the caller says otherwise.
func (s *BillService) Create(ctx context.Context, bill core.Bill) (core.Bill, error) {
	if err := bill.Validate(); err != nil {
		return core.Bill{}, err
	}

	saved, err := s.bills.CreateBill(ctx, bill)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}

	publishEvent(ctx, s.events, "bill", saved.ID, "created")
	return saved, nil
}

func (s *BillService) Get(ctx context.Context, id int64) (core.Bill, error) {
	return s.bills.GetBill(ctx, id)
}

// List returns all bills, or only active ones when activeOnly is set.
func (s *BillService) List(ctx context.Context, activeOnly bool) ([]core.Bill, error) {
	if activeOnly {
		return s.bills.ListActiveBills(ctx)
	}
	return s.bills.ListBills(ctx)
}

// Update validates and persists changes to an existing bill. Payments
// already generated from the bill keep their snapshotted amount.
func (s *BillService) Update(ctx context.Context, bill core.Bill) error {
	if err := bill.Validate(); err != nil {
		return err
	}

	if err := s.bills.UpdateBill(ctx, bill); err != nil {
		return fmt.Errorf("update bill %d: %w", bill.ID, err)
	}

	publishEvent(ctx, s.events, "bill", bill.ID, "updated")
	return nil
}

// Deactivate excludes a bill from future payment generation without
// deleting it or its payment history.
func (s *BillService) Deactivate(ctx context.Context, id int64) error {
	bill, err := s.bills.GetBill(ctx, id)
	if err != nil {
		return err
	}
	if !bill.Active {
		return nil
	}

	bill.Active = false
	if err := s.bills.UpdateBill(ctx, bill); err != nil {
		return fmt.Errorf("deactivate bill %d: %w", id, err)
	}

	publishEvent(ctx, s.events, "bill", id, "updated")
	return nil
}

// Delete removes a bill and, through the schema's cascade, every
// payment generated from it.
func (s *BillService) Delete(ctx context.Context, id int64) error {
	if err := s.bills.DeleteBill(ctx, id); err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}

	publishEvent(ctx, s.events, "bill", id, "deleted")
	return nil
}

// publishEvent sends a mutation event when a publisher is configured.
// The local write already succeeded, so a publish failure is logged and
// swallowed rather than surfaced to the caller.
func publishEvent(ctx context.Context, events EventPublisher, entity string, id int64, action string) {
	if events == nil {
		return
	}
	if err := events.PublishEvent(ctx, entity, id, action); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"entity", entity,
			"id", id,
			"action", action,
			"error", err)
	}
}
