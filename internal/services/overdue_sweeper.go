package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SweeperPaymentStore performs the bulk pending-to-overdue update.
type SweeperPaymentStore interface {
	MarkOverdueBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// OverdueSweeper reclassifies stale pending payments. Summaries and
// comparisons read stored statuses as-is, so callers that need the
// overdue bucket to reflect the clock must run Sweep first.
type OverdueSweeper struct {
	payments SweeperPaymentStore
}

func NewOverdueSweeper(payments SweeperPaymentStore) *OverdueSweeper {
	return &OverdueSweeper{payments: payments}
}

// Sweep transitions every pending payment due strictly before now to
// overdue, across the whole store, and returns how many changed. The
// status filter means paid payments and already overdue payments are
// never touched. now is a parameter so callers own the clock.
func (s *OverdueSweeper) Sweep(ctx context.Context, now time.Time) (int64, error) {
	count, err := s.payments.MarkOverdueBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("mark overdue payments: %w", err)
	}

	if count > 0 {
		slog.InfoContext(ctx, "Swept pending payments to overdue",
			"count", count,
			"cutoff", now.Format("2006-01-02"))
	}

	return count, nil
}
