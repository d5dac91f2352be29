package services

import (
	"context"
	"fmt"
	"time"

	"bollette/internal/core"
)

// SummaryPaymentStore aggregates payment amounts per status.
type SummaryPaymentStore interface {
	SumByStatusInRange(ctx context.Context, from, to time.Time) (map[core.Status]int64, error)
}

// SummaryService computes the per-month totals shown by the summary
// and compare commands.
type SummaryService struct {
	payments SummaryPaymentStore
}

func NewSummaryService(payments SummaryPaymentStore) *SummaryService {
	return &SummaryService{payments: payments}
}

// Summarize aggregates every payment whose due date falls inside the
// given month, bucketed by status. A month with no payments yields a
// summary of all zeros, not an error.
func (s *SummaryService) Summarize(ctx context.Context, year, month int) (core.PeriodSummary, error) {
	if month < 1 || month > 12 {
		return core.PeriodSummary{}, core.ErrInvalidMonth
	}
	from, to := monthRange(year, month)

	sums, err := s.payments.SumByStatusInRange(ctx, from, to)
	if err != nil {
		return core.PeriodSummary{}, fmt.Errorf("sum payments for %d-%02d: %w", year, month, err)
	}

	return core.NewPeriodSummary(year, month,
		sums[core.StatusPaid],
		sums[core.StatusPending],
		sums[core.StatusOverdue]), nil
}
