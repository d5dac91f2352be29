package core

import "time"

// PeriodSummary reduces one calendar month of payments to per-status sums.
type PeriodSummary struct {
	Year    int
	Month   int // 1-12
	Label   string
	Total   Money
	Paid    Money
	Pending Money
	Overdue Money
}

// NewPeriodSummary builds a summary from per-status cent sums. Total is
// derived from the three buckets, so total == paid + pending + overdue
// holds by construction.
func NewPeriodSummary(year, month int, paid, pending, overdue int64) PeriodSummary {
	return PeriodSummary{
		Year:    year,
		Month:   month,
		Label:   PeriodLabel(year, month),
		Total:   Money{Cents: paid + pending + overdue},
		Paid:    Money{Cents: paid},
		Pending: Money{Cents: pending},
		Overdue: Money{Cents: overdue},
	}
}

// PeriodLabel renders a human-readable name for a year+month, e.g.
// "February 2024".
func PeriodLabel(year, month int) string {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006")
}
