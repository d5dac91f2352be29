package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bollette/internal/core"
)

// PeriodSummarizer produces one month's aggregated totals.
type PeriodSummarizer interface {
	Summarize(ctx context.Context, year, month int) (core.PeriodSummary, error)
}

// ComparisonReport holds three consecutive monthly summaries, oldest
// first, and the trend of each metric across them.
type ComparisonReport struct {
	Periods [3]core.PeriodSummary
	Metrics [4]core.MetricTrend
}

// ComparisonService builds the three-month spending comparison ending
// at a target month.
type ComparisonService struct {
	summaries PeriodSummarizer
}

func NewComparisonService(summaries PeriodSummarizer) *ComparisonService {
	return &ComparisonService{summaries: summaries}
}

// Compare summarizes the target month and the two before it, then
// derives total, paid, pending and overdue trends. The three summaries
// are independent reads, so they run concurrently.
func (c *ComparisonService) Compare(ctx context.Context, year, month int) (*ComparisonReport, error) {
	if month < 1 || month > 12 {
		return nil, core.ErrInvalidMonth
	}
	target := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	report := &ComparisonReport{}
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 3; i++ {
		i := i
		period := target.AddDate(0, i-2, 0)
		g.Go(func() error {
			summary, err := c.summaries.Summarize(gctx, period.Year(), int(period.Month()))
			if err != nil {
				return fmt.Errorf("summarize %s: %w", period.Format("2006-01"), err)
			}
			report.Periods[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	oldest, middle, newest := report.Periods[0], report.Periods[1], report.Periods[2]
	report.Metrics = [4]core.MetricTrend{
		core.NewMetricTrend("total", oldest.Total, middle.Total, newest.Total),
		core.NewMetricTrend("paid", oldest.Paid, middle.Paid, newest.Paid),
		core.NewMetricTrend("pending", oldest.Pending, middle.Pending, newest.Pending),
		core.NewMetricTrend("overdue", oldest.Overdue, middle.Overdue, newest.Overdue),
	}

	return report, nil
}
