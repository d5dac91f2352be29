package core

const (
	TrendUp     Trend = "UP"
	TrendDown   Trend = "DOWN"
	TrendStable Trend = "STABLE"
)

// Trend is the direction a metric moved between the two most recent
// periods of a comparison.
type Trend string

// MetricTrend describes how one summary metric moved across three
// consecutive months. Values is in chronological order, oldest first.
//
// Change compares only the two most recent periods; the oldest value is
// context. PercentageChange divides the change by the middle period's
// value and is nil when that value is zero, never infinity or NaN.
type MetricTrend struct {
	Metric           string
	Values           [3]Money
	Change           Money
	PercentageChange *float64
	Trend            Trend
}

// NewMetricTrend computes the trend for one metric. Amounts are integer
// cents, so the 0.01-unit stability epsilon reduces to change == 0.
func NewMetricTrend(metric string, oldest, middle, newest Money) MetricTrend {
	change := newest.Cents - middle.Cents

	mt := MetricTrend{
		Metric: metric,
		Values: [3]Money{oldest, middle, newest},
		Change: Money{Cents: change},
	}

	if middle.Cents != 0 {
		pct := float64(change) / float64(middle.Cents) * 100
		mt.PercentageChange = &pct
	}

	switch {
	case change == 0:
		mt.Trend = TrendStable
	case change > 0:
		mt.Trend = TrendUp
	default:
		mt.Trend = TrendDown
	}
	return mt
}
