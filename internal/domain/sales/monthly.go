package sales

import (
	"fmt"
	"time"
)

// Metric identifies one of the monthly KPI series derived from transactions.
type Metric string

const (
	MetricSales        Metric = "sales"
	MetricTransactions Metric = "transactions"
	MetricAOV          Metric = "aov"
)

// Label returns the display name used in narratives.
func (m Metric) Label() string {
	switch m {
	case MetricSales:
		return "sales"
	case MetricTransactions:
		return "transactions"
	case MetricAOV:
		return "AOV"
	}
	return string(m)
}

// Valid reports whether m is a known metric.
func (m Metric) Valid() bool {
	switch m {
	case MetricSales, MetricTransactions, MetricAOV:
		return true
	}
	return false
}

// MonthlyPoint is one observation of a monthly series.
type MonthlyPoint struct {
	Month time.Time // first day of the month, UTC
	Value float64
}

// MonthlySeries is an ordered sequence of monthly observations for one
// metric within one branch/filter scope. Months are ascending and unique;
// calendar gaps are kept as gaps, never synthesized.
type MonthlySeries struct {
	Metric Metric
	Points []MonthlyPoint
}

// Len returns the number of observations.
func (s MonthlySeries) Len() int { return len(s.Points) }

// Values returns the observation values in order.
func (s MonthlySeries) Values() []float64 {
	vals := make([]float64, len(s.Points))
	for i, p := range s.Points {
		vals[i] = p.Value
	}
	return vals
}

// Validate checks the ordering invariant.
func (s MonthlySeries) Validate() error {
	for i := 1; i < len(s.Points); i++ {
		if !s.Points[i-1].Month.Before(s.Points[i].Month) {
			return fmt.Errorf("months must be strictly ascending: %s then %s",
				s.Points[i-1].Month.Format("2006-01"), s.Points[i].Month.Format("2006-01"))
		}
	}
	return nil
}

// MonthlyAggregate is the per-month roll-up of a filtered dataset: total net
// sales, distinct bill count and the resulting average order value.
type MonthlyAggregate struct {
	Month        time.Time
	Sales        float64
	Transactions int
	AOV          float64
}

// Series projects a metric column out of the aggregates.
func Series(rows []MonthlyAggregate, metric Metric) MonthlySeries {
	s := MonthlySeries{Metric: metric, Points: make([]MonthlyPoint, 0, len(rows))}
	for _, r := range rows {
		var v float64
		switch metric {
		case MetricSales:
			v = r.Sales
		case MetricTransactions:
			v = float64(r.Transactions)
		case MetricAOV:
			v = r.AOV
		}
		s.Points = append(s.Points, MonthlyPoint{Month: r.Month, Value: v})
	}
	return s
}

// MonthOf truncates a timestamp to the first day of its month in UTC.
func MonthOf(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
