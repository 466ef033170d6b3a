package insights

import (
	"sort"

	"fnb-insights/internal/application/trend"
	"fnb-insights/internal/domain/sales"
)

// maxPrepSeconds caps plausible kitchen prep times; rows outside [0, 1h]
// are treated as clock noise and dropped.
const maxPrepSeconds = 3600

// HourStat aggregates one hour-of-day bucket.
type HourStat struct {
	Hour         int     `json:"hour"`
	AvgPrepTime  float64 `json:"avg_prep_seconds"`
	Transactions int     `json:"transactions"`
}

// OpsResult is the operational-efficiency analysis: prep-time KPIs, the
// per-hour load/prep profile and the load-vs-speed correlation.
type OpsResult struct {
	ByHour []HourStat `json:"by_hour"`

	MeanPrepTime float64 `json:"mean_prep_seconds"`
	MinPrepTime  float64 `json:"min_prep_seconds"`
	MaxPrepTime  float64 `json:"max_prep_seconds"`

	// Spearman rank correlation of hourly transaction count against hourly
	// average prep time, nil when fewer than 3 hour buckets exist.
	Correlation *float64 `json:"correlation,omitempty"`
	PValue      *float64 `json:"p_value,omitempty"`
}

// CongestionSignificant reports whether busy hours provably slow the
// kitchen (positive correlation above 0.3 at p < 0.05).
func (r *OpsResult) CongestionSignificant() bool {
	return r != nil && r.Correlation != nil && r.PValue != nil &&
		*r.PValue < 0.05 && *r.Correlation > 0.3
}

// PeakHour returns the hour with the most transactions.
func (r *OpsResult) PeakHour() int {
	if r == nil || len(r.ByHour) == 0 {
		return 0
	}
	best := r.ByHour[0]
	for _, h := range r.ByHour[1:] {
		if h.Transactions > best.Transactions {
			best = h
		}
	}
	return best.Hour
}

// AnalyzeOperations derives prep times from the optional kitchen timestamps
// and correlates hourly load with service speed. Returns nil when no row
// carries usable timestamps.
func AnalyzeOperations(rows []sales.Transaction) *OpsResult {
	type bucket struct {
		prepSum float64
		prepN   int
		bills   map[string]struct{}
	}
	buckets := make(map[int]*bucket)

	var (
		sum   float64
		count int
		min   float64
		max   float64
	)
	for _, t := range rows {
		if !t.HasPrepTimes() {
			continue
		}
		prep := t.OrderOut.Sub(t.OrderIn).Seconds()
		if prep < 0 || prep > maxPrepSeconds {
			continue
		}

		if count == 0 || prep < min {
			min = prep
		}
		if prep > max {
			max = prep
		}
		sum += prep
		count++

		hour := t.OrderTime.Hour()
		b, ok := buckets[hour]
		if !ok {
			b = &bucket{bills: make(map[string]struct{})}
			buckets[hour] = b
		}
		b.prepSum += prep
		b.prepN++
		if t.BillNumber != "" {
			b.bills[t.BillNumber] = struct{}{}
		}
	}
	if count == 0 {
		return nil
	}

	res := &OpsResult{
		MeanPrepTime: sum / float64(count),
		MinPrepTime:  min,
		MaxPrepTime:  max,
		ByHour:       make([]HourStat, 0, len(buckets)),
	}
	for hour, b := range buckets {
		res.ByHour = append(res.ByHour, HourStat{
			Hour:         hour,
			AvgPrepTime:  b.prepSum / float64(b.prepN),
			Transactions: len(b.bills),
		})
	}
	sort.Slice(res.ByHour, func(i, j int) bool { return res.ByHour[i].Hour < res.ByHour[j].Hour })

	if len(res.ByHour) > 2 {
		x := make([]float64, len(res.ByHour))
		y := make([]float64, len(res.ByHour))
		for i, h := range res.ByHour {
			x[i] = float64(h.Transactions)
			y[i] = h.AvgPrepTime
		}
		if rho, p, ok := trend.Spearman(x, y); ok {
			res.Correlation = &rho
			res.PValue = &p
		}
	}
	return res
}
