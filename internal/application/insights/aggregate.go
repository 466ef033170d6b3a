package insights

import (
	"sort"
	"time"

	"fnb-insights/internal/domain/sales"
)

// MonthlyAggregates groups transactions by calendar month: total net sales,
// distinct bill count and the resulting AOV. Months appear only when data
// exists; gaps are not synthesized. Output is ascending by month.
func MonthlyAggregates(rows []sales.Transaction) []sales.MonthlyAggregate {
	type bucket struct {
		sales float64
		bills map[string]struct{}
	}
	buckets := make(map[time.Time]*bucket)

	for _, t := range rows {
		if t.SalesDate.IsZero() {
			continue
		}
		month := sales.MonthOf(t.SalesDate)
		b, ok := buckets[month]
		if !ok {
			b = &bucket{bills: make(map[string]struct{})}
			buckets[month] = b
		}
		b.sales += t.NetSales
		if t.BillNumber != "" {
			b.bills[t.BillNumber] = struct{}{}
		}
	}

	out := make([]sales.MonthlyAggregate, 0, len(buckets))
	for month, b := range buckets {
		agg := sales.MonthlyAggregate{
			Month:        month,
			Sales:        b.sales,
			Transactions: len(b.bills),
		}
		if agg.Transactions > 0 {
			agg.AOV = agg.Sales / float64(agg.Transactions)
		}
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month.Before(out[j].Month) })
	return out
}
