package insights

import (
	"sort"

	"fnb-insights/internal/domain/sales"
)

// minMenuItems is the smallest menu a quadrant analysis makes sense for.
const minMenuItems = 4

// MenuStat summarizes one menu item.
type MenuStat struct {
	Menu  string  `json:"menu"`
	Qty   float64 `json:"qty"`
	Sales float64 `json:"sales"`
}

// MenuResult is the menu-engineering quadrant split: stars sell above
// average in both quantity and revenue, workhorses sell above-average
// quantity at below-average revenue.
type MenuResult struct {
	Items      []MenuStat `json:"items"`
	AvgQty     float64    `json:"avg_qty"`
	AvgSales   float64    `json:"avg_sales"`
	Stars      []MenuStat `json:"stars"`
	Workhorses []MenuStat `json:"workhorses"`
}

// TopStar returns the star with the highest revenue.
func (r *MenuResult) TopStar() string {
	if r == nil || len(r.Stars) == 0 {
		return ""
	}
	best := r.Stars[0]
	for _, s := range r.Stars[1:] {
		if s.Sales > best.Sales {
			best = s
		}
	}
	return best.Menu
}

// TopWorkhorse returns the workhorse with the highest quantity.
func (r *MenuResult) TopWorkhorse() string {
	if r == nil || len(r.Workhorses) == 0 {
		return ""
	}
	best := r.Workhorses[0]
	for _, s := range r.Workhorses[1:] {
		if s.Qty > best.Qty {
			best = s
		}
	}
	return best.Menu
}

// AnalyzeMenu aggregates quantity and revenue per menu item and splits the
// quadrants on the item averages. Returns nil with fewer than 4 distinct
// items.
func AnalyzeMenu(rows []sales.Transaction) *MenuResult {
	totals := make(map[string]*MenuStat)
	for _, t := range rows {
		if t.Menu == "" {
			continue
		}
		s, ok := totals[t.Menu]
		if !ok {
			s = &MenuStat{Menu: t.Menu}
			totals[t.Menu] = s
		}
		s.Qty += t.Qty
		s.Sales += t.NetSales
	}
	if len(totals) < minMenuItems {
		return nil
	}

	res := &MenuResult{Items: make([]MenuStat, 0, len(totals))}
	for _, s := range totals {
		res.Items = append(res.Items, *s)
	}
	sort.Slice(res.Items, func(i, j int) bool { return res.Items[i].Menu < res.Items[j].Menu })

	for _, s := range res.Items {
		res.AvgQty += s.Qty
		res.AvgSales += s.Sales
	}
	res.AvgQty /= float64(len(res.Items))
	res.AvgSales /= float64(len(res.Items))

	for _, s := range res.Items {
		switch {
		case s.Qty > res.AvgQty && s.Sales > res.AvgSales:
			res.Stars = append(res.Stars, s)
		case s.Qty > res.AvgQty:
			res.Workhorses = append(res.Workhorses, s)
		}
	}
	return res
}
