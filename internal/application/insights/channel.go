package insights

import (
	"sort"

	"fnb-insights/internal/domain/sales"
)

// ChannelStat summarizes one sales channel.
type ChannelStat struct {
	Channel string  `json:"channel"`
	Sales   float64 `json:"sales"`
	Bills   int     `json:"bills"`
	AOV     float64 `json:"aov"`
}

// ChannelResult holds the per-channel breakdown, sorted descending by the
// respective measure.
type ChannelResult struct {
	BySales []ChannelStat `json:"by_sales"`
	ByAOV   []ChannelStat `json:"by_aov"`
}

// TopSalesChannel returns the largest revenue contributor.
func (r *ChannelResult) TopSalesChannel() string {
	if r == nil || len(r.BySales) == 0 {
		return ""
	}
	return r.BySales[0].Channel
}

// TopAOVChannel returns the channel with the highest average order value.
func (r *ChannelResult) TopAOVChannel() string {
	if r == nil || len(r.ByAOV) == 0 {
		return ""
	}
	return r.ByAOV[0].Channel
}

// AnalyzeChannels aggregates sales and AOV per channel. Returns nil when the
// dataset carries no channel information.
func AnalyzeChannels(rows []sales.Transaction) *ChannelResult {
	type bucket struct {
		sales float64
		bills map[string]struct{}
	}
	buckets := make(map[string]*bucket)

	for _, t := range rows {
		if t.Channel == "" {
			continue
		}
		b, ok := buckets[t.Channel]
		if !ok {
			b = &bucket{bills: make(map[string]struct{})}
			buckets[t.Channel] = b
		}
		b.sales += t.NetSales
		if t.BillNumber != "" {
			b.bills[t.BillNumber] = struct{}{}
		}
	}
	if len(buckets) == 0 {
		return nil
	}

	stats := make([]ChannelStat, 0, len(buckets))
	for ch, b := range buckets {
		s := ChannelStat{Channel: ch, Sales: b.sales, Bills: len(b.bills)}
		if s.Bills > 0 {
			s.AOV = s.Sales / float64(s.Bills)
		}
		stats = append(stats, s)
	}

	res := &ChannelResult{
		BySales: make([]ChannelStat, len(stats)),
		ByAOV:   make([]ChannelStat, len(stats)),
	}
	copy(res.BySales, stats)
	copy(res.ByAOV, stats)
	sort.SliceStable(res.BySales, func(i, j int) bool { return res.BySales[i].Sales > res.BySales[j].Sales })
	sort.SliceStable(res.ByAOV, func(i, j int) bool { return res.ByAOV[i].AOV > res.ByAOV[j].AOV })
	return res
}
