package health

import (
	"fmt"

	domain "fnb-insights/internal/domain/health"
	"fnb-insights/internal/domain/sales"
	trendDomain "fnb-insights/internal/domain/trend"
)

// Inputs carries the per-metric trend results plus the sales series the
// year-over-year score is extracted from.
type Inputs struct {
	Sales        trendDomain.Result
	Transactions trendDomain.Result
	AOV          trendDomain.Result

	// SalesYoY is the fractional year-over-year sales change, nil when
	// fewer than 13 months of sales history exist or the prior value is
	// not positive (trend.YearOverYear on the sales series).
	SalesYoY *float64

	Aux Auxiliary
}

// Auxiliary holds the pre-computed highlights of the channel, menu and
// operations analyses. The scorer only formats them into recommendation
// sentences; all computation happens upstream.
type Auxiliary struct {
	TopStar         string
	TopWorkhorse    string
	TopSalesChannel string
	TopAOVChannel   string

	// CongestionSignificant is set when hourly load correlates with prep
	// time (Spearman p < 0.05 and rho > 0.3); PeakHour is the busiest hour.
	CongestionSignificant bool
	PeakHour              int
}

// Score combines the three trend results and the YoY change into one
// composite health verdict with status, per-metric breakdown, diagnostic
// context and recommendations.
func Score(in Inputs) domain.Score {
	perMetric := map[string]domain.MetricScore{
		string(sales.MetricSales):        metricScore(in.Sales),
		string(sales.MetricTransactions): metricScore(in.Transactions),
		string(sales.MetricAOV):          metricScore(in.AOV),
	}

	trendHealth := 0
	for _, ms := range perMetric {
		trendHealth += ms.Total
	}

	yoyScore := yoyScoreOf(in.SalesYoY)
	perMetric[domain.YoYMetric] = domain.MetricScore{Total: yoyScore, Trend: yoyScore}

	composite := trendHealth + yoyScore

	s := domain.Score{
		Status:           classify(composite),
		Composite:        composite,
		TrendHealth:      trendHealth,
		YoYScore:         yoyScore,
		PerMetric:        perMetric,
		YoYChange:        in.SalesYoY,
		ContextNarrative: contextNarrative(in.Sales, in.Transactions, in.AOV),
		Recommendations:  recommendations(in.Aux),
	}
	s.Color = s.Status.Color()
	return s
}

func metricScore(r trendDomain.Result) domain.MetricScore {
	ts := r.TrendScore()
	ms := r.MomentumScore()
	return domain.MetricScore{Total: ts + ms, Trend: ts, Momentum: ms}
}

// yoyScoreOf maps the fractional change to a score contribution. Brackets
// are checked in order, first match wins.
func yoyScoreOf(change *float64) int {
	if change == nil {
		return 0
	}
	switch {
	case *change > 0.15:
		return 2
	case *change > 0.05:
		return 1
	case *change < -0.15:
		return -2
	case *change < -0.05:
		return -1
	}
	return 0
}

// classify applies the status thresholds in order, first match wins. The
// default bucket spans both slightly-positive and negative scores; the
// cutoffs mirror the agreed dashboard behavior.
func classify(score int) domain.Status {
	switch {
	case score > 5:
		return domain.StatusVeryGood
	case score >= 2:
		return domain.StatusGood
	case score <= -5:
		return domain.StatusAlert
	}
	return domain.StatusNeedsAttention
}

// contextNarrative pattern-matches the interaction between the three metric
// directions. Patterns are checked in priority order; no match means no
// context narrative, which is a valid outcome.
func contextNarrative(salesRes, trxRes, aovRes trendDomain.Result) string {
	salesUp := salesRes.Usable && salesRes.Direction == trendDomain.DirectionIncreasing
	salesDown := salesRes.Usable && salesRes.Direction == trendDomain.DirectionDecreasing
	trxUp := trxRes.Usable && trxRes.Direction == trendDomain.DirectionIncreasing
	aovUp := aovRes.Usable && aovRes.Direction == trendDomain.DirectionIncreasing
	aovDown := aovRes.Usable && aovRes.Direction == trendDomain.DirectionDecreasing

	switch {
	case salesUp && aovUp && !trxUp:
		return "growth driven by higher basket value (AOV up), not by additional transactions."
	case salesUp && trxUp && aovDown:
		return "sales up due to high transaction volume, but AOV down; may signal excessive discounting."
	case salesDown && trxUp && aovDown:
		return "transactions may be up, but a sharp AOV decline is suppressing total sales; review pricing/promotion strategy."
	}
	return ""
}

func recommendations(aux Auxiliary) []string {
	var recs []string

	if aux.TopStar != "" {
		recs = append(recs, fmt.Sprintf("Prioritize promotion on star menu '%s'.", aux.TopStar))
	}
	if aux.TopWorkhorse != "" {
		recs = append(recs, fmt.Sprintf("Menu '%s' sells in high volume; consider a price increase or bundling.", aux.TopWorkhorse))
	}

	if aux.TopSalesChannel != "" && aux.TopSalesChannel == aux.TopAOVChannel {
		recs = append(recs, fmt.Sprintf("Channel '%s' is both the largest contributor and has the highest AOV; prioritize it.", aux.TopSalesChannel))
	} else {
		if aux.TopSalesChannel != "" {
			recs = append(recs, fmt.Sprintf("Protect channel '%s', your largest revenue contributor.", aux.TopSalesChannel))
		}
		if aux.TopAOVChannel != "" {
			recs = append(recs, fmt.Sprintf("Customers on '%s' spend the most per order; build a loyalty program for them.", aux.TopAOVChannel))
		}
	}

	if aux.CongestionSignificant {
		recs = append(recs, fmt.Sprintf("Service slows down when busy; add staff around the %02d:00 peak.", aux.PeakHour))
	}

	return recs
}
