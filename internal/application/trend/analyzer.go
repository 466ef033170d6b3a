package trend

import (
	"fmt"
	"math"
	"strings"

	"fnb-insights/internal/domain/sales"
	domain "fnb-insights/internal/domain/trend"
)

const (
	// significanceLevel gates the trend classification.
	significanceLevel = 0.05

	// momentumWindow is the rolling-mean window for the short-term signal.
	momentumWindow = 3

	// minObservations is the smallest series a regression runs on.
	minObservations = 3

	// yoyLookback is the number of observations needed for a year-over-year
	// comparison (latest month plus the 12 before it).
	yoyLookback = 13
)

// NarrativeInsufficient and NarrativeConstant are the two narrative-only
// outcomes; every other narrative carries a full Result.
const (
	NarrativeInsufficient = "insufficient data for trend analysis (minimum 3 months required)"
	NarrativeConstant     = "data is constant; no trend to analyze"
)

// Analyze classifies the trajectory of one monthly metric series: linear
// trend with significance, year-over-year change, 3-month momentum and
// extrema, plus a one-paragraph narrative. Pure function of its input.
func Analyze(series sales.MonthlySeries) domain.Result {
	if series.Len() < minObservations {
		return domain.Result{Narrative: NarrativeInsufficient}
	}

	values := series.Values()
	if isConstant(values) {
		return domain.Result{Narrative: NarrativeConstant}
	}

	fit := linearFit(values)

	res := domain.Result{
		Usable:    true,
		Direction: domain.DirectionStable,
		Momentum:  domain.MomentumNeutral,
		TrendLine: fit.Fitted,
		PValue:    fit.PValue,
		Slope:     fit.Slope,
		Intercept: fit.Intercept,
	}
	if fit.PValue < significanceLevel {
		if fit.Slope > 0 {
			res.Direction = domain.DirectionIncreasing
		} else {
			res.Direction = domain.DirectionDecreasing
		}
	}

	if series.Len() >= momentumWindow+1 {
		res.MovingAverage = rollingMean(values, momentumWindow)
		last := res.MovingAverage[len(res.MovingAverage)-1]
		prev := res.MovingAverage[len(res.MovingAverage)-2]
		switch {
		case last > prev:
			res.Momentum = domain.MomentumPositive
		case last < prev:
			res.Momentum = domain.MomentumSlowing
		}
	}

	res.YoYChange = YearOverYear(series)
	res.MaxIndex, res.MinIndex = extrema(values)
	res.Narrative = buildNarrative(series, res)
	return res
}

// YearOverYear returns the fractional change of the latest observation
// against the one exactly 12 months earlier in the series, or nil when fewer
// than 13 observations exist or the prior value is not positive.
func YearOverYear(series sales.MonthlySeries) *float64 {
	n := series.Len()
	if n < yoyLookback {
		return nil
	}
	prior := series.Points[n-yoyLookback].Value
	if prior <= 0 {
		return nil
	}
	change := (series.Points[n-1].Value - prior) / prior
	return &change
}

// extrema finds argmax and argmin, first occurrence winning ties.
func extrema(values []float64) (maxIdx, minIdx int) {
	for i, v := range values {
		if v > values[maxIdx] {
			maxIdx = i
		}
		if v < values[minIdx] {
			minIdx = i
		}
	}
	return maxIdx, minIdx
}

func isConstant(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// buildNarrative assembles the paragraph in fixed order: overall trend,
// momentum, year-over-year, extrema. Absent clauses are skipped.
func buildNarrative(series sales.MonthlySeries, res domain.Result) string {
	var b strings.Builder

	phrase := "stable/fluctuating"
	switch res.Direction {
	case domain.DirectionIncreasing:
		phrase = "increasing significantly"
	case domain.DirectionDecreasing:
		phrase = "decreasing significantly"
	}
	fmt.Fprintf(&b, "Overall, the %s trend is %s.", series.Metric.Label(), phrase)

	switch res.Momentum {
	case domain.MomentumPositive:
		b.WriteString(" Short-term momentum over the last 3 months looks positive.")
	case domain.MomentumSlowing:
		b.WriteString(" Short-term momentum shows a slowdown.")
	}

	if res.YoYChange != nil {
		change := *res.YoYChange
		if change > 0 {
			fmt.Fprintf(&b, " Compared to the same month last year, the latest month grew %.1f%%.", change*100)
		} else {
			fmt.Fprintf(&b, " Compared to the same month last year, the latest month declined %.1f%%.", math.Abs(change)*100)
		}
	}

	fmt.Fprintf(&b, " The strongest month was %s and the weakest was %s.",
		series.Points[res.MaxIndex].Month.Format("January 2006"),
		series.Points[res.MinIndex].Month.Format("January 2006"))

	return b.String()
}
