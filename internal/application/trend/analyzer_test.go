package trend

import (
	"strings"
	"testing"
	"time"

	"fnb-insights/internal/domain/sales"
	domain "fnb-insights/internal/domain/trend"
)

func buildSeries(metric sales.Metric, values []float64) sales.MonthlySeries {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	s := sales.MonthlySeries{Metric: metric}
	for i, v := range values {
		s.Points = append(s.Points, sales.MonthlyPoint{
			Month: start.AddDate(0, i, 0),
			Value: v,
		})
	}
	return s
}

func TestAnalyze_InsufficientData(t *testing.T) {
	for _, n := range []int{0, 1, 2} {
		values := make([]float64, n)
		for i := range values {
			values[i] = float64(100 * (i + 1))
		}
		res := Analyze(buildSeries(sales.MetricSales, values))

		if res.Usable {
			t.Fatalf("n=%d: result should not be usable", n)
		}
		if !strings.Contains(res.Narrative, "insufficient") || !strings.Contains(res.Narrative, "3 months") {
			t.Fatalf("n=%d: unexpected narrative %q", n, res.Narrative)
		}
		if res.TrendLine != nil || res.MovingAverage != nil || res.YoYChange != nil {
			t.Fatalf("n=%d: optional fields must be absent: %+v", n, res)
		}
	}
}

func TestAnalyze_ConstantSeries(t *testing.T) {
	res := Analyze(buildSeries(sales.MetricTransactions, []float64{500, 500, 500, 500, 500, 500}))

	if res.Usable {
		t.Fatal("constant series should not be usable")
	}
	if res.Narrative != NarrativeConstant {
		t.Fatalf("unexpected narrative %q", res.Narrative)
	}
	if res.TrendLine != nil || res.MovingAverage != nil {
		t.Fatalf("optional fields must be absent: %+v", res)
	}
	if res.TrendScore() != 0 || res.MomentumScore() != 0 {
		t.Fatalf("constant series must score zero, got %d/%d", res.TrendScore(), res.MomentumScore())
	}
}

func TestAnalyze_PerfectlyLinearIncreasing(t *testing.T) {
	res := Analyze(buildSeries(sales.MetricSales, []float64{100, 200, 300, 400, 500, 600}))

	if !res.Usable {
		t.Fatalf("expected usable result, narrative=%q", res.Narrative)
	}
	if res.PValue >= 0.05 {
		t.Fatalf("perfect linear series must be significant, p=%v", res.PValue)
	}
	if res.Direction != domain.DirectionIncreasing {
		t.Fatalf("expected increasing, got %s", res.Direction)
	}
	if res.Slope <= 0 {
		t.Fatalf("slope sign must match data, got %v", res.Slope)
	}
	if !strings.Contains(res.Narrative, "increasing significantly") {
		t.Fatalf("narrative missing classification: %q", res.Narrative)
	}
	if len(res.TrendLine) != 6 {
		t.Fatalf("trend line must cover the series, got %d values", len(res.TrendLine))
	}
	for i, want := range []float64{100, 200, 300, 400, 500, 600} {
		if diff := res.TrendLine[i] - want; diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("trend_line[%d] = %v, want %v", i, res.TrendLine[i], want)
		}
	}
}

func TestAnalyze_DecreasingSignificantly(t *testing.T) {
	res := Analyze(buildSeries(sales.MetricSales, []float64{600, 500, 400, 300, 200, 100}))

	if res.Direction != domain.DirectionDecreasing {
		t.Fatalf("expected decreasing, got %s (p=%v)", res.Direction, res.PValue)
	}
	if res.Slope >= 0 {
		t.Fatalf("slope sign must match data, got %v", res.Slope)
	}
	if !strings.Contains(res.Narrative, "decreasing significantly") {
		t.Fatalf("narrative missing classification: %q", res.Narrative)
	}
}

func TestAnalyze_YoYGuards(t *testing.T) {
	// Exactly 12 months: no YoY clause.
	twelve := make([]float64, 12)
	for i := range twelve {
		twelve[i] = 100 + float64(i*i) // non-linear so classification may vary, YoY must not
	}
	res := Analyze(buildSeries(sales.MetricSales, twelve))
	if res.YoYChange != nil {
		t.Fatalf("12-month series must not produce YoY, got %v", *res.YoYChange)
	}
	if strings.Contains(res.Narrative, "same month last year") {
		t.Fatalf("narrative must omit YoY clause: %q", res.Narrative)
	}

	// 13 months with a zero prior value: division guard.
	thirteen := make([]float64, 13)
	thirteen[0] = 0
	for i := 1; i < 13; i++ {
		thirteen[i] = 100 + float64(i)
	}
	res = Analyze(buildSeries(sales.MetricSales, thirteen))
	if res.YoYChange != nil {
		t.Fatalf("zero prior value must suppress YoY, got %v", *res.YoYChange)
	}

	// 13 months, 100 -> 150: +50.0%.
	thirteen[0] = 100
	thirteen[12] = 150
	res = Analyze(buildSeries(sales.MetricSales, thirteen))
	if res.YoYChange == nil {
		t.Fatal("expected YoY change")
	}
	if diff := *res.YoYChange - 0.5; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("YoY change = %v, want 0.5", *res.YoYChange)
	}
	if !strings.Contains(res.Narrative, "grew 50.0%") {
		t.Fatalf("narrative missing YoY clause: %q", res.Narrative)
	}
}

func TestAnalyze_Momentum(t *testing.T) {
	up := Analyze(buildSeries(sales.MetricSales, []float64{100, 110, 120, 130}))
	if up.Momentum != domain.MomentumPositive {
		t.Fatalf("expected positive momentum, got %s", up.Momentum)
	}
	if !strings.Contains(up.Narrative, "looks positive") {
		t.Fatalf("narrative missing momentum clause: %q", up.Narrative)
	}

	down := Analyze(buildSeries(sales.MetricSales, []float64{130, 120, 110, 100}))
	if down.Momentum != domain.MomentumSlowing {
		t.Fatalf("expected slowing momentum, got %s", down.Momentum)
	}
	if !strings.Contains(down.Narrative, "slowdown") {
		t.Fatalf("narrative missing momentum clause: %q", down.Narrative)
	}

	// Three observations: momentum needs at least four.
	short := Analyze(buildSeries(sales.MetricSales, []float64{100, 120, 140}))
	if short.Momentum != domain.MomentumNeutral {
		t.Fatalf("3-month series must have neutral momentum, got %s", short.Momentum)
	}
	if short.MovingAverage != nil {
		t.Fatal("3-month series must not carry a moving average")
	}
	if strings.Contains(short.Narrative, "momentum") {
		t.Fatalf("narrative must omit momentum clause: %q", short.Narrative)
	}
}

func TestAnalyze_Extrema(t *testing.T) {
	res := Analyze(buildSeries(sales.MetricSales, []float64{100, 400, 100, 50, 400}))

	// Ties resolve to the first occurrence.
	if res.MaxIndex != 1 || res.MinIndex != 3 {
		t.Fatalf("extrema = max %d min %d, want 1/3", res.MaxIndex, res.MinIndex)
	}
	if !strings.Contains(res.Narrative, "strongest month was February 2023") {
		t.Fatalf("narrative missing max month: %q", res.Narrative)
	}
	if !strings.Contains(res.Narrative, "weakest was April 2023") {
		t.Fatalf("narrative missing min month: %q", res.Narrative)
	}
}

func TestAnalyze_NarrativeOrder(t *testing.T) {
	values := make([]float64, 14)
	for i := range values {
		values[i] = 100 + float64(i*10)
	}
	res := Analyze(buildSeries(sales.MetricSales, values))

	narrative := res.Narrative
	trendPos := strings.Index(narrative, "Overall")
	momentumPos := strings.Index(narrative, "momentum")
	yoyPos := strings.Index(narrative, "same month last year")
	extremaPos := strings.Index(narrative, "strongest month")

	if trendPos < 0 || momentumPos < 0 || yoyPos < 0 || extremaPos < 0 {
		t.Fatalf("narrative missing clauses: %q", narrative)
	}
	if !(trendPos < momentumPos && momentumPos < yoyPos && yoyPos < extremaPos) {
		t.Fatalf("clauses out of order: %q", narrative)
	}
}

// Scenario: four months with a +50% jump in the last. The short-term signal
// is clearly positive even though two degrees of freedom make the regression
// verdict unstable.
func TestAnalyze_SalesJumpScenario(t *testing.T) {
	res := Analyze(buildSeries(sales.MetricSales, []float64{1_000_000, 1_050_000, 1_100_000, 1_650_000}))

	if !res.Usable {
		t.Fatalf("expected usable result, narrative=%q", res.Narrative)
	}
	if res.Slope <= 0 {
		t.Fatalf("expected positive slope, got %v", res.Slope)
	}
	if res.PValue <= 0 || res.PValue >= 1 {
		t.Fatalf("p-value out of range: %v", res.PValue)
	}
	if res.Momentum != domain.MomentumPositive {
		t.Fatalf("expected positive momentum, got %s", res.Momentum)
	}
	if res.YoYChange != nil {
		t.Fatal("4-month series must not produce YoY")
	}
}
