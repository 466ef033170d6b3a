package health

import "fnb-insights/internal/domain/sales"

// Status is the categorical business-health verdict.
type Status string

const (
	StatusVeryGood       Status = "Very Good"
	StatusGood           Status = "Good"
	StatusNeedsAttention Status = "Needs Attention"
	StatusAlert          Status = "Alert"
)

// Color returns the display color associated with a status.
func (s Status) Color() string {
	switch s {
	case StatusVeryGood, StatusGood:
		return "green"
	case StatusAlert:
		return "red"
	}
	return "orange"
}

// MetricScore breaks one metric's contribution into its trend and momentum
// components. Total is always their sum.
type MetricScore struct {
	Total    int `json:"total"`
	Trend    int `json:"long_term_trend"`
	Momentum int `json:"short_term_momentum"`
}

// YoYMetric is the pseudo-metric key under which the sales year-over-year
// score is reported alongside the three real metrics.
const YoYMetric = "YoY"

// Score is the composite health verdict derived from the per-metric trend
// results. Recomputed on demand, never persisted.
type Score struct {
	Status Status `json:"status"`
	Color  string `json:"color"`

	// Composite is TrendHealth + YoYScore.
	Composite   int `json:"composite"`
	TrendHealth int `json:"trend_health"`
	YoYScore    int `json:"yoy_score"`

	// PerMetric is keyed by sales.Metric values plus YoYMetric.
	PerMetric map[string]MetricScore `json:"per_metric"`

	// YoYChange is the fractional year-over-year sales change, when 13+
	// months of sales history exist and the prior value is positive.
	YoYChange *float64 `json:"yoy_change,omitempty"`

	// ContextNarrative describes the interaction between sales,
	// transactions and AOV when one of the known patterns matches.
	ContextNarrative string `json:"context_narrative,omitempty"`

	// Recommendations are short actionable strings assembled from the
	// auxiliary channel/menu/operations analyses.
	Recommendations []string `json:"recommendations"`
}

// MetricNames lists the per-metric score keys in display order.
func MetricNames() []string {
	return []string{
		string(sales.MetricSales),
		string(sales.MetricTransactions),
		string(sales.MetricAOV),
		YoYMetric,
	}
}
