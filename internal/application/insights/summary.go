package insights

import (
	"github.com/sirupsen/logrus"

	"fnb-insights/internal/application/health"
	"fnb-insights/internal/application/trend"
	healthDomain "fnb-insights/internal/domain/health"
	"fnb-insights/internal/domain/sales"
	trendDomain "fnb-insights/internal/domain/trend"
)

// minSummaryMonths guards the health score; with fewer monthly rows the
// summary carries trends only.
const minSummaryMonths = 3

// Summary is the executive view over one filtered dataset: monthly KPIs,
// per-metric trend analyses, the composite health score and the auxiliary
// channel/menu/operations breakdowns.
type Summary struct {
	Monthly    []sales.MonthlyAggregate            `json:"monthly"`
	Trends     map[sales.Metric]trendDomain.Result `json:"trends"`
	Health     *healthDomain.Score                 `json:"health,omitempty"`
	Channels   *ChannelResult                      `json:"channels,omitempty"`
	Menu       *MenuResult                         `json:"menu,omitempty"`
	Operations *OpsResult                          `json:"operations,omitempty"`
}

// SalesNarrative is the headline trend narrative shown on the dashboard.
func (s Summary) SalesNarrative() string {
	return s.Trends[sales.MetricSales].Narrative
}

// UseCase recomputes the executive summary for a filtered dataset. Pure
// computation over in-memory rows; every filter change recomputes fresh.
type UseCase struct {
	log *logrus.Logger
}

// NewUseCase wires the summary usecase.
func NewUseCase(log *logrus.Logger) *UseCase {
	return &UseCase{log: log}
}

// Execute filters the dataset and assembles the full summary.
func (u *UseCase) Execute(rows []sales.Transaction, filter sales.Filter) Summary {
	filtered := sales.ApplyFilter(rows, filter)
	monthly := MonthlyAggregates(filtered)

	s := Summary{
		Monthly: monthly,
		Trends: map[sales.Metric]trendDomain.Result{
			sales.MetricSales:        trend.Analyze(sales.Series(monthly, sales.MetricSales)),
			sales.MetricTransactions: trend.Analyze(sales.Series(monthly, sales.MetricTransactions)),
			sales.MetricAOV:          trend.Analyze(sales.Series(monthly, sales.MetricAOV)),
		},
		Channels:   AnalyzeChannels(filtered),
		Menu:       AnalyzeMenu(filtered),
		Operations: AnalyzeOperations(filtered),
	}

	if len(monthly) >= minSummaryMonths {
		score := health.Score(health.Inputs{
			Sales:        s.Trends[sales.MetricSales],
			Transactions: s.Trends[sales.MetricTransactions],
			AOV:          s.Trends[sales.MetricAOV],
			SalesYoY:     trend.YearOverYear(sales.Series(monthly, sales.MetricSales)),
			Aux: health.Auxiliary{
				TopStar:               s.Menu.TopStar(),
				TopWorkhorse:          s.Menu.TopWorkhorse(),
				TopSalesChannel:       s.Channels.TopSalesChannel(),
				TopAOVChannel:         s.Channels.TopAOVChannel(),
				CongestionSignificant: s.Operations.CongestionSignificant(),
				PeakHour:              s.Operations.PeakHour(),
			},
		})
		s.Health = &score
	} else if u.log != nil {
		u.log.WithFields(logrus.Fields{
			"months": len(monthly),
			"rows":   len(filtered),
		}).Debug("not enough monthly data for a health score")
	}

	return s
}
