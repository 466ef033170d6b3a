package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"fnb-insights/internal/domain/sales"
	trendDomain "fnb-insights/internal/domain/trend"
)

type monthlyItem struct {
	Month        string  `json:"month"`
	Sales        float64 `json:"sales"`
	Transactions int     `json:"transactions"`
	AOV          float64 `json:"aov"`
}

func monthlyItems(rows []sales.MonthlyAggregate) []monthlyItem {
	items := make([]monthlyItem, 0, len(rows))
	for _, m := range rows {
		items = append(items, monthlyItem{
			Month:        m.Month.Format("2006-01"),
			Sales:        m.Sales,
			Transactions: m.Transactions,
			AOV:          m.AOV,
		})
	}
	return items
}

func trendJSON(r trendDomain.Result) gin.H {
	out := gin.H{
		"narrative": r.Narrative,
		"usable":    r.Usable,
	}
	if !r.Usable {
		return out
	}
	out["direction"] = r.Direction
	out["momentum"] = r.Momentum
	out["trend_line"] = r.TrendLine
	out["p_value"] = r.PValue
	out["slope"] = r.Slope
	out["intercept"] = r.Intercept
	out["max_index"] = r.MaxIndex
	out["min_index"] = r.MinIndex
	if r.MovingAverage != nil {
		out["moving_average"] = r.MovingAverage
	}
	if r.YoYChange != nil {
		out["yoy_change"] = *r.YoYChange
	}
	return out
}

// parseFilter reads the shared query filters: branches (comma separated),
// start_date and end_date (inclusive, YYYY-MM-DD).
func parseFilter(c *gin.Context) (sales.Filter, bool) {
	var f sales.Filter
	if raw := c.Query("branches"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				f.Branches = append(f.Branches, b)
			}
		}
	}
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid start_date", "error_code": errCodeBadRequest})
			return f, false
		}
		f.From = t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid end_date", "error_code": errCodeBadRequest})
			return f, false
		}
		f.To = t
	}
	return f, true
}

func (s *Server) handleSummary(c *gin.Context) {
	ds, ok := s.loadDataset(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	summary := s.insightsUC.Execute(ds.Rows, filter)

	trends := gin.H{}
	for metric, res := range summary.Trends {
		trends[string(metric)] = trendJSON(res)
	}

	resp := gin.H{
		"success": true,
		"dataset": ds.ID,
		"monthly": monthlyItems(summary.Monthly),
		"trends":  trends,
	}
	if summary.Health != nil {
		resp["health"] = summary.Health
	}
	if summary.Channels != nil {
		resp["channels"] = summary.Channels
	}
	if summary.Menu != nil {
		resp["menu"] = summary.Menu
	}
	if summary.Operations != nil {
		resp["operations"] = summary.Operations
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleTrends(c *gin.Context) {
	ds, ok := s.loadDataset(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	metric := sales.Metric(c.DefaultQuery("metric", string(sales.MetricSales)))
	if !metric.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown metric", "error_code": errCodeBadRequest})
		return
	}

	summary := s.insightsUC.Execute(ds.Rows, filter)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"dataset": ds.ID,
		"metric":  metric,
		"monthly": monthlyItems(summary.Monthly),
		"trend":   trendJSON(summary.Trends[metric]),
	})
}

func (s *Server) handleOperations(c *gin.Context) {
	ds, ok := s.loadDataset(c)
	if !ok {
		return
	}
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	summary := s.insightsUC.Execute(ds.Rows, filter)
	if summary.Operations == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "dataset has no kitchen timestamps", "error_code": errCodeNotFound})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":                true,
		"dataset":                ds.ID,
		"operations":             summary.Operations,
		"peak_hour":              summary.Operations.PeakHour(),
		"congestion_significant": summary.Operations.CongestionSignificant(),
	})
}
