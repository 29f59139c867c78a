package checker

import (
	"fmt"
	"math"
	"sort"

	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/stats"
)

// Trend detection runs with a fixed window and sigma; it takes no
// configuration key.
const (
	trendWindow = 3
	trendSigma  = 2.0
)

// CheckTrendBreaks sorts each company's monthly series by period and flags
// values that jump away from their local moving average. Each flagged value
// becomes one WARNING failure comparing it to the mean of the preceding
// window.
func (c *Checker) CheckTrendBreaks(rows []domain.MonthlyUsageRow) []domain.CheckResult {
	series := groupByCompany(rows)

	var results []domain.CheckResult
	for _, company := range sortedKeys(series) {
		records := series[company]
		sort.Slice(records, func(i, j int) bool { return records[i].yearMonth < records[j].yearMonth })

		vals := values(records)
		for _, idx := range stats.TrendBreaks(vals, trendWindow, trendSigma) {
			windowStart := idx - trendWindow
			if windowStart < 0 {
				windowStart = 0
			}
			windowMean := stats.Mean(vals[windowStart:idx])

			results = append(results, domain.CheckResult{
				CheckName:     "Trend break detection",
				CheckCategory: domain.CategoryTrend,
				Severity:      domain.SeverityWarning,
				ExpectedValue: round2(windowMean),
				ActualValue:   round2(vals[idx]),
				Difference:    round2(math.Abs(vals[idx] - windowMean)),
				Tolerance:     0,
				Status:        domain.StatusFail,
				Detail:        fmt.Sprintf("company=%s, year_month=%s", company, records[idx].yearMonth),
				Timestamp:     c.now(),
			})
		}
	}

	return c.record(results)
}
