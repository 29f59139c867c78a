package checker

import (
	"fmt"
	"math"

	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/stats"
)

type observation struct {
	yearMonth string
	value     float64
}

func groupByCompany(rows []domain.MonthlyUsageRow) map[string][]observation {
	series := map[string][]observation{}
	for _, row := range rows {
		series[row.CardCompany] = append(series[row.CardCompany],
			observation{yearMonth: row.YearMonth, value: row.TotalUsageAmount})
	}
	return series
}

func values(records []observation) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.value
	}
	return out
}

// CheckStatisticalAnomaly z-scores each company's monthly amounts against its
// own distribution and verifies that the share of CRITICAL-grade outliers
// stays under the configured ratio. Companies need at least three
// observations to be classified. A second, diagnostic pass emits one INFO
// failure per value outside the company's IQR bounds (four observations
// minimum); those do not feed the ratio.
func (c *Checker) CheckStatisticalAnomaly(rows []domain.MonthlyUsageRow) []domain.CheckResult {
	cfg := c.threshold("statistical_anomaly")
	zCritical := cfg.ZScoreCriticalOr(3.0)
	zWarning := cfg.ZScoreWarningOr(2.0)

	series := groupByCompany(rows)

	classifiedTotal := 0
	criticalCount := 0
	for _, company := range sortedKeys(series) {
		records := series[company]
		if len(records) < 3 {
			continue
		}
		population := values(records)
		for _, rec := range records {
			z, ok := stats.ZScore(rec.value, population)
			if !ok {
				continue
			}
			classifiedTotal++
			absZ := math.Abs(z)
			switch {
			case absZ > zCritical:
				criticalCount++
			case absZ > zWarning:
				// WARNING grade feeds the denominator only
			}
		}
	}

	denominator := classifiedTotal
	if denominator == 0 {
		denominator = 1
	}
	criticalRatio := round2(float64(criticalCount) / float64(denominator) * 100)
	maxRatio := cfg.MaxCriticalRatioOr(5.0)

	results := []domain.CheckResult{{
		CheckName:     "Z-score critical outlier ratio",
		CheckCategory: domain.CategoryStatistical,
		Severity:      cfg.SeverityOr(domain.SeverityWarning),
		ExpectedValue: maxRatio,
		ActualValue:   criticalRatio,
		Difference:    math.Max(0, criticalRatio-maxRatio),
		Tolerance:     maxRatio,
		Status:        passWhen(criticalRatio <= maxRatio),
		Detail:        fmt.Sprintf("critical_count=%d, total=%d", criticalCount, denominator),
		Timestamp:     c.now(),
	}}

	for _, company := range sortedKeys(series) {
		records := series[company]
		if len(records) < 4 {
			continue
		}
		lower, upper := stats.IQRBounds(values(records))
		for _, rec := range records {
			if rec.value >= lower && rec.value <= upper {
				continue
			}
			diff := rec.value - upper
			if rec.value < lower {
				diff = lower - rec.value
			}
			results = append(results, domain.CheckResult{
				CheckName:     "IQR outlier detection",
				CheckCategory: domain.CategoryStatistical,
				Severity:      domain.SeverityInfo,
				ExpectedValue: round2(upper),
				ActualValue:   round2(rec.value),
				Difference:    round2(diff),
				Tolerance:     0,
				Status:        domain.StatusFail,
				Detail: fmt.Sprintf("company=%s, year_month=%s, bounds=[%.0f, %.0f]",
					company, rec.yearMonth, lower, upper),
				Timestamp: c.now(),
			})
		}
	}

	return c.record(results)
}
