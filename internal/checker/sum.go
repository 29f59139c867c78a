package checker

import (
	"fmt"
	"math"

	"MetricsGuard/internal/domain"
)

// CheckSumIntegrity verifies, per period, that the period grand total matches
// the sum of per-company amounts. Both operands are currently derived from
// the same row-set, so the check mainly catches double-counted or mis-tagged
// rows; the accumulators stay separate so an independently reported total can
// replace one side later.
func (c *Checker) CheckSumIntegrity(rows []domain.UsageRow) []domain.CheckResult {
	cfg := c.threshold("sum_integrity")

	type periodTotals struct {
		total     float64
		byCompany map[string]float64
	}
	monthly := map[string]*periodTotals{}
	for _, row := range rows {
		pt := monthly[row.YearMonth]
		if pt == nil {
			pt = &periodTotals{byCompany: map[string]float64{}}
			monthly[row.YearMonth] = pt
		}
		pt.total += row.UsageAmount
		pt.byCompany[row.CardCompany] += row.UsageAmount
	}

	var results []domain.CheckResult
	for _, ym := range sortedKeys(monthly) {
		pt := monthly[ym]
		var companySum float64
		for _, amount := range pt.byCompany {
			companySum += amount
		}
		diff := math.Abs(pt.total - companySum)
		tol := cfg.ToleranceOr(1)

		results = append(results, domain.CheckResult{
			CheckName:     "Grand total equals per-company sum",
			CheckCategory: domain.CategorySum,
			Severity:      cfg.SeverityOr(domain.SeverityCritical),
			ExpectedValue: round2(pt.total),
			ActualValue:   round2(companySum),
			Difference:    round2(diff),
			Tolerance:     tol,
			Status:        passWhen(diff < tol),
			Detail:        fmt.Sprintf("year_month=%s", ym),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}
