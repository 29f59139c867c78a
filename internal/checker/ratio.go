package checker

import (
	"fmt"
	"math"
	"strings"

	"MetricsGuard/internal/domain"
)

// CheckMarketShareIntegrity verifies that market shares sum to 100% within
// each period.
func (c *Checker) CheckMarketShareIntegrity(rows []domain.ShareRow) []domain.CheckResult {
	cfg := c.threshold("ratio_market_share")

	monthly := map[string]float64{}
	for _, row := range rows {
		monthly[row.YearMonth] += row.MarketSharePct
	}

	var results []domain.CheckResult
	for _, ym := range sortedKeys(monthly) {
		totalShare := monthly[ym]
		diff := math.Abs(100.0 - totalShare)
		tol := cfg.ToleranceOr(0.1)

		results = append(results, domain.CheckResult{
			CheckName:     "Market shares sum to 100%",
			CheckCategory: domain.CategoryRatio,
			Severity:      cfg.SeverityOr(domain.SeverityCritical),
			ExpectedValue: 100.0,
			ActualValue:   round2(totalShare),
			Difference:    round2(diff),
			Tolerance:     tol,
			Status:        passWhen(diff < tol),
			Detail:        fmt.Sprintf("year_month=%s", ym),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}

// CheckCategoryRatioIntegrity verifies that business-category shares sum to
// 100% within each (period, company) pair.
func (c *Checker) CheckCategoryRatioIntegrity(rows []domain.CategoryRow) []domain.CheckResult {
	cfg := c.threshold("ratio_category")

	groups := map[string]float64{}
	for _, row := range rows {
		groups[row.YearMonth+"|"+row.CardCompany] += row.CategorySharePct
	}

	var results []domain.CheckResult
	for _, key := range sortedKeys(groups) {
		total := groups[key]
		ym, company, _ := strings.Cut(key, "|")
		diff := math.Abs(100.0 - total)
		tol := cfg.ToleranceOr(0.5)

		results = append(results, domain.CheckResult{
			CheckName:     "Category shares sum to 100% per company",
			CheckCategory: domain.CategoryRatio,
			Severity:      cfg.SeverityOr(domain.SeverityWarning),
			ExpectedValue: 100.0,
			ActualValue:   round2(total),
			Difference:    round2(diff),
			Tolerance:     tol,
			Status:        passWhen(diff < tol),
			Detail:        fmt.Sprintf("year_month=%s, company=%s", ym, company),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}
