package checker

import (
	"fmt"

	"MetricsGuard/internal/domain"
)

// CheckCrossKPIConsistency joins share-change and growth rows by
// (period, company) and flags the combination of a meaningful share gain with
// a contracting month-over-month revenue. The finding is surfaced for human
// review, never auto-corrected. Growth rows without a matching share row or
// without a MoM rate are skipped.
func (c *Checker) CheckCrossKPIConsistency(shareRows []domain.ShareRow, growthRows []domain.GrowthRow) []domain.CheckResult {
	cfg := c.threshold("cross_kpi")
	shareThr := cfg.ShareChangeThresholdOr(0.5)
	growthThr := cfg.GrowthRateThresholdOr(-1.0)

	shareChanges := map[string]float64{}
	for _, row := range shareRows {
		shareChanges[row.YearMonth+"|"+row.CardCompany] = row.ShareChangePP
	}

	var results []domain.CheckResult
	for _, row := range growthRows {
		shareChg, ok := shareChanges[row.YearMonth+"|"+row.CardCompany]
		if !ok || row.MoMGrowthRate == nil {
			continue
		}
		mom := *row.MoMGrowthRate

		inconsistent := shareChg > shareThr && mom < growthThr
		flag := 0.0
		if inconsistent {
			flag = 1.0
		}

		results = append(results, domain.CheckResult{
			CheckName:     "Share change vs growth rate direction",
			CheckCategory: domain.CategoryCrossKPI,
			Severity:      cfg.SeverityOr(domain.SeverityInfo),
			ExpectedValue: 0,
			ActualValue:   flag,
			Difference:    flag,
			Tolerance:     0,
			Status:        passWhen(!inconsistent),
			Detail: fmt.Sprintf("year_month=%s, company=%s, share_chg=%+.2fpp, mom=%+.2f%%",
				row.YearMonth, row.CardCompany, shareChg, mom),
			Timestamp: c.now(),
		})
	}

	return c.record(results)
}
