package checker

import (
	"fmt"
	"math"

	"MetricsGuard/internal/domain"
)

// CheckFormulaMoM recomputes the implied prior-month amount from the current
// amount and the reported month-over-month growth rate, and compares it to
// the reported prior-month amount. Rows without a rate, baseline, or current
// amount are skipped: sparse optional fields are legitimate upstream.
func (c *Checker) CheckFormulaMoM(rows []domain.GrowthRow) []domain.CheckResult {
	return c.checkFormulaReverse(rows, "formula_mom", "MoM growth rate reverse calculation",
		func(r domain.GrowthRow) (*float64, *float64) { return r.MoMGrowthRate, r.PrevMonthAmount })
}

// CheckFormulaYoY is the year-over-year variant of CheckFormulaMoM, checked
// against the prior-year amount.
func (c *Checker) CheckFormulaYoY(rows []domain.GrowthRow) []domain.CheckResult {
	return c.checkFormulaReverse(rows, "formula_yoy", "YoY growth rate reverse calculation",
		func(r domain.GrowthRow) (*float64, *float64) { return r.YoYGrowthRate, r.PrevYearAmount })
}

func (c *Checker) checkFormulaReverse(
	rows []domain.GrowthRow,
	key, name string,
	pick func(domain.GrowthRow) (rate *float64, baseline *float64),
) []domain.CheckResult {
	cfg := c.threshold(key)

	var results []domain.CheckResult
	for _, row := range rows {
		rate, baseline := pick(row)
		if rate == nil || baseline == nil || row.CurrentAmount == nil {
			continue
		}
		if *rate == 0 {
			// a zero rate makes the reverse formula trivially prev == current
			continue
		}

		reverse := math.Round(*row.CurrentAmount / (1 + *rate/100.0))
		diff := math.Abs(*baseline - reverse)
		tol := cfg.ToleranceOr(10)

		results = append(results, domain.CheckResult{
			CheckName:     name,
			CheckCategory: domain.CategoryFormula,
			Severity:      cfg.SeverityOr(domain.SeverityWarning),
			ExpectedValue: *baseline,
			ActualValue:   reverse,
			Difference:    round2(diff),
			Tolerance:     tol,
			Status:        passWhen(diff < tol),
			Detail:        fmt.Sprintf("year_month=%s, company=%s", row.YearMonth, row.CardCompany),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}
