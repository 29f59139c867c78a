package checker

import (
	"fmt"
	"time"

	"MetricsGuard/internal/domain"
)

// CheckRangeActivation verifies that every activation rate lies inside the
// configured [min, max] range. On failure the difference is the distance to
// the nearer bound.
func (c *Checker) CheckRangeActivation(rows []domain.ActivationRow) []domain.CheckResult {
	cfg := c.threshold("range_activation")
	lo, hi := cfg.MinOr(0), cfg.MaxOr(100)

	var results []domain.CheckResult
	for _, row := range rows {
		rate := row.ActivationRate
		inRange := lo <= rate && rate <= hi

		var diff float64
		if !inRange {
			if rate > hi {
				diff = rate - hi
			} else {
				diff = lo - rate
			}
		}

		results = append(results, domain.CheckResult{
			CheckName:     "Activation rate within range",
			CheckCategory: domain.CategoryRange,
			Severity:      cfg.SeverityOr(domain.SeverityCritical),
			ExpectedValue: hi,
			ActualValue:   rate,
			Difference:    diff,
			Tolerance:     0,
			Status:        passWhen(inRange),
			Detail:        fmt.Sprintf("year_month=%s, company=%s", row.YearMonth, row.CardCompany),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}

// CheckContinuity verifies that each company's monthly series has no gaps:
// the count of distinct periods must cover the span between the first and
// last period. Unparseable periods fall back to expected == actual, which
// makes no missing-month claim.
func (c *Checker) CheckContinuity(rows []domain.MonthlyUsageRow) []domain.CheckResult {
	cfg := c.threshold("continuity")
	maxMissing := cfg.MaxMissingMonthsOr(0)

	companyMonths := map[string]map[string]struct{}{}
	for _, row := range rows {
		months := companyMonths[row.CardCompany]
		if months == nil {
			months = map[string]struct{}{}
			companyMonths[row.CardCompany] = months
		}
		months[row.YearMonth] = struct{}{}
	}

	var results []domain.CheckResult
	for _, company := range sortedKeys(companyMonths) {
		months := sortedKeys(companyMonths[company])
		if len(months) < 2 {
			continue
		}

		actual := len(months)
		expected := expectedMonthSpan(months[0], months[len(months)-1], actual)
		missing := expected - actual

		results = append(results, domain.CheckResult{
			CheckName:     "Monthly data continuity",
			CheckCategory: domain.CategoryContinuity,
			Severity:      cfg.SeverityOr(domain.SeverityCritical),
			ExpectedValue: float64(expected),
			ActualValue:   float64(actual),
			Difference:    float64(missing),
			Tolerance:     maxMissing,
			Status:        passWhen(float64(missing) <= maxMissing),
			Detail:        fmt.Sprintf("company=%s, months=%d/%d", company, actual, expected),
			Timestamp:     c.now(),
		})
	}

	return c.record(results)
}

// expectedMonthSpan counts the consecutive months from first to last
// inclusive, parsing the YYYY-MM prefix of each period string.
func expectedMonthSpan(first, last string, fallback int) int {
	if len(first) < 7 || len(last) < 7 {
		return fallback
	}
	start, err := time.Parse("2006-01", first[:7])
	if err != nil {
		return fallback
	}
	end, err := time.Parse("2006-01", last[:7])
	if err != nil {
		return fallback
	}
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
}
