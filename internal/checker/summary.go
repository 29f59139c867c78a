package checker

import (
	"math"

	"MetricsGuard/internal/domain"
)

// Summarize aggregates the full accumulated result sequence into a run
// summary. It is a pure read: calling it twice without running more checks
// yields identical output.
func (c *Checker) Summarize() domain.Summary {
	results := c.Results()

	total := len(results)
	passed := 0
	criticalFails := 0
	byCategory := map[string]domain.CategoryStats{}
	var failed []domain.CheckResult

	for _, r := range results {
		stats := byCategory[r.CheckCategory]
		stats.Total++
		if r.IsPassed() {
			passed++
			stats.Passed++
		} else {
			stats.Failed++
			failed = append(failed, r)
		}
		if r.IsCriticalFailure() {
			criticalFails++
		}
		byCategory[r.CheckCategory] = stats
	}

	for cat, stats := range byCategory {
		stats.PassRate = passRate(stats.Passed, stats.Total)
		byCategory[cat] = stats
	}

	status := domain.OverallPass
	if total-passed > 0 {
		status = domain.OverallWarning
		if criticalFails > 0 {
			status = domain.OverallCritical
		}
	}

	return domain.Summary{
		CheckDate:        c.checkDate.Format("2006-01-02"),
		TotalChecks:      total,
		Passed:           passed,
		Failed:           total - passed,
		CriticalFailures: criticalFails,
		OverallPassRate:  passRate(passed, total),
		OverallStatus:    status,
		ByCategory:       byCategory,
		FailedChecks:     failed,
	}
}

// passRate returns passed/total as a percentage rounded to one decimal,
// treating an empty run as a denominator of one.
func passRate(passed, total int) float64 {
	if total < 1 {
		total = 1
	}
	return math.Round(float64(passed)/float64(total)*1000) / 10
}
