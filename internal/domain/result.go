package domain

import "time"

// Severity classifies how urgent a failed check is. It is assigned from
// configuration per check category, never computed from the deviation itself.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
	SeverityInfo     Severity = "INFO"
)

// ValidSeverity reports whether value names one of the three known levels.
func ValidSeverity(value string) bool {
	switch Severity(value) {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// CheckStatus is the binary outcome of a single check invocation. A FAIL is a
// normal business-data finding, not an engineering error.
type CheckStatus string

const (
	StatusPass CheckStatus = "PASS"
	StatusFail CheckStatus = "FAIL"
)

// Check categories, one per validation family.
const (
	CategorySum         = "sum_integrity"
	CategoryRatio       = "ratio_integrity"
	CategoryFormula     = "formula_integrity"
	CategoryRange       = "range_integrity"
	CategoryContinuity  = "continuity_integrity"
	CategoryStatistical = "statistical_integrity"
	CategoryTrend       = "trend_integrity"
	CategoryCrossKPI    = "cross_kpi_integrity"
)

// CheckResult is the atomic outcome of one check against one data partition.
// Results are write-once: checks emit new values and never edit old ones.
type CheckResult struct {
	CheckName     string      `json:"check_name"`
	CheckCategory string      `json:"check_category"`
	Severity      Severity    `json:"severity"`
	ExpectedValue float64     `json:"expected_value"`
	ActualValue   float64     `json:"actual_value"`
	Difference    float64     `json:"difference"`
	Tolerance     float64     `json:"tolerance"`
	Status        CheckStatus `json:"status"`
	Detail        string      `json:"detail"`
	Timestamp     time.Time   `json:"timestamp"`
}

// IsPassed reports whether the check passed.
func (r CheckResult) IsPassed() bool {
	return r.Status == StatusPass
}

// IsCriticalFailure reports a failed check whose category is CRITICAL.
func (r CheckResult) IsCriticalFailure() bool {
	return !r.IsPassed() && r.Severity == SeverityCritical
}

// CategoryStats breaks a run down for one check category.
type CategoryStats struct {
	Total    int     `json:"total"`
	Passed   int     `json:"passed"`
	Failed   int     `json:"failed"`
	PassRate float64 `json:"pass_rate"`
}

// Overall run statuses. WARNING covers any failure mix without a critical one.
const (
	OverallPass     = "PASS"
	OverallWarning  = "WARNING"
	OverallCritical = "CRITICAL"
)

// Summary aggregates every result accumulated during a validation run.
type Summary struct {
	CheckDate        string                   `json:"check_date"`
	TotalChecks      int                      `json:"total_checks"`
	Passed           int                      `json:"passed"`
	Failed           int                      `json:"failed"`
	CriticalFailures int                      `json:"critical_failures"`
	OverallPassRate  float64                  `json:"overall_pass_rate"`
	OverallStatus    string                   `json:"overall_status"`
	ByCategory       map[string]CategoryStats `json:"by_category"`
	FailedChecks     []CheckResult            `json:"failed_checks"`
}
