package domain

// KPI row types pulled from the metrics warehouse. Periods are YYYY-MM or
// YYYY-MM-DD strings; grouping and sorting happen on the string form directly.
// Optional fields are pointers: upstream legitimately leaves them NULL (e.g.
// no year-over-year baseline for a company's first twelve months).

// UsageRow is one raw usage record, the input to the sum-integrity check.
type UsageRow struct {
	YearMonth   string
	CardCompany string
	UsageAmount float64
}

// MonthlyUsageRow is a per-company monthly aggregate. Feeds the continuity,
// statistical-anomaly, and trend-break checks.
type MonthlyUsageRow struct {
	YearMonth        string
	CardCompany      string
	TotalUsageAmount float64
}

// ShareRow carries a company's market share for one period.
type ShareRow struct {
	YearMonth      string
	CardCompany    string
	MarketSharePct float64
	ShareChangePP  float64
}

// CategoryRow carries one business category's share of a company's usage.
type CategoryRow struct {
	YearMonth        string
	CardCompany      string
	BusinessCategory string
	CategorySharePct float64
}

// GrowthRow carries reported growth figures for the formula checks.
type GrowthRow struct {
	YearMonth       string
	CardCompany     string
	CurrentAmount   *float64
	PrevMonthAmount *float64
	PrevYearAmount  *float64
	MoMGrowthRate   *float64
	YoYGrowthRate   *float64
}

// ActivationRow carries a card activation rate for the range check.
type ActivationRow struct {
	YearMonth      string
	CardCompany    string
	ActivationRate float64
}
