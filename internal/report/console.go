package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"MetricsGuard/internal/domain"
)

// Print writes the human-readable run summary: overall line, per-category
// table, and failed-item detail.
func Print(w io.Writer, summary domain.Summary) {
	rule := strings.Repeat("=", 72)
	thin := strings.Repeat("-", 72)

	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "  KPI Integrity Report (%s)\n", summary.CheckDate)
	fmt.Fprintf(w, "%s\n", rule)
	fmt.Fprintf(w, "  Status: %s\n", summary.OverallStatus)
	fmt.Fprintf(w, "  Checks: %d | Passed: %d | Failed: %d | Critical: %d | Pass rate: %.1f%%\n",
		summary.TotalChecks, summary.Passed, summary.Failed,
		summary.CriticalFailures, summary.OverallPassRate)
	fmt.Fprintf(w, "%s\n", thin)
	fmt.Fprintf(w, "  %-28s %6s %6s %6s %9s\n", "category", "total", "pass", "fail", "rate")

	categories := make([]string, 0, len(summary.ByCategory))
	for cat := range summary.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		stats := summary.ByCategory[cat]
		fmt.Fprintf(w, "  %-28s %6d %6d %6d %8.1f%%\n",
			cat, stats.Total, stats.Passed, stats.Failed, stats.PassRate)
	}

	if len(summary.FailedChecks) > 0 {
		fmt.Fprintf(w, "\n  Failed checks:\n")
		fmt.Fprintf(w, "  %s\n", strings.Repeat("-", 58))
		for _, r := range summary.FailedChecks {
			fmt.Fprintf(w, "  [%s] %s\n", r.Severity, r.CheckName)
			fmt.Fprintf(w, "       expected=%v actual=%v (diff=%v) | %s\n",
				r.ExpectedValue, r.ActualValue, r.Difference, r.Detail)
		}
	}

	fmt.Fprintf(w, "%s\n\n", rule)
}
