package report

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"MetricsGuard/internal/domain"
)

// statusColors map outcomes to display colors only; they carry no logic.
var statusColors = map[string]string{
	domain.OverallPass:     "#10b981",
	domain.OverallWarning:  "#f59e0b",
	domain.OverallCritical: "#ef4444",
}

type htmlCategory struct {
	Name  string
	Stats domain.CategoryStats
}

type htmlResult struct {
	domain.CheckResult
	SeverityClass string
	RowClass      string
}

type htmlView struct {
	Summary      domain.Summary
	OverallColor string
	PassRateOK   bool
	Categories   []htmlCategory
	Failed       []htmlResult
	All          []htmlResult
	GeneratedAt  string
}

// WriteHTML writes the presentational export into dir and returns the file
// path. The page embeds the summary cards, the per-category breakdown, the
// failed-item detail, and the full result table.
func WriteHTML(dir string, summary domain.Summary, results []domain.CheckResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("integrity_report_%s.html", summary.CheckDate))

	view := buildHTMLView(summary, results)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create html report: %w", err)
	}
	defer f.Close()

	if err := htmlTemplate.Execute(f, view); err != nil {
		return "", fmt.Errorf("render html report: %w", err)
	}

	return path, nil
}

func buildHTMLView(summary domain.Summary, results []domain.CheckResult) htmlView {
	overallColor, ok := statusColors[summary.OverallStatus]
	if !ok {
		overallColor = "#6b7280"
	}

	view := htmlView{
		Summary:      summary,
		OverallColor: overallColor,
		PassRateOK:   summary.OverallPassRate == 100,
		GeneratedAt:  time.Now().Format("2006-01-02 15:04:05"),
	}

	categories := make([]string, 0, len(summary.ByCategory))
	for cat := range summary.ByCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		stats := summary.ByCategory[cat]
		view.Categories = append(view.Categories, htmlCategory{Name: cat, Stats: stats})
	}

	for _, r := range results {
		row := htmlResult{
			CheckResult:   r,
			SeverityClass: strings.ToLower(string(r.Severity)),
			RowClass:      "pass-row",
		}
		if !r.IsPassed() {
			row.RowClass = "fail-row"
			view.Failed = append(view.Failed, row)
		}
		view.All = append(view.All, row)
	}

	return view
}

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>KPI Integrity Report — {{.Summary.CheckDate}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, sans-serif; background: #f8fafc; color: #1e293b; padding: 2rem; }
        .container { max-width: 1200px; margin: 0 auto; }
        h1 { font-size: 1.5rem; margin-bottom: 0.25rem; }
        .subtitle { color: #64748b; margin-bottom: 2rem; }

        .kpi-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .kpi-card { background: white; border-radius: 12px; padding: 1.25rem; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
        .kpi-label { font-size: 0.8rem; color: #64748b; margin-bottom: 4px; }
        .kpi-value { font-size: 1.75rem; font-weight: 700; }
        .kpi-value.pass { color: #10b981; }
        .kpi-value.fail { color: #ef4444; }

        table { width: 100%; border-collapse: collapse; background: white; border-radius: 12px; overflow: hidden; box-shadow: 0 1px 3px rgba(0,0,0,.08); margin-bottom: 2rem; }
        th { background: #f1f5f9; text-align: left; padding: 0.75rem 1rem; font-size: 0.8rem; color: #475569; text-transform: uppercase; letter-spacing: 0.05em; }
        td { padding: 0.65rem 1rem; border-top: 1px solid #f1f5f9; font-size: 0.875rem; }
        .num { text-align: right; font-variant-numeric: tabular-nums; }
        .pass { color: #10b981; }
        .fail { color: #ef4444; }
        .pass-row { background: #f0fdf4; }
        .fail-row { background: #fef2f2; }

        .badge { display: inline-block; padding: 2px 8px; border-radius: 6px; font-size: 0.7rem; font-weight: 600; }
        .badge.critical { background: #fee2e2; color: #dc2626; }
        .badge.warning { background: #fef3c7; color: #d97706; }
        .badge.info { background: #dbeafe; color: #2563eb; }

        .section-title { font-size: 1.1rem; font-weight: 600; margin: 1.5rem 0 0.75rem; }
        details { margin-bottom: 2rem; }
        summary { cursor: pointer; font-weight: 600; padding: 0.5rem 0; }
        .footer { color: #94a3b8; font-size: 0.75rem; margin-top: 2rem; }
    </style>
</head>
<body>
<div class="container">
    <h1>KPI Integrity Report</h1>
    <p class="subtitle">{{.Summary.CheckDate}} · {{.Summary.TotalChecks}} checks run</p>

    <div class="kpi-grid">
        <div class="kpi-card">
            <div class="kpi-label">Overall status</div>
            <div class="kpi-value" style="color:{{.OverallColor}}">{{.Summary.OverallStatus}}</div>
        </div>
        <div class="kpi-card">
            <div class="kpi-label">Pass rate</div>
            <div class="kpi-value {{if .PassRateOK}}pass{{else}}fail{{end}}">{{.Summary.OverallPassRate}}%</div>
        </div>
        <div class="kpi-card">
            <div class="kpi-label">Passed</div>
            <div class="kpi-value pass">{{.Summary.Passed}}</div>
        </div>
        <div class="kpi-card">
            <div class="kpi-label">Failed</div>
            <div class="kpi-value fail">{{.Summary.Failed}}</div>
        </div>
        <div class="kpi-card">
            <div class="kpi-label">Critical failures</div>
            <div class="kpi-value fail">{{.Summary.CriticalFailures}}</div>
        </div>
    </div>

    <div class="section-title">Per-category breakdown</div>
    <table>
        <thead><tr><th>Category</th><th>Total</th><th>Passed</th><th>Failed</th><th>Pass rate</th></tr></thead>
        <tbody>
        {{range .Categories}}
            <tr>
                <td>{{.Name}}</td>
                <td class="num">{{.Stats.Total}}</td>
                <td class="num pass">{{.Stats.Passed}}</td>
                <td class="num fail">{{.Stats.Failed}}</td>
                <td class="num">{{.Stats.PassRate}}%</td>
            </tr>
        {{end}}
        </tbody>
    </table>

    {{if .Failed}}
    <div class="section-title">Failed checks</div>
    <table>
        <thead><tr><th>Severity</th><th>Check</th><th>Expected</th><th>Actual</th><th>Difference</th><th>Detail</th></tr></thead>
        <tbody>
        {{range .Failed}}
            <tr class="{{.SeverityClass}}">
                <td><span class="badge {{.SeverityClass}}">{{.Severity}}</span></td>
                <td>{{.CheckName}}</td>
                <td class="num">{{.ExpectedValue}}</td>
                <td class="num">{{.ActualValue}}</td>
                <td class="num">{{.Difference}}</td>
                <td>{{.Detail}}</td>
            </tr>
        {{end}}
        </tbody>
    </table>
    {{end}}

    <details>
        <summary>All results ({{.Summary.TotalChecks}})</summary>
        <table>
            <thead><tr><th>Status</th><th>Check</th><th>Category</th><th>Severity</th><th>Expected</th><th>Actual</th><th>Difference</th><th>Detail</th></tr></thead>
            <tbody>
            {{range .All}}
                <tr class="{{.RowClass}}">
                    <td>{{.Status}}</td>
                    <td>{{.CheckName}}</td>
                    <td>{{.CheckCategory}}</td>
                    <td><span class="badge {{.SeverityClass}}">{{.Severity}}</span></td>
                    <td class="num">{{.ExpectedValue}}</td>
                    <td class="num">{{.ActualValue}}</td>
                    <td class="num">{{.Difference}}</td>
                    <td>{{.Detail}}</td>
                </tr>
            {{end}}
            </tbody>
        </table>
    </details>

    <p class="footer">Generated by metricsguard · {{.GeneratedAt}}</p>
</div>
</body>
</html>
`))
