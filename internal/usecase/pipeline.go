package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"MetricsGuard/internal/checker"
	"MetricsGuard/internal/config"
	"MetricsGuard/internal/domain"
	"MetricsGuard/internal/ports"
	"MetricsGuard/internal/report"
)

// PipelineDeps wires the driven adapters into the validation pipeline.
type PipelineDeps struct {
	Source    ports.RowSource
	Notifier  ports.Notifier
	ConfigDoc map[string]any
	Reporting config.Reporting
	Out       io.Writer
	Logger    *slog.Logger
}

// Pipeline implements the single-run validation workflow: load rows, run the
// ten checks, summarize, export reports, clean up stale ones, and notify.
type Pipeline struct {
	source    ports.RowSource
	notifier  ports.Notifier
	configDoc map[string]any
	reporting config.Reporting
	out       io.Writer
	log       *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		source:    deps.Source,
		notifier:  deps.Notifier,
		configDoc: deps.ConfigDoc,
		reporting: deps.Reporting,
		out:       deps.Out,
		log:       deps.Logger,
	}
}

// Run executes one validation pass and returns the summary. Report formats
// outside {csv, json, html} are skipped with a warning. Notification errors
// do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (domain.Summary, error) {
	chk, err := checker.New(p.configDoc, checker.WithLogger(p.log), checker.Strict())
	if err != nil {
		return domain.Summary{}, fmt.Errorf("build checker: %w", err)
	}

	rows, err := p.loadRows(ctx)
	if err != nil {
		return domain.Summary{}, err
	}

	chk.CheckSumIntegrity(rows.usage)
	chk.CheckMarketShareIntegrity(rows.shares)
	chk.CheckCategoryRatioIntegrity(rows.categories)
	chk.CheckFormulaMoM(rows.growth)
	chk.CheckFormulaYoY(rows.growth)
	chk.CheckRangeActivation(rows.activation)
	chk.CheckContinuity(rows.monthlyUsage)
	chk.CheckStatisticalAnomaly(rows.monthlyUsage)
	chk.CheckTrendBreaks(rows.monthlyUsage)
	chk.CheckCrossKPIConsistency(rows.shares, rows.growth)

	summary := chk.Summarize()
	results := chk.Results()

	if p.out != nil {
		report.Print(p.out, summary)
	}

	if err := p.export(summary, results); err != nil {
		return summary, err
	}

	if p.reporting.RetentionDays > 0 {
		removed, err := report.Cleanup(p.reporting.OutputDir, p.reporting.RetentionDays, time.Now())
		if err != nil {
			p.log.Warn("report cleanup failed", "error", err)
		} else if removed > 0 {
			p.log.Info("stale reports removed", "count", removed)
		}
	}

	p.notify(ctx, summary)

	return summary, nil
}

type rowSets struct {
	usage        []domain.UsageRow
	monthlyUsage []domain.MonthlyUsageRow
	shares       []domain.ShareRow
	growth       []domain.GrowthRow
	activation   []domain.ActivationRow
	categories   []domain.CategoryRow
}

func (p *Pipeline) loadRows(ctx context.Context) (rowSets, error) {
	var rows rowSets
	var err error

	if rows.usage, err = p.source.Usage(ctx); err != nil {
		return rows, fmt.Errorf("load usage rows: %w", err)
	}
	if rows.monthlyUsage, err = p.source.MonthlyUsage(ctx); err != nil {
		return rows, fmt.Errorf("load monthly usage rows: %w", err)
	}
	if rows.shares, err = p.source.MarketShares(ctx); err != nil {
		return rows, fmt.Errorf("load market share rows: %w", err)
	}
	if rows.growth, err = p.source.Growth(ctx); err != nil {
		return rows, fmt.Errorf("load growth rows: %w", err)
	}
	if rows.activation, err = p.source.Activation(ctx); err != nil {
		return rows, fmt.Errorf("load activation rows: %w", err)
	}
	if rows.categories, err = p.source.CategoryShares(ctx); err != nil {
		return rows, fmt.Errorf("load category rows: %w", err)
	}

	p.log.Info("row-sets loaded",
		"usage", len(rows.usage),
		"monthly_usage", len(rows.monthlyUsage),
		"shares", len(rows.shares),
		"growth", len(rows.growth),
		"activation", len(rows.activation),
		"categories", len(rows.categories))

	return rows, nil
}

func (p *Pipeline) export(summary domain.Summary, results []domain.CheckResult) error {
	for _, format := range p.reporting.Formats {
		var path string
		var err error
		switch format {
		case "csv":
			path, err = report.WriteCSV(p.reporting.OutputDir, summary.CheckDate, results)
		case "json":
			path, err = report.WriteJSON(p.reporting.OutputDir, summary, results)
		case "html":
			path, err = report.WriteHTML(p.reporting.OutputDir, summary, results)
		default:
			p.log.Warn("unknown report format", "format", format)
			continue
		}
		if err != nil {
			return fmt.Errorf("export %s report: %w", format, err)
		}
		p.log.Info("report written", "format", format, "path", path)
	}
	return nil
}

func (p *Pipeline) notify(ctx context.Context, summary domain.Summary) {
	if p.notifier == nil {
		return
	}

	tag, message := buildAlert(summary)
	if message == "" {
		return
	}
	if err := p.notifier.Notify(ctx, tag, message); err != nil {
		p.log.Warn("notification failed", "error", err)
	}
}

// buildAlert formats the status-specific alert message. PASS runs report the
// pass rate, WARNING runs the failure count, and CRITICAL runs list every
// critical failure.
func buildAlert(summary domain.Summary) (tag string, message string) {
	switch summary.OverallStatus {
	case domain.OverallCritical:
		var items []string
		for _, c := range summary.FailedChecks {
			if c.Severity == domain.SeverityCritical {
				items = append(items, fmt.Sprintf("  [%s] %s: %s", c.Severity, c.CheckName, c.Detail))
			}
		}
		message = fmt.Sprintf("*[CRITICAL] KPI integrity validation failed*\n"+
			"  Failed: %d (CRITICAL: %d)\n  Pass rate: %.1f%%\n\n%s",
			summary.Failed, summary.CriticalFailures, summary.OverallPassRate,
			strings.Join(items, "\n"))
		return "CRITICAL", message

	case domain.OverallWarning:
		message = fmt.Sprintf("*[WARNING] KPI integrity validation warnings*\n"+
			"  Failed: %d | Pass rate: %.1f%%",
			summary.Failed, summary.OverallPassRate)
		return "WARNING", message

	default:
		message = fmt.Sprintf("KPI integrity validation passed: %d checks, pass rate %.1f%%",
			summary.TotalChecks, summary.OverallPassRate)
		return "PASS", message
	}
}
