package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	doc := Defaults()

	assert.Empty(t, ValidateSchema(doc), "built-in defaults must be schema-valid")

	cfg := Parse(doc)
	assert.Equal(t, 1.0, cfg.Threshold("sum_integrity").ToleranceOr(0))
	assert.Equal(t, 0.1, cfg.Threshold("ratio_market_share").ToleranceOr(0))
	assert.Equal(t, "CRITICAL", cfg.Threshold("range_activation").Severity)
	assert.Equal(t, -1.0, cfg.Threshold("cross_kpi").GrowthRateThresholdOr(0))
	assert.Equal(t, "reports", cfg.Reporting.OutputDir)
	assert.Equal(t, []string{"csv", "json", "html"}, cfg.Reporting.Formats)
	assert.Equal(t, 90, cfg.Reporting.RetentionDays)
	assert.Equal(t, "#data-quality-alerts", cfg.Alerting.SlackChannel)
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to defaults", func(t *testing.T) {
		doc := Load("/nonexistent/thresholds.yaml", discardLogger())
		assert.Empty(t, ValidateSchema(doc))
	})

	t.Run("empty path falls back to defaults", func(t *testing.T) {
		doc := Load("", discardLogger())
		assert.Empty(t, ValidateSchema(doc))
	})

	t.Run("malformed yaml falls back to defaults", func(t *testing.T) {
		path := writeConfig(t, "thresholds: [not: closed")
		doc := Load(path, discardLogger())
		assert.Empty(t, ValidateSchema(doc))
	})

	t.Run("partial override keeps unspecified fields", func(t *testing.T) {
		path := writeConfig(t, `
thresholds:
  sum_integrity:
    tolerance: 2.5
`)
		doc := Load(path, discardLogger())
		assert.Empty(t, ValidateSchema(doc))

		cfg := Parse(doc)
		entry := cfg.Threshold("sum_integrity")
		assert.Equal(t, 2.5, entry.ToleranceOr(0))
		// severity was not overridden
		assert.Equal(t, "CRITICAL", entry.Severity)
		// other entries are untouched
		assert.Equal(t, 0.1, cfg.Threshold("ratio_market_share").ToleranceOr(0))
	})

	t.Run("reporting override merges field-wise", func(t *testing.T) {
		path := writeConfig(t, `
reporting:
  output_dir: /tmp/out
`)
		cfg := Parse(Load(path, discardLogger()))
		assert.Equal(t, "/tmp/out", cfg.Reporting.OutputDir)
		assert.Equal(t, 90, cfg.Reporting.RetentionDays)
	})
}

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(doc map[string]any)
		violation string
	}{
		{
			name:      "missing thresholds section",
			mutate:    func(doc map[string]any) { delete(doc, "thresholds") },
			violation: "thresholds: section is missing",
		},
		{
			name: "missing required key",
			mutate: func(doc map[string]any) {
				delete(doc["thresholds"].(map[string]any), "continuity")
			},
			violation: "thresholds.continuity: key is missing",
		},
		{
			name: "missing field",
			mutate: func(doc map[string]any) {
				delete(doc["thresholds"].(map[string]any)["range_activation"].(map[string]any), "max")
			},
			violation: "thresholds.range_activation.max: field is missing",
		},
		{
			name: "non-numeric field",
			mutate: func(doc map[string]any) {
				doc["thresholds"].(map[string]any)["sum_integrity"].(map[string]any)["tolerance"] = "loose"
			},
			violation: "thresholds.sum_integrity.tolerance: expected a number, got string",
		},
		{
			name: "unknown severity",
			mutate: func(doc map[string]any) {
				doc["thresholds"].(map[string]any)["formula_mom"].(map[string]any)["severity"] = "FATAL"
			},
			violation: "thresholds.formula_mom.severity: FATAL is not one of CRITICAL, WARNING, INFO",
		},
		{
			name: "entry is not a mapping",
			mutate: func(doc map[string]any) {
				doc["thresholds"].(map[string]any)["cross_kpi"] = "tight"
			},
			violation: "thresholds.cross_kpi: entry is not a mapping",
		},
		{
			name: "negative retention",
			mutate: func(doc map[string]any) {
				doc["reporting"].(map[string]any)["retention_days"] = -1
			},
			violation: "reporting.retention_days: must be a non-negative number",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := Defaults()
			tc.mutate(doc)
			assert.Contains(t, ValidateSchema(doc), tc.violation)
		})
	}

	t.Run("non-mapping root", func(t *testing.T) {
		assert.Equal(t, []string{"configuration root is not a mapping"}, ValidateSchema("nope"))
	})

	t.Run("collects multiple violations", func(t *testing.T) {
		doc := Defaults()
		thresholds := doc["thresholds"].(map[string]any)
		delete(thresholds, "sum_integrity")
		delete(thresholds, "range_hhi")

		violations := ValidateSchema(doc)
		assert.Len(t, violations, 2)
	})

	t.Run("integer scalars count as numbers", func(t *testing.T) {
		doc := Defaults()
		doc["thresholds"].(map[string]any)["formula_yoy"].(map[string]any)["tolerance"] = 15
		assert.Empty(t, ValidateSchema(doc))
	})
}

func TestThresholdAccessors(t *testing.T) {
	t.Run("absent fields serve the fallback", func(t *testing.T) {
		var empty Threshold
		assert.Equal(t, 1.0, empty.ToleranceOr(1))
		assert.Equal(t, 100.0, empty.MaxOr(100))
		assert.Equal(t, "WARNING", string(empty.SeverityOr("WARNING")))
	})

	t.Run("zero values are not treated as absent", func(t *testing.T) {
		zero := 0.0
		entry := Threshold{MaxMissingMonths: &zero}
		assert.Equal(t, 0.0, entry.MaxMissingMonthsOr(5))
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/metrics")
	t.Setenv("SLACK_WEBHOOK_URL", "https://hooks.slack.invalid/T000")

	env := LoadEnv()
	assert.Equal(t, "postgres://localhost/metrics", env.DatabaseDSN)
	assert.Equal(t, "https://hooks.slack.invalid/T000", env.SlackWebhookURL)
}
