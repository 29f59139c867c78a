package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "METRICSGUARD_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	slackWebhookEnv = "SLACK_WEBHOOK_URL"
)

// Defaults returns the built-in configuration document. Every threshold the
// ten checks consult is present, so a run without any config file is fully
// specified.
func Defaults() map[string]any {
	return map[string]any{
		"thresholds": map[string]any{
			"sum_integrity":      map[string]any{"tolerance": 1.0, "severity": "CRITICAL"},
			"ratio_market_share": map[string]any{"tolerance": 0.1, "severity": "CRITICAL"},
			"ratio_category":     map[string]any{"tolerance": 0.5, "severity": "WARNING"},
			"formula_mom":        map[string]any{"tolerance": 10.0, "severity": "WARNING"},
			"formula_yoy":        map[string]any{"tolerance": 10.0, "severity": "WARNING"},
			"range_activation":   map[string]any{"min": 0.0, "max": 100.0, "severity": "CRITICAL"},
			"range_hhi":          map[string]any{"min": 0.0, "max": 10000.0, "severity": "WARNING"},
			"continuity":         map[string]any{"max_missing_months": 0.0, "severity": "CRITICAL"},
			"statistical_anomaly": map[string]any{
				"z_score_warning":    2.0,
				"z_score_critical":   3.0,
				"max_critical_ratio": 5.0,
				"severity":           "WARNING",
			},
			"cross_kpi": map[string]any{
				"share_change_threshold": 0.5,
				"growth_rate_threshold":  -1.0,
				"severity":               "INFO",
			},
		},
		"reporting": map[string]any{
			"output_dir":     "reports",
			"formats":        []any{"csv", "json", "html"},
			"retention_days": 90,
		},
		"alerting": map[string]any{
			"slack": map[string]any{"channel": "#data-quality-alerts"},
		},
	}
}

// Load reads the YAML file at path (or $METRICSGUARD_CONFIG when path is
// empty) and merges it over the defaults. A missing or malformed file is
// logged and the defaults stand; loading never fails hard.
func Load(path string, log *slog.Logger) map[string]any {
	doc := Defaults()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path == "" {
		log.Info("no config file given, using built-in defaults")
		return doc
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Warn("cannot read config file, using built-in defaults", "path", path, "error", err)
		return doc
	}

	var user map[string]any
	if err := yaml.Unmarshal(raw, &user); err != nil {
		log.Warn("cannot parse config file, using built-in defaults", "path", path, "error", err)
		return doc
	}

	for _, section := range []string{"thresholds", "reporting", "alerting"} {
		override, ok := user[section].(map[string]any)
		if !ok {
			continue
		}
		base, ok := doc[section].(map[string]any)
		if !ok {
			doc[section] = override
			continue
		}
		mergeSection(base, override)
	}

	log.Info("config loaded", "path", path)
	return doc
}

// mergeSection overlays override keys onto base. When both sides hold a
// mapping the merge descends one level, so a partial threshold entry keeps
// its unspecified fields at their defaults.
func mergeSection(base, override map[string]any) {
	for key, value := range override {
		if sub, ok := value.(map[string]any); ok {
			if baseSub, ok := base[key].(map[string]any); ok {
				for field, fieldValue := range sub {
					baseSub[field] = fieldValue
				}
				continue
			}
		}
		base[key] = value
	}
}

// Env carries connection settings sourced from the process environment,
// outside the YAML document.
type Env struct {
	DatabaseDSN     string
	SlackWebhookURL string
}

// LoadEnv reads connection settings from the environment.
func LoadEnv() Env {
	return Env{
		DatabaseDSN:     os.Getenv(databaseDSNEnv),
		SlackWebhookURL: os.Getenv(slackWebhookEnv),
	}
}
