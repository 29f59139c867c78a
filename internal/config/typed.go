package config

import "MetricsGuard/internal/domain"

// Threshold is the typed view of one check's tolerance entry. Fields are
// pointers so a value absent from the document stays distinguishable from
// zero; checks fall back to their own documented defaults via the Or
// accessors.
type Threshold struct {
	Tolerance            *float64
	Min                  *float64
	Max                  *float64
	MaxMissingMonths     *float64
	ZScoreWarning        *float64
	ZScoreCritical       *float64
	MaxCriticalRatio     *float64
	ShareChangeThreshold *float64
	GrowthRateThreshold  *float64
	Severity             string
}

func orDefault(value *float64, def float64) float64 {
	if value == nil {
		return def
	}
	return *value
}

func (t Threshold) ToleranceOr(def float64) float64        { return orDefault(t.Tolerance, def) }
func (t Threshold) MinOr(def float64) float64              { return orDefault(t.Min, def) }
func (t Threshold) MaxOr(def float64) float64              { return orDefault(t.Max, def) }
func (t Threshold) MaxMissingMonthsOr(def float64) float64 { return orDefault(t.MaxMissingMonths, def) }
func (t Threshold) ZScoreWarningOr(def float64) float64    { return orDefault(t.ZScoreWarning, def) }
func (t Threshold) ZScoreCriticalOr(def float64) float64   { return orDefault(t.ZScoreCritical, def) }
func (t Threshold) MaxCriticalRatioOr(def float64) float64 { return orDefault(t.MaxCriticalRatio, def) }
func (t Threshold) ShareChangeThresholdOr(def float64) float64 {
	return orDefault(t.ShareChangeThreshold, def)
}
func (t Threshold) GrowthRateThresholdOr(def float64) float64 {
	return orDefault(t.GrowthRateThreshold, def)
}

// SeverityOr returns the configured severity, or def when the field is
// absent or not a known level.
func (t Threshold) SeverityOr(def domain.Severity) domain.Severity {
	if domain.ValidSeverity(t.Severity) {
		return domain.Severity(t.Severity)
	}
	return def
}

// Reporting holds report output settings.
type Reporting struct {
	OutputDir     string
	Formats       []string
	RetentionDays int
}

// Alerting holds the notification-channel hints handed to the notifier.
type Alerting struct {
	SlackChannel string
}

// Config is the typed, immutable view of a merged configuration document.
type Config struct {
	Thresholds map[string]Threshold
	Reporting  Reporting
	Alerting   Alerting
}

// Threshold returns the entry for key. Unknown keys get an empty entry whose
// accessors serve the per-check defaults.
func (c Config) Threshold(key string) Threshold {
	return c.Thresholds[key]
}

// Parse converts a raw document into the typed view. Parsing is lenient:
// fields of the wrong type read as absent, mirroring the backfill policy of
// Load. Run ValidateSchema first when strictness matters.
func Parse(doc map[string]any) Config {
	cfg := Config{Thresholds: map[string]Threshold{}}

	if thresholds, ok := doc["thresholds"].(map[string]any); ok {
		for key, rawEntry := range thresholds {
			entry, ok := rawEntry.(map[string]any)
			if !ok {
				continue
			}
			t := Threshold{
				Tolerance:            floatField(entry, "tolerance"),
				Min:                  floatField(entry, "min"),
				Max:                  floatField(entry, "max"),
				MaxMissingMonths:     floatField(entry, "max_missing_months"),
				ZScoreWarning:        floatField(entry, "z_score_warning"),
				ZScoreCritical:       floatField(entry, "z_score_critical"),
				MaxCriticalRatio:     floatField(entry, "max_critical_ratio"),
				ShareChangeThreshold: floatField(entry, "share_change_threshold"),
				GrowthRateThreshold:  floatField(entry, "growth_rate_threshold"),
			}
			if severity, ok := entry["severity"].(string); ok {
				t.Severity = severity
			}
			cfg.Thresholds[key] = t
		}
	}

	cfg.Reporting = Reporting{OutputDir: "reports", Formats: []string{"csv", "json", "html"}, RetentionDays: 90}
	if reporting, ok := doc["reporting"].(map[string]any); ok {
		if dir, ok := reporting["output_dir"].(string); ok && dir != "" {
			cfg.Reporting.OutputDir = dir
		}
		if rawFormats, ok := reporting["formats"].([]any); ok {
			formats := make([]string, 0, len(rawFormats))
			for _, f := range rawFormats {
				if name, ok := f.(string); ok {
					formats = append(formats, name)
				}
			}
			cfg.Reporting.Formats = formats
		}
		if days, ok := asFloat(reporting["retention_days"]); ok && days >= 0 {
			cfg.Reporting.RetentionDays = int(days)
		}
	}

	if alerting, ok := doc["alerting"].(map[string]any); ok {
		if slack, ok := alerting["slack"].(map[string]any); ok {
			if channel, ok := slack["channel"].(string); ok {
				cfg.Alerting.SlackChannel = channel
			}
		}
	}

	return cfg
}

func floatField(entry map[string]any, field string) *float64 {
	raw, present := entry[field]
	if !present {
		return nil
	}
	value, ok := asFloat(raw)
	if !ok {
		return nil
	}
	return &value
}
