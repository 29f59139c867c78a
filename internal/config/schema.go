package config

import (
	"fmt"
	"strings"
)

// requiredThresholdKeys are the check identifiers every configuration must
// define, with the numeric fields each one needs. Order is the report order
// of violations. The trend check takes no configuration and has no key here.
var requiredThresholdKeys = []struct {
	key    string
	fields []string
}{
	{"sum_integrity", []string{"tolerance"}},
	{"ratio_market_share", []string{"tolerance"}},
	{"ratio_category", []string{"tolerance"}},
	{"formula_mom", []string{"tolerance"}},
	{"formula_yoy", []string{"tolerance"}},
	{"range_activation", []string{"min", "max"}},
	{"range_hhi", []string{"min", "max"}},
	{"continuity", []string{"max_missing_months"}},
	{"statistical_anomaly", []string{"z_score_warning", "z_score_critical"}},
	{"cross_kpi", []string{"share_change_threshold", "growth_rate_threshold"}},
}

// ValidationError carries every schema violation found in a configuration
// document. It is returned as a whole so callers can inspect the full list.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %d schema violation(s): %s",
		len(e.Violations), strings.Join(e.Violations, "; "))
}

// ValidateSchema checks a raw configuration document against the required
// structure and collects one human-readable message per violation. It never
// stops at the first problem; an empty slice means the document is valid.
func ValidateSchema(doc any) []string {
	root, ok := doc.(map[string]any)
	if !ok {
		return []string{"configuration root is not a mapping"}
	}

	var violations []string

	rawThresholds, present := root["thresholds"]
	if !present {
		violations = append(violations, "thresholds: section is missing")
		return violations
	}
	thresholds, ok := rawThresholds.(map[string]any)
	if !ok {
		violations = append(violations, "thresholds: section is not a mapping")
		return violations
	}

	for _, required := range requiredThresholdKeys {
		rawEntry, present := thresholds[required.key]
		if !present {
			violations = append(violations, fmt.Sprintf("thresholds.%s: key is missing", required.key))
			continue
		}
		entry, ok := rawEntry.(map[string]any)
		if !ok {
			violations = append(violations, fmt.Sprintf("thresholds.%s: entry is not a mapping", required.key))
			continue
		}

		for _, field := range required.fields {
			value, present := entry[field]
			if !present {
				violations = append(violations, fmt.Sprintf("thresholds.%s.%s: field is missing", required.key, field))
				continue
			}
			if _, ok := asFloat(value); !ok {
				violations = append(violations,
					fmt.Sprintf("thresholds.%s.%s: expected a number, got %T", required.key, field, value))
			}
		}

		severity, present := entry["severity"]
		if !present {
			violations = append(violations, fmt.Sprintf("thresholds.%s.severity: field is missing", required.key))
			continue
		}
		if name, ok := severity.(string); !ok || !validSeverityName(name) {
			violations = append(violations,
				fmt.Sprintf("thresholds.%s.severity: %v is not one of CRITICAL, WARNING, INFO", required.key, severity))
		}
	}

	if reporting, ok := root["reporting"].(map[string]any); ok {
		if raw, present := reporting["retention_days"]; present {
			days, ok := asFloat(raw)
			if !ok || days < 0 {
				violations = append(violations, "reporting.retention_days: must be a non-negative number")
			}
		}
	}

	return violations
}

func validSeverityName(name string) bool {
	switch name {
	case "CRITICAL", "WARNING", "INFO":
		return true
	}
	return false
}

// asFloat coerces YAML scalar numbers, which decode as int or float64
// depending on their lexical form.
func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}
