package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"MetricsGuard/internal/domain"
)

// jsonReport is the structured export: the full summary plus every result.
type jsonReport struct {
	domain.Summary
	AllChecks []domain.CheckResult `json:"all_checks"`
}

// WriteJSON writes the structured export into dir and returns the file path.
func WriteJSON(dir string, summary domain.Summary, results []domain.CheckResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("integrity_report_%s.json", summary.CheckDate))

	payload, err := json.MarshalIndent(jsonReport{Summary: summary, AllChecks: results}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json report: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write json report: %w", err)
	}

	return path, nil
}
