// Package report turns an accumulated validation run into its serialized
// artifacts: a flat CSV table, a structured JSON document, a presentational
// HTML page, and a console summary. Renderers never change outcomes; colors
// and grouping are display only.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"MetricsGuard/internal/domain"
)

// csvColumns is the fixed export column set, one row per check result.
var csvColumns = []string{
	"check_name", "check_category", "severity",
	"expected_value", "actual_value", "difference",
	"tolerance", "status", "detail", "timestamp",
}

// WriteCSV writes the flat tabular export into dir and returns the file path.
func WriteCSV(dir, checkDate string, results []domain.CheckResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("integrity_report_%s.csv", checkDate))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv report: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range results {
		record := []string{
			r.CheckName,
			r.CheckCategory,
			string(r.Severity),
			formatNumber(r.ExpectedValue),
			formatNumber(r.ActualValue),
			formatNumber(r.Difference),
			formatNumber(r.Tolerance),
			string(r.Status),
			r.Detail,
			r.Timestamp.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv report: %w", err)
	}

	return path, nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
