package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Cleanup deletes report files in dir whose modification time predates the
// retention window. A missing directory is not an error; the run simply has
// nothing to clean. Returns the number of files removed.
func Cleanup(dir string, retentionDays int, now time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read report dir: %w", err)
	}

	cutoff := now.AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
				continue
			}
			removed++
		}
	}

	return removed, nil
}
