package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	logFilePrefix = "speakcoach-"
	logFileSuffix = ".log"
	logDateLayout = "2006-01-02"
)

// DailyLogPath returns the diagnostic log for the calendar day of t. Every
// run on the same day appends to the same file.
func DailyLogPath(dir string, t time.Time) string {
	return filepath.Join(dir, logFilePrefix+t.Format(logDateLayout)+logFileSuffix)
}

// logDay parses the date out of a DailyLogPath file name.
func logDay(name string, loc *time.Location) (time.Time, bool) {
	stamp, ok := strings.CutPrefix(name, logFilePrefix)
	if !ok {
		return time.Time{}, false
	}
	stamp, ok = strings.CutSuffix(stamp, logFileSuffix)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(logDateLayout, stamp, loc)
	return day, err == nil
}

// PruneLogs deletes daily logs in dir dated more than retentionDays before
// now. The date comes from the file name, so touching an old log does not
// keep it. Files not named by DailyLogPath are left alone, and a
// retentionDays of zero keeps everything. It returns the number removed.
func PruneLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	y, m, d := now.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, -retentionDays)

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		day, ok := logDay(entry.Name(), now.Location())
		if !ok || !day.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			Event{
				Type:   "log_retention_failed",
				Hint:   "check ownership of paths.log_dir",
				Impact: "an expired diagnostic log stays on disk",
			}.Warn(logger, "expired log not removed", String("path", path), Error(err))
			continue
		}
		removed++
	}
	if removed > 0 && logger != nil {
		logger.Info("expired logs pruned",
			Int("removed", removed),
			Int("retention_days", retentionDays),
			String(FieldEventType, "log_pruned"),
		)
	}
	return removed
}
