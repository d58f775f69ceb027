// Package workspace guards the speakcoach data directory.
//
// Analyses hold a shared flock on the data-dir lock file so several can run
// side by side; privacy cleanup takes the exclusive lock so it never deletes
// recordings or logs out from under a running analysis.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"speakcoach/internal/config"
	"speakcoach/internal/logging"
	"speakcoach/internal/services"
)

const lockRetryDelay = 100 * time.Millisecond

// ErrBusy reports that the lock could not be acquired before the context ended.
var ErrBusy = errors.New("speakcoach workspace is busy")

// Workspace coordinates access to the data directory.
type Workspace struct {
	lockPath string
	dirs     []string
	logger   *slog.Logger
}

// CleanSummary reports what Clean removed.
type CleanSummary struct {
	Dirs         []string
	FilesRemoved int
	BytesRemoved int64
}

// New constructs a workspace for the configured directories.
func New(cfg *config.Config, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Workspace{
		lockPath: cfg.LockPath(),
		dirs:     []string{cfg.Paths.RecordingsDir, cfg.Paths.LogDir},
		logger:   logging.NewComponentLogger(logger, "workspace"),
	}
}

// LockPath returns the lock file location.
func (w *Workspace) LockPath() string {
	return w.lockPath
}

// AcquireShared takes the shared analysis lock, waiting until ctx ends.
// The returned release func is safe to call more than once.
func (w *Workspace) AcquireShared(ctx context.Context) (func(), error) {
	lock, err := w.newLock()
	if err != nil {
		return nil, err
	}
	ok, err := lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		return nil, busyError(err)
	}
	return w.releaser(lock), nil
}

// Clean deletes recordings and logs under the exclusive lock. The closer,
// normally the diagnostics log, is closed first so no open handle points into
// the log directory.
func (w *Workspace) Clean(ctx context.Context, diagnostics io.Closer) (CleanSummary, error) {
	lock, err := w.newLock()
	if err != nil {
		return CleanSummary{}, err
	}
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil || !ok {
		return CleanSummary{}, busyError(err)
	}
	defer w.releaser(lock)()

	if diagnostics != nil {
		if err := diagnostics.Close(); err != nil {
			w.logger.Warn("diagnostics close failed before cleanup",
				logging.Error(err),
				logging.String(logging.FieldEventType, "diagnostics_close_failed"),
			)
		}
	}

	summary := CleanSummary{}
	var errs []error
	for _, dir := range w.dirs {
		dir = strings.TrimSpace(dir)
		if dir == "" {
			continue
		}
		files, bytes, err := removeContents(dir)
		summary.FilesRemoved += files
		summary.BytesRemoved += bytes
		if err != nil {
			errs = append(errs, err)
			continue
		}
		summary.Dirs = append(summary.Dirs, dir)
	}
	if err := errors.Join(errs...); err != nil {
		return summary, services.Wrap(services.ErrConfiguration, "cleanup", "remove files", "Could not delete every recording or log", err)
	}
	return summary, nil
}

func (w *Workspace) newLock() (*flock.Flock, error) {
	if err := os.MkdirAll(filepath.Dir(w.lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return flock.New(w.lockPath), nil
}

func (w *Workspace) releaser(lock *flock.Flock) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		if err := lock.Unlock(); err != nil {
			w.logger.Warn("failed to release workspace lock",
				logging.String("lock", w.lockPath),
				logging.Error(err),
			)
		}
	}
}

func busyError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrBusy
	}
	return fmt.Errorf("acquire workspace lock: %w", err)
}

// removeContents deletes everything inside dir and leaves dir in place.
func removeContents(dir string) (int, int64, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("read %s: %w", dir, err)
	}
	files := 0
	var bytes int64
	var errs []error
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() {
				return nil
			}
			files++
			if info, err := d.Info(); err == nil {
				bytes += info.Size()
			}
			return nil
		})
		if err := os.RemoveAll(path); err != nil {
			errs = append(errs, err)
		}
	}
	return files, bytes, errors.Join(errs...)
}
