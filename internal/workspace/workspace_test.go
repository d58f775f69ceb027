package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"speakcoach/internal/config"
	"speakcoach/internal/services"
	"speakcoach/internal/testsupport"
)

type closeRecorder struct {
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return testsupport.NewConfig(t)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCleanRemovesRecordingsAndLogs(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.Paths.RecordingsDir, "answer.wav"), "RIFF1234")
	writeFile(t, filepath.Join(cfg.Paths.RecordingsDir, "old", "take.wav"), "RIFF")
	writeFile(t, filepath.Join(cfg.Paths.LogDir, "speakcoach.log"), "log line\n")
	keep := filepath.Join(cfg.Paths.DataDir, "config-note.txt")
	writeFile(t, keep, "keep me")

	closer := &closeRecorder{}
	summary, err := New(cfg, nil).Clean(context.Background(), closer)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !closer.closed {
		t.Fatal("expected diagnostics to be closed before cleanup")
	}
	if summary.FilesRemoved != 3 {
		t.Fatalf("expected 3 files removed, got %d", summary.FilesRemoved)
	}
	if summary.BytesRemoved != int64(len("RIFF1234")+len("RIFF")+len("log line\n")) {
		t.Fatalf("unexpected byte count %d", summary.BytesRemoved)
	}
	for _, dir := range []string{cfg.Paths.RecordingsDir, cfg.Paths.LogDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatalf("expected %s to remain: %v", dir, err)
		}
		if len(entries) != 0 {
			t.Fatalf("expected %s to be empty, got %d entries", dir, len(entries))
		}
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected unrelated data file to survive: %v", err)
	}
}

func TestCleanMissingDirectoriesIsNoop(t *testing.T) {
	cfg := newTestConfig(t)
	if err := os.RemoveAll(cfg.Paths.RecordingsDir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	summary, err := New(cfg, nil).Clean(context.Background(), nil)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if summary.FilesRemoved != 0 {
		t.Fatalf("expected nothing removed, got %d", summary.FilesRemoved)
	}
}

func TestSharedLocksCoexist(t *testing.T) {
	cfg := newTestConfig(t)
	ctx := context.Background()

	first, err := New(cfg, nil).AcquireShared(ctx)
	if err != nil {
		t.Fatalf("first shared lock: %v", err)
	}
	defer first()

	second, err := New(cfg, nil).AcquireShared(ctx)
	if err != nil {
		t.Fatalf("second shared lock: %v", err)
	}
	second()
	second()
}

func TestCleanWaitsForAnalysis(t *testing.T) {
	cfg := newTestConfig(t)
	writeFile(t, filepath.Join(cfg.Paths.RecordingsDir, "answer.wav"), "RIFF")

	release, err := New(cfg, nil).AcquireShared(context.Background())
	if err != nil {
		t.Fatalf("shared lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 250*time.Millisecond)
	defer cancel()
	_, err = New(cfg, nil).Clean(ctx, nil)
	if !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy while analysis holds the lock, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(cfg.Paths.RecordingsDir, "answer.wav")); statErr != nil {
		t.Fatalf("recording removed while locked: %v", statErr)
	}

	release()
	if _, err := New(cfg, nil).Clean(context.Background(), nil); err != nil {
		t.Fatalf("Clean after release: %v", err)
	}
}

func TestCleanReportsRemovalFailureAsConfiguration(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	cfg := newTestConfig(t)
	nested := filepath.Join(cfg.Paths.RecordingsDir, "locked")
	writeFile(t, filepath.Join(nested, "take.wav"), "RIFF")
	if err := os.Chmod(nested, 0o500); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(nested, 0o755) })

	_, err := New(cfg, nil).Clean(context.Background(), nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
