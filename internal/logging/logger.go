package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"speakcoach/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// Console receives human-facing log output. Nil disables console output.
	Console io.Writer
	// FilePath is the diagnostic log file. Empty disables file output.
	FilePath    string
	Development bool
}

// Diagnostics is the process-wide logging context. It owns the diagnostic log
// file handle; Close releases it and later records are dropped from the file.
type Diagnostics struct {
	Logger *slog.Logger

	path string
	file *fileSink
}

// Open constructs a Diagnostics context using the provided options.
func Open(opts Options) (*Diagnostics, error) {
	level := parseLevel(opts.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level)

	var writers []io.Writer
	if opts.Console != nil {
		writers = append(writers, opts.Console)
	}

	diag := &Diagnostics{}
	if path := strings.TrimSpace(opts.FilePath); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", path, err)
		}
		diag.path = path
		diag.file = &fileSink{file: file}
		writers = append(writers, diag.file)
	}

	var out io.Writer
	switch len(writers) {
	case 0:
		out = io.Discard
	case 1:
		out = writers[0]
	default:
		out = io.MultiWriter(writers...)
	}

	addSource := opts.Development || level <= slog.LevelDebug

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		handler = newJSONHandler(out, levelVar, addSource)
	case "console", "":
		handler = newPrettyHandler(out, levelVar, addSource)
	default:
		if diag.file != nil {
			_ = diag.file.Close()
		}
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	diag.Logger = slog.New(handler)
	return diag, nil
}

// OpenFromConfig creates a Diagnostics context writing to today's log in the
// configured log directory and, when console is non-nil, to the console.
func OpenFromConfig(cfg *config.Config, console io.Writer) (*Diagnostics, error) {
	if cfg == nil {
		return Open(Options{Level: "info", Format: "console", Console: console})
	}
	return Open(Options{
		Level:    cfg.Logging.Level,
		Format:   cfg.Logging.Format,
		Console:  console,
		FilePath: DailyLogPath(cfg.Paths.LogDir, time.Now()),
	})
}

// Path reports the diagnostic log file path, or "" when file logging is disabled.
func (d *Diagnostics) Path() string {
	if d == nil {
		return ""
	}
	return d.path
}

// Close releases the log file handle. It is safe to call more than once.
func (d *Diagnostics) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	return d.file.Close()
}

// fileSink serializes writes to the log file and discards them once closed.
type fileSink struct {
	mu   sync.Mutex
	file *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return len(p), nil
	}
	return s.file.Write(p)
}

func (s *fileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
