package logging

import (
	"log/slog"
	"runtime"
)

// LogSystemInfo records the host environment once at startup so diagnostic
// logs can be matched to the machine that produced them. Callers append
// probe results such as RAM and ffmpeg availability.
func LogSystemInfo(logger *slog.Logger, attrs ...Attr) {
	if logger == nil {
		return
	}
	base := []Attr{
		String("os", runtime.GOOS),
		String("arch", runtime.GOARCH),
		Int("cpus", runtime.NumCPU()),
		String("go_version", runtime.Version()),
		String(FieldEventType, "system_info"),
	}
	logger.Info("system info", Args(append(base, attrs...)...)...)
}
