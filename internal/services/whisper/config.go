package whisper

import (
	"speakcoach/internal/config"
)

// Config captures runtime settings for the engine command.
type Config struct {
	// Command is the launcher (uvx) or the engine binary itself when Package is empty.
	Command string
	// Package is the engine package uvx runs.
	Package  string
	Language string
	// FFmpegBinary generates the warm-up clip.
	FFmpegBinary string
	// WorkDir holds per-transcription scratch directories. Empty uses the system temp dir.
	WorkDir string
	// SkipWarmup opens models without the warm-up transcription.
	SkipWarmup bool
}

// Defaults for the engine command.
const (
	UVXCommand     = "uvx"
	DefaultPackage = "whisper-ctranslate2"
	OutputFormat   = "json"
	WarmupSeconds  = "1"
	FFmpegCommand  = "ffmpeg"
)

// ConfigFromSettings derives the service configuration from application config.
func ConfigFromSettings(cfg *config.Config) Config {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	return Config{
		Command:      cfg.Engine.Command,
		Package:      cfg.Engine.Package,
		Language:     cfg.Engine.Language,
		FFmpegBinary: cfg.FFmpegBinary(),
	}
}
