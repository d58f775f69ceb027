package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"speakcoach/internal/engine"
	"speakcoach/internal/logging"
)

// Service opens engine models backed by the faster-whisper CLI.
type Service struct {
	cfg           Config
	logger        *slog.Logger
	commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewService creates a Service with the given configuration.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = UVXCommand
	}
	if strings.TrimSpace(cfg.FFmpegBinary) == "" {
		cfg.FFmpegBinary = FFmpegCommand
	}
	return &Service{cfg: cfg, logger: logging.NewComponentLogger(logger, "whisper")}
}

// WithCommandRunner sets a custom command runner (for testing). The runner
// returns the combined output of the command.
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) ([]byte, error)) {
	s.commandRunner = runner
}

// Open prepares a model for cfg and verifies it loads with a warm-up run.
func (s *Service) Open(ctx context.Context, cfg engine.ModelConfig) (engine.Engine, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("whisper open: model required")
	}
	m := &model{svc: s, cfg: cfg}
	if s.cfg.SkipWarmup {
		return m, nil
	}
	if err := m.warmup(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s: %w", name, err)
	}
	return output, nil
}

func (s *Service) scratchDir() (string, error) {
	dir := s.cfg.WorkDir
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("ensure work dir: %w", err)
		}
	}
	return os.MkdirTemp(dir, "speakcoach-transcribe-")
}

type model struct {
	svc *Service
	cfg engine.ModelConfig
}

// Close is a no-op; the engine process exits after every transcription.
func (m *model) Close() error { return nil }

// Transcribe runs the engine on req.AudioPath and returns its segments.
func (m *model) Transcribe(ctx context.Context, req engine.Request) ([]engine.Segment, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return nil, errors.New("transcribe: audio path required")
	}
	outputDir, err := m.svc.scratchDir()
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	defer os.RemoveAll(outputDir)

	return m.transcribeInto(ctx, req, outputDir)
}

func (m *model) transcribeInto(ctx context.Context, req engine.Request, outputDir string) ([]engine.Segment, error) {
	name, args := m.buildCommand(req, outputDir)
	logger := logging.ForContext(ctx, m.svc.logger)
	logger.Debug("running speech engine",
		logging.String("command", name),
		logging.String("config", m.cfg.String()),
		logging.String("audio", req.AudioPath),
	)

	output, err := m.svc.run(ctx, name, args...)
	if err != nil {
		return nil, engine.ClassifyFailure(fmt.Errorf("whisper %s: %w", m.cfg, err), string(output))
	}

	base := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	segments, err := LoadSegments(filepath.Join(outputDir, base+"."+OutputFormat))
	if err != nil {
		return nil, fmt.Errorf("whisper %s: %w", m.cfg, err)
	}
	return segments, nil
}

// buildCommand constructs the engine invocation.
func (m *model) buildCommand(req engine.Request, outputDir string) (string, []string) {
	cfg := m.svc.cfg
	args := make([]string, 0, 24)
	if pkg := strings.TrimSpace(cfg.Package); pkg != "" {
		args = append(args, pkg)
	}
	args = append(args,
		req.AudioPath,
		"--model", m.cfg.Model,
		"--device", m.cfg.Device,
		"--compute_type", m.cfg.Precision,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--verbose", "False",
	)
	if req.BeamSize > 0 {
		args = append(args, "--beam_size", strconv.Itoa(req.BeamSize))
	}
	language := req.Language
	if language == "" {
		language = cfg.Language
	}
	if language != "" {
		args = append(args, "--language", language)
	}
	if prompt := strings.TrimSpace(req.InitialPrompt); prompt != "" {
		args = append(args, "--initial_prompt", prompt)
	}
	return cfg.Command, args
}

// warmup transcribes a generated second of silence so model download and
// device allocation happen at load time.
func (m *model) warmup(ctx context.Context) error {
	dir, err := m.svc.scratchDir()
	if err != nil {
		return fmt.Errorf("warmup: %w", err)
	}
	defer os.RemoveAll(dir)

	clip := filepath.Join(dir, "warmup.wav")
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-f", "lavfi",
		"-i", "anullsrc=r=16000:cl=mono",
		"-t", WarmupSeconds,
		"-c:a", "pcm_s16le",
		clip,
	}
	if output, err := m.svc.run(ctx, m.svc.cfg.FFmpegBinary, args...); err != nil {
		return fmt.Errorf("warmup clip: %w: %s", err, strings.TrimSpace(string(output)))
	}

	if _, err := m.transcribeInto(ctx, engine.Request{AudioPath: clip, BeamSize: 1}, dir); err != nil {
		return err
	}
	m.svc.logger.Info("speech engine warmed up",
		logging.String("config", m.cfg.String()),
		logging.String(logging.FieldEventType, "engine_warmup"),
	)
	return nil
}

type payload struct {
	Segments []engine.Segment `json:"segments"`
}

// LoadSegments loads segments from an engine JSON file.
func LoadSegments(jsonPath string) ([]engine.Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript json: %w", err)
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	return p.Segments, nil
}
