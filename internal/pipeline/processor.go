package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"speakcoach/internal/config"
	"speakcoach/internal/engine"
	"speakcoach/internal/hardware"
	"speakcoach/internal/logging"
	"speakcoach/internal/media/audio"
	"speakcoach/internal/media/ffprobe"
	"speakcoach/internal/notifications"
	"speakcoach/internal/scoring"
	"speakcoach/internal/services"
	"speakcoach/internal/services/whisper"
	"speakcoach/internal/workspace"
)

// Prober reports host capabilities.
type Prober interface {
	Probe(ctx context.Context) hardware.Capabilities
}

// InspectFunc reads container metadata for a recording.
type InspectFunc func(ctx context.Context, path string) (ffprobe.Result, error)

// DecodeFunc decodes a recording to a mono waveform.
type DecodeFunc func(ctx context.Context, path string) (audio.Waveform, error)

// Options configures a Processor. Only Config is required.
type Options struct {
	Config    *config.Config
	Logger    *slog.Logger
	Loader    *engine.Loader
	Prober    Prober
	Notifier  notifications.Service
	Workspace *workspace.Workspace
	Inspect   InspectFunc
	Decode    DecodeFunc
}

// Request is one analysis job.
type Request struct {
	AudioPath string
	// Tier is eco, balanced, pro, or empty/auto for the configured default
	// and then the hardware recommendation.
	Tier string
	// Mode names the threshold profile. Empty uses the configured default.
	Mode string
}

// Result is the outcome of Process. When Err is set, Record may be partial.
type Result struct {
	RequestID  string
	Tier       engine.Tier
	TierReason string
	Requested  engine.ModelConfig
	Config     engine.ModelConfig
	Degraded   bool
	Transcript string
	Record     scoring.Record
	Elapsed    time.Duration
	Err        error
}

// Processor runs analyses. It is safe for concurrent use.
type Processor struct {
	cfg       *config.Config
	logger    *slog.Logger
	loader    *engine.Loader
	models    engine.Models
	prober    Prober
	notifier  notifications.Service
	workspace *workspace.Workspace
	scorer    *scoring.Scorer
	inspect   InspectFunc
	decode    DecodeFunc
}

// NewProcessor wires a Processor, filling unset collaborators with the
// production implementations.
func NewProcessor(opts Options) (*Processor, error) {
	if opts.Config == nil {
		return nil, errors.New("pipeline requires configuration")
	}
	cfg := opts.Config
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	models := engine.ModelsFromConfig(cfg)

	p := &Processor{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		loader:    opts.Loader,
		models:    models,
		prober:    opts.Prober,
		notifier:  opts.Notifier,
		workspace: opts.Workspace,
		scorer:    scoring.New(logger),
		inspect:   opts.Inspect,
		decode:    opts.Decode,
	}
	if p.loader == nil {
		svc := whisper.NewService(whisper.ConfigFromSettings(cfg), logger)
		p.loader = engine.NewLoader(svc, engine.Minimal(models), logger)
	}
	if p.prober == nil {
		p.prober = hardware.NewProber()
	}
	if p.notifier == nil {
		p.notifier = notifications.NewService(cfg)
	}
	if p.inspect == nil {
		binary := cfg.FFprobeBinary()
		p.inspect = func(ctx context.Context, path string) (ffprobe.Result, error) {
			return ffprobe.Inspect(ctx, binary, path)
		}
	}
	if p.decode == nil {
		binary := cfg.FFmpegBinary()
		p.decode = func(ctx context.Context, path string) (audio.Waveform, error) {
			return audio.Decode(ctx, binary, path)
		}
	}
	return p, nil
}

// Close releases every cached engine.
func (p *Processor) Close() {
	p.loader.Reset()
}

// Process analyzes one recording.
func (p *Processor) Process(ctx context.Context, req Request) (result Result) {
	start := time.Now()
	ctx, result.RequestID = beginRequest(ctx)
	logger := logging.ForContext(ctx, p.logger)

	mode := strings.TrimSpace(req.Mode)
	if mode == "" {
		mode = p.cfg.Analysis.DefaultMode
	}
	result.Record.Mode = mode

	defer func() {
		if r := recover(); r != nil {
			result.Err = services.Wrap(services.ErrUnexpected, "pipeline", "process", "analysis panicked", fmt.Errorf("%v", r))
		}
		result.Elapsed = time.Since(start)
		p.finish(ctx, logger, result)
	}()

	logger.Info("analysis started",
		logging.String("audio", req.AudioPath),
		logging.String("mode", mode),
		logging.String("tier", req.Tier),
		logging.String(logging.FieldEventType, "analysis_start"),
	)

	if p.workspace != nil {
		release, err := p.workspace.AcquireShared(ctx)
		if err != nil {
			result.Err = services.Wrap(services.ErrConfiguration, "", "", "The data directory is locked by a cleanup in progress.", err)
			return result
		}
		defer release()
	}

	validateCtx, validateLog := stepValidate.enter(ctx, logger)
	if err := p.validateInput(validateCtx, validateLog, req.AudioPath); err != nil {
		result.Err = err
		return result
	}

	resolveCtx, resolveLog := stepResolve.enter(ctx, logger)
	caps := p.prober.Probe(resolveCtx)
	tier, reason, err := p.resolveTier(req.Tier, caps)
	if err != nil {
		result.Err = err
		return result
	}
	result.Tier = tier
	result.TierReason = reason
	result.Requested = engine.Resolve(tier, caps, p.models)
	resolveLog.Info("engine configuration resolved",
		append(tierDecision(tier, reason, result.Requested),
			logging.Bool("cuda", caps.CUDA),
			logging.Bool("unified_memory", caps.UnifiedMemory),
		)...)

	loadCtx, loadLog := stepLoad.enter(ctx, logger)
	load, err := p.loader.Load(loadCtx, result.Requested)
	if err != nil {
		result.Err = err
		return result
	}
	if load.Degraded {
		p.notifyDegraded(loadCtx, loadLog, tier, load)
	}

	transcribeCtx, transcribeLog := stepTranscribe.enter(ctx, logger)
	transcript, load, err := p.transcribe(transcribeCtx, transcribeLog, tier, load, req.AudioPath)
	result.Config = load.Config
	result.Degraded = load.Degraded
	if err != nil {
		result.Err = err
		return result
	}
	result.Transcript = transcript

	decodeCtx, decodeLog := stepDecode.enter(ctx, logger)
	waveform, err := p.decode(decodeCtx, req.AudioPath)
	if err != nil {
		logging.Event{
			Type:   "decode_failed",
			Hint:   "confirm ffmpeg can read the recording",
			Impact: "the recording is rejected",
		}.Warn(decodeLog, "waveform decode failed", logging.String("audio", req.AudioPath), logging.Error(err))
		result.Err = services.Wrap(services.ErrInput, "", "", "The recording could not be decoded.", nil)
		return result
	}

	scoreCtx, _ := stepScore.enter(ctx, logger)
	result.Record = p.scorer.Score(scoreCtx, waveform, transcript, mode)
	result.Err = result.Record.Err
	return result
}

func (p *Processor) validateInput(ctx context.Context, logger *slog.Logger, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return inputError("No audio file provided.", nil, logger)
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return inputError("Audio file not found.", err, logger)
	case err != nil:
		return inputError("Audio file could not be opened.", err, logger)
	case info.IsDir():
		return inputError("Audio path is a directory.", nil, logger)
	case info.Size() == 0:
		return inputError("Audio file is empty.", nil, logger)
	}

	probe, err := p.inspect(ctx, path)
	if err != nil {
		return inputError("Audio file could not be read.", err, logger)
	}
	stream, ok := probe.AudioStream()
	if !ok {
		return inputError("Recording has no audio stream.", nil, logger)
	}
	size, sized := probe.SizeBytes()
	if sized && size == 0 {
		return inputError("Audio file is empty.", nil, logger)
	}
	if d := probe.DurationSeconds(); !(d > 0) {
		return inputError("Recording is empty.", nil, logger)
	}
	logger.Debug("input validated",
		logging.String("audio", path),
		logging.Int("container_bytes", int(size)),
		logging.String("codec", stream.CodecName),
		logging.Int("sample_rate", stream.SampleRateHz()),
		logging.Float64("duration_seconds", probe.DurationSeconds()),
	)
	return nil
}

func inputError(message string, cause error, logger *slog.Logger) error {
	attrs := []logging.Attr{logging.String(logging.FieldEventType, "input_rejected"), logging.String("reason", message)}
	if cause != nil {
		attrs = append(attrs, logging.Error(cause))
	}
	logger.Info("input rejected", logging.Args(attrs...)...)
	return services.Wrap(services.ErrInput, "", "", message, nil)
}

func (p *Processor) resolveTier(requested string, caps hardware.Capabilities) (engine.Tier, string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" && !strings.EqualFold(requested, "auto") {
		tier, err := engine.ParseTier(requested)
		if err != nil {
			return "", "", services.Wrap(services.ErrInput, "", "", err.Error(), nil)
		}
		return tier, "requested", nil
	}
	if configured := strings.TrimSpace(p.cfg.Engine.DefaultTier); configured != "" {
		tier, err := engine.ParseTier(configured)
		if err != nil {
			return "", "", services.Wrap(services.ErrConfiguration, "", "", err.Error(), nil)
		}
		return tier, "configured default", nil
	}
	rec := hardware.Recommend(caps)
	tier, err := engine.ParseTier(rec.Tier)
	if err != nil {
		return "", "", services.Wrap(services.ErrUnexpected, "resolve", "recommend", "invalid recommendation", err)
	}
	return tier, rec.Reason, nil
}

// transcribe runs the loaded engine. A resource exhaustion raised during
// inference by a non-degraded engine triggers the single runtime fallback.
func (p *Processor) transcribe(ctx context.Context, logger *slog.Logger, tier engine.Tier, load engine.LoadResult, audioPath string) (string, engine.LoadResult, error) {
	req := engine.Request{
		AudioPath:     audioPath,
		BeamSize:      p.cfg.Engine.BeamSize,
		InitialPrompt: p.cfg.Engine.InitialPrompt,
		Language:      p.cfg.Engine.Language,
	}
	segments, err := load.Engine.Transcribe(ctx, req)
	if err == nil {
		return engine.JoinSegments(segments), load, nil
	}
	if !engine.IsResourceExhausted(err) {
		return "", load, services.Wrap(services.ErrExternalTool, "transcribe", load.Config.String(), "transcription failed", err)
	}
	if load.Degraded {
		return "", load, services.Wrap(services.ErrFatalLoad, "transcribe", load.Config.String(), "minimal configuration exhausted resources", err)
	}

	fallback, ferr := p.loader.Fallback(ctx, load.Config, err)
	if ferr != nil {
		return "", fallback, ferr
	}
	p.notifyDegraded(ctx, logger, tier, fallback)

	segments, err = fallback.Engine.Transcribe(ctx, req)
	if err != nil {
		marker := services.ErrExternalTool
		if engine.IsResourceExhausted(err) {
			marker = services.ErrFatalLoad
		}
		return "", fallback, services.Wrap(marker, "transcribe", fallback.Config.String(), "fallback transcription failed", err)
	}
	return engine.JoinSegments(segments), fallback, nil
}

func (p *Processor) notifyDegraded(ctx context.Context, logger *slog.Logger, tier engine.Tier, load engine.LoadResult) {
	if err := p.notifier.NotifyDegraded(ctx, tier.Title(), load.Requested.String(), load.Config.String()); err != nil {
		logger.Warn("degradation notification failed", logging.Error(err))
	}
}

func (p *Processor) finish(ctx context.Context, logger *slog.Logger, result Result) {
	if result.Err == nil {
		logger.Info("analysis completed",
			logging.String("config", result.Config.String()),
			logging.Bool("degraded", result.Degraded),
			logging.Int("wpm", result.Record.Text.WPM),
			logging.String("tone", result.Record.Tone.Label),
			logging.Duration("elapsed", result.Elapsed),
			logging.String(logging.FieldEventType, "analysis_complete"),
		)
		if err := p.notifier.NotifyAnalysisCompleted(ctx, result.Record.Mode, result.Record.Text.WPM, result.Record.Tone.Label, result.Elapsed); err != nil {
			logger.Warn("completion notification failed", logging.Error(err))
		}
		return
	}

	category := services.Category(result.Err)
	if category == "input" || category == "too_short" {
		logger.Info("analysis rejected",
			logging.String("category", category),
			logging.Error(result.Err),
			logging.Duration("elapsed", result.Elapsed),
			logging.String(logging.FieldEventType, "analysis_rejected"),
		)
		return
	}
	logging.Event{Type: "analysis_failed", Hint: "see the diagnostic log for engine output"}.Error(logger, "analysis failed",
		logging.String("category", category),
		logging.Error(result.Err),
		logging.Duration("elapsed", result.Elapsed),
	)
	if err := p.notifier.NotifyAnalysisFailed(ctx, services.UserMessage(result.Err)); err != nil {
		logger.Warn("failure notification failed", logging.Error(err))
	}
}
