package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"speakcoach/internal/logging"
	"speakcoach/internal/services"
)

// State is a step of the load state machine.
type State string

const (
	StateRequested State = "requested"
	StateLoaded    State = "loaded"
	StateDegraded  State = "degraded"
	StateFailed    State = "failed"
)

// LoadResult describes the outcome of a load.
type LoadResult struct {
	Engine Engine
	// Config is the configuration actually loaded.
	Config ModelConfig
	// Requested is the configuration the caller asked for.
	Requested ModelConfig
	// State is StateLoaded or StateFailed.
	State State
	// Degraded is true when Config is the minimal fallback instead of Requested.
	Degraded bool
	// Cause is the resource exhaustion that forced degradation.
	Cause error
}

// Loader opens engines and caches one per ModelConfig. It is safe for
// concurrent use; concurrent first loads of the same configuration share a
// single initialization.
type Loader struct {
	opener  Opener
	minimal ModelConfig
	logger  *slog.Logger

	mu       sync.Mutex
	cache    map[ModelConfig]Engine
	degraded map[ModelConfig]error
	group    singleflight.Group
}

// NewLoader constructs a Loader that falls back to minimal.
func NewLoader(opener Opener, minimal ModelConfig, logger *slog.Logger) *Loader {
	return &Loader{
		opener:   opener,
		minimal:  minimal,
		logger:   logging.NewComponentLogger(logger, "engine"),
		cache:    make(map[ModelConfig]Engine),
		degraded: make(map[ModelConfig]error),
	}
}

// Minimal returns the fallback configuration.
func (l *Loader) Minimal() ModelConfig {
	return l.minimal
}

// Load returns an engine for cfg. A resource exhaustion failure is retried
// once with the minimal configuration and reported as Degraded. A cached
// configuration, including a remembered degradation, is returned without
// re-entering the state machine.
func (l *Loader) Load(ctx context.Context, cfg ModelConfig) (LoadResult, error) {
	if result, ok := l.cached(cfg); ok {
		return result, nil
	}
	value, err, _ := l.group.Do(cfg.String(), func() (any, error) {
		if result, ok := l.cached(cfg); ok {
			return result, nil
		}
		return l.load(ctx, cfg)
	})
	result, _ := value.(LoadResult)
	return result, err
}

func (l *Loader) cached(cfg ModelConfig) (LoadResult, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if eng, ok := l.cache[cfg]; ok {
		return LoadResult{Engine: eng, Config: cfg, Requested: cfg, State: StateLoaded}, true
	}
	if cause, ok := l.degraded[cfg]; ok {
		if eng, ok := l.cache[l.minimal]; ok {
			return LoadResult{Engine: eng, Config: l.minimal, Requested: cfg, State: StateLoaded, Degraded: true, Cause: cause}, true
		}
	}
	return LoadResult{}, false
}

func (l *Loader) load(ctx context.Context, cfg ModelConfig) (LoadResult, error) {
	l.logger.Info("loading speech model",
		logging.String("config", cfg.String()),
		logging.String("state", string(StateRequested)),
		logging.String(logging.FieldEventType, "model_load_requested"),
	)
	eng, err := l.open(ctx, cfg)
	if err == nil {
		l.logger.Info("speech model loaded",
			logging.String("config", cfg.String()),
			logging.String("state", string(StateLoaded)),
			logging.String(logging.FieldEventType, "model_loaded"),
		)
		return LoadResult{Engine: eng, Config: cfg, Requested: cfg, State: StateLoaded}, nil
	}
	if !IsResourceExhausted(err) {
		logging.Event{Type: "model_load_failed", Hint: "check the engine command and diagnostic log"}.Error(
			logging.ForContext(ctx, l.logger), "speech model load failed",
			logging.String("config", cfg.String()),
			logging.String("state", string(StateFailed)),
			logging.Error(err),
		)
		return LoadResult{Config: cfg, Requested: cfg, State: StateFailed},
			services.Wrap(services.ErrExternalTool, "load", cfg.String(), "model load failed", err)
	}
	return l.degrade(ctx, cfg, err)
}

// Fallback handles resource exhaustion raised by an already loaded engine.
// It evicts failed and loads the minimal configuration. The caller must not
// call Fallback again for the same request.
func (l *Loader) Fallback(ctx context.Context, failed ModelConfig, cause error) (LoadResult, error) {
	l.Invalidate(failed)
	return l.degrade(ctx, failed, cause)
}

func (l *Loader) degrade(ctx context.Context, cfg ModelConfig, cause error) (LoadResult, error) {
	logger := logging.ForContext(ctx, l.logger)
	if cfg == l.minimal {
		logging.Event{Type: "model_load_fatal", Hint: "free memory or close other applications"}.Error(
			logger, "minimal speech model exhausted resources",
			logging.String("config", cfg.String()),
			logging.Error(cause),
		)
		return LoadResult{Config: cfg, Requested: cfg, State: StateFailed},
			services.Wrap(services.ErrFatalLoad, "load", cfg.String(), "minimal configuration exhausted resources", cause)
	}

	logging.Event{
		Type:   "model_degraded",
		Hint:   "choose a smaller tier to avoid the retry",
		Impact: "transcription accuracy is reduced",
		Alert:  true,
	}.Warn(logger, "speech model degraded to minimal configuration",
		logging.String("requested", cfg.String()),
		logging.String("fallback", l.minimal.String()),
		logging.String("state", string(StateDegraded)),
		logging.Error(cause),
	)

	eng, err := l.open(ctx, l.minimal)
	if err != nil {
		logging.Event{Type: "model_load_fatal"}.Error(logger, "minimal speech model failed to load",
			logging.String("config", l.minimal.String()),
			logging.String("state", string(StateFailed)),
			logging.Error(err),
		)
		return LoadResult{Config: l.minimal, Requested: cfg, State: StateFailed},
			services.Wrap(services.ErrFatalLoad, "load", l.minimal.String(), "minimal configuration failed", errors.Join(cause, err))
	}

	l.mu.Lock()
	l.degraded[cfg] = cause
	l.mu.Unlock()

	return LoadResult{Engine: eng, Config: l.minimal, Requested: cfg, State: StateLoaded, Degraded: true, Cause: cause}, nil
}

// open returns the cached engine for cfg or opens and caches a new one.
func (l *Loader) open(ctx context.Context, cfg ModelConfig) (Engine, error) {
	l.mu.Lock()
	if eng, ok := l.cache[cfg]; ok {
		l.mu.Unlock()
		return eng, nil
	}
	l.mu.Unlock()

	if l.opener == nil {
		return nil, errors.New("engine loader: no opener configured")
	}
	eng, err := l.opener.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if eng == nil {
		return nil, fmt.Errorf("engine loader: opener returned nil engine for %s", cfg)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.cache[cfg]; ok {
		_ = eng.Close()
		return existing, nil
	}
	l.cache[cfg] = eng
	return eng, nil
}

// Invalidate evicts cfg and any degradation remembered for it.
func (l *Loader) Invalidate(cfg ModelConfig) {
	l.mu.Lock()
	eng, ok := l.cache[cfg]
	delete(l.cache, cfg)
	delete(l.degraded, cfg)
	l.mu.Unlock()
	if ok {
		if err := eng.Close(); err != nil {
			l.logger.Debug("engine close failed", logging.String("config", cfg.String()), logging.Error(err))
		}
	}
}

// Reset evicts every cached engine.
func (l *Loader) Reset() {
	l.mu.Lock()
	engines := l.cache
	l.cache = make(map[ModelConfig]Engine)
	l.degraded = make(map[ModelConfig]error)
	l.mu.Unlock()
	for cfg, eng := range engines {
		if err := eng.Close(); err != nil {
			l.logger.Debug("engine close failed", logging.String("config", cfg.String()), logging.Error(err))
		}
	}
}
