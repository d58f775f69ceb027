package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"speakcoach/internal/engine"
	"speakcoach/internal/logging"
)

// step is one phase of an analysis. Log lines written while it runs carry it
// as the step field, including lines from the engine subprocess.
type step string

const (
	stepValidate   step = "validate"
	stepResolve    step = "resolve"
	stepLoad       step = "load"
	stepTranscribe step = "transcribe"
	stepDecode     step = "decode"
	stepScore      step = "score"
)

// beginRequest assigns a request ID to one analysis and scopes ctx to it.
func beginRequest(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return logging.WithScope(ctx, logging.Scope{RequestID: id}), id
}

// enter scopes ctx and logger to s, keeping the request ID.
func (s step) enter(ctx context.Context, logger *slog.Logger) (context.Context, *slog.Logger) {
	scope := logging.ScopeFrom(ctx)
	scope.Step = string(s)
	ctx = logging.WithScope(ctx, scope)
	return ctx, logging.ForContext(ctx, logger)
}

// tierDecision records why an engine tier was chosen.
func tierDecision(tier engine.Tier, reason string, cfg engine.ModelConfig) []any {
	return logging.Args(
		logging.String("decision_type", "engine_tier"),
		logging.String("decision_result", string(tier)),
		logging.String("decision_reason", reason),
		logging.String("config", cfg.String()),
	)
}
