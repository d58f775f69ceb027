package logging

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// Scope ties log lines to one analysis and the step it is in. It travels on
// the context so code below the pipeline, such as the engine subprocess
// wrapper, tags its lines without knowing about requests.
type Scope struct {
	RequestID string
	Step      string
}

// WithScope returns ctx carrying s.
func WithScope(ctx context.Context, s Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

// ScopeFrom returns the Scope on ctx, or the zero Scope.
func ScopeFrom(ctx context.Context) Scope {
	if ctx == nil {
		return Scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(Scope)
	return s
}

// ForContext returns logger tagged with the request ID and step on ctx.
func ForContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = Discard()
	}
	s := ScopeFrom(ctx)
	var args []any
	if s.RequestID != "" {
		args = append(args, slog.String(FieldRequestID, s.RequestID))
	}
	if s.Step != "" {
		args = append(args, slog.String(FieldStep, s.Step))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
