package logging

import "log/slog"

const (
	defaultHint   = "see the diagnostic log for details"
	defaultImpact = "analysis continued with reduced fidelity"
)

// Event describes a warning or failure in the diagnostic log. Type becomes
// event_type; Hint is the next step for the user. Warnings always carry an
// Impact, falling back to a generic one.
type Event struct {
	Type   string
	Hint   string
	Impact string
	Alert  bool
}

// Warn writes msg at warn level with the event fields ahead of attrs.
func (e Event) Warn(logger *slog.Logger, msg string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, Args(append(e.fields(true), attrs...)...)...)
}

// Error writes msg at error level. Impact is included only when set.
func (e Event) Error(logger *slog.Logger, msg string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, Args(append(e.fields(false), attrs...)...)...)
}

func (e Event) fields(warning bool) []Attr {
	hint := e.Hint
	if hint == "" {
		hint = defaultHint
	}
	out := []Attr{String(FieldEventType, e.Type), String(FieldErrorHint, hint)}
	switch {
	case e.Impact != "":
		out = append(out, String(FieldImpact, e.Impact))
	case warning:
		out = append(out, String(FieldImpact, defaultImpact))
	}
	if e.Alert {
		out = append(out, String(FieldAlert, e.Type))
	}
	return out
}
