// Package scoring composes the acoustic, lexical, tone, and feedback
// analyzers into one Record per recording. Score is the error boundary for
// the scoring subsystem: analyzer failures and panics come back inside the
// Record instead of propagating.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"speakcoach/internal/acoustic"
	"speakcoach/internal/feedback"
	"speakcoach/internal/lexical"
	"speakcoach/internal/logging"
	"speakcoach/internal/media/audio"
	"speakcoach/internal/services"
	"speakcoach/internal/tone"
)

// Record is the complete scoring output for one recording. When Err is set
// only Mode and Signal.Duration are meaningful.
type Record struct {
	Mode       string           `json:"mode"`
	Signal     acoustic.Metrics `json:"signal"`
	Text       lexical.Metrics  `json:"text"`
	PauseCount int              `json:"pause_count"`
	Tone       tone.Result      `json:"tone"`
	Feedback   feedback.Report  `json:"feedback"`
	Err        error            `json:"-"`
}

// Scorer runs the scoring sequence with a component logger.
type Scorer struct {
	logger   *slog.Logger
	classify func(acoustic.Metrics, lexical.Metrics) tone.Result
}

// New returns a Scorer. A nil logger discards output.
func New(logger *slog.Logger) *Scorer {
	return &Scorer{
		logger:   logging.NewComponentLogger(logger, "scoring"),
		classify: tone.Classify,
	}
}

// Score analyzes w and transcript against the profile for mode. Unknown
// modes resolve to the default profile and the record carries its name.
func Score(w audio.Waveform, transcript, mode string) Record {
	return New(nil).Score(context.Background(), w, transcript, mode)
}

// Score analyzes w and transcript against the profile for mode. Log lines
// carry the analysis scope on ctx.
func (s *Scorer) Score(ctx context.Context, w audio.Waveform, transcript, mode string) (record Record) {
	logger := logging.ForContext(ctx, s.logger)
	profile, known := feedback.Lookup(mode)
	if !known {
		logger.Info("unknown analysis mode; using default profile",
			decision("analysis_mode", profile.Mode, fmt.Sprintf("unrecognized mode %q", mode))...)
	}
	record.Mode = profile.Mode

	defer func() {
		if r := recover(); r != nil {
			err := services.Wrap(services.ErrUnexpected, "score", "analyze", "scoring panicked", fmt.Errorf("%v", r))
			logging.Event{Type: "scoring_panic"}.Error(logger, "scoring panicked", logging.Error(err))
			record = Record{Mode: profile.Mode, Signal: acoustic.Metrics{Duration: w.Duration()}, Err: err}
		}
	}()

	signal, intervals, err := acoustic.Analyze(w)
	if err != nil {
		var tooShort *acoustic.TooShortError
		if !errors.As(err, &tooShort) {
			err = services.Wrap(services.ErrUnexpected, "score", "signal analysis", "acoustic analysis failed", err)
		}
		logger.Info("scoring short-circuited",
			logging.Float64("duration", signal.Duration),
			logging.Float64("active_time", signal.ActiveTime),
			logging.Error(err),
			logging.String(logging.FieldEventType, "scoring_short_circuit"),
		)
		return Record{Mode: profile.Mode, Signal: acoustic.Metrics{Duration: signal.Duration}, Err: err}
	}

	text := lexical.Analyze(transcript).WithActiveTime(signal.ActiveTime)
	pauses := acoustic.CountPauses(intervals, acoustic.PauseThreshold)
	verdict := s.classify(signal, text)
	report := feedback.Compile(profile.Mode, signal, text, pauses, verdict)

	logger.Debug("tone classified", decision("tone", verdict.Label, verdict.Rationale)...)
	logger.Info("recording scored",
		logging.String("mode", profile.Mode),
		logging.Int("words", text.WordCount),
		logging.Int("wpm", text.WPM),
		logging.Int("pauses", pauses),
		logging.Int("fillers", text.FillerCount),
		logging.Int("blunders", text.BlunderCount),
		logging.String("tone", verdict.Label),
		logging.String(logging.FieldEventType, "recording_scored"),
	)

	return Record{
		Mode:       profile.Mode,
		Signal:     signal,
		Text:       text,
		PauseCount: pauses,
		Tone:       verdict,
		Feedback:   report,
	}
}

// decision builds the fields for a logged choice between outcomes.
func decision(kind, result, reason string) []any {
	return logging.Args(
		logging.String("decision_type", kind),
		logging.String("decision_result", result),
		logging.String("decision_reason", reason),
	)
}
