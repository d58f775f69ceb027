package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInput             = errors.New("input error")
	ErrTooShort          = errors.New("audio too short")
	ErrResourceExhausted = errors.New("resource exhausted")
	ErrFatalLoad         = errors.New("fatal model load failure")
	ErrExternalTool      = errors.New("external tool error")
	ErrConfiguration     = errors.New("configuration error")
	ErrUnexpected        = errors.New("unexpected error")
)

// ClassifiedError is a failure tagged with one of the sentinel markers
// above. Message is the text that may be shown to users; Stage, Op and the
// wrapped Err only reach the diagnostic log through Error().
type ClassifiedError struct {
	Marker  error
	Stage   string
	Op      string
	Message string
	Err     error
}

func (e *ClassifiedError) Error() string {
	detail := buildDetail(e.Stage, e.Op, e.Message)
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Marker, detail, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Marker, detail)
}

// Unwrap exposes both the marker and the cause to errors.Is and errors.As.
func (e *ClassifiedError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Marker}
	}
	return []error{e.Marker, e.Err}
}

// Wrap tags err with marker for later classification. The marker should be
// one of the exported sentinel errors above; nil means ErrUnexpected.
func Wrap(marker error, stage, operation, message string, err error) error {
	if marker == nil {
		marker = ErrUnexpected
	}
	return &ClassifiedError{
		Marker:  marker,
		Stage:   strings.TrimSpace(stage),
		Op:      strings.TrimSpace(operation),
		Message: strings.TrimSpace(message),
		Err:     err,
	}
}

// Category names the failure class of err for logging and JSON output.
func Category(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInput):
		return "input"
	case errors.Is(err, ErrTooShort):
		return "too_short"
	case errors.Is(err, ErrFatalLoad):
		return "fatal_load"
	case errors.Is(err, ErrResourceExhausted):
		return "resource_exhausted"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "unexpected"
	}
}

// UserMessage maps an error chain to the single descriptive line shown to end
// users. Only the Message given to Wrap is ever included; causes, stages and
// paths stay in the diagnostic log.
func UserMessage(err error) string {
	switch Category(err) {
	case "":
		return ""
	case "input":
		if msg := messageFor(err, ErrInput); msg != "" {
			return "Error: " + msg
		}
		return "Error: the recording could not be read."
	case "too_short":
		return "Audio too short. Record at least half a second of speech."
	case "fatal_load":
		return "The speech model could not be loaded, even in Eco mode. Check the diagnostic log."
	case "resource_exhausted":
		return "Not enough memory to run the speech model. Try the Eco profile."
	case "configuration":
		if msg := messageFor(err, ErrConfiguration); msg != "" {
			return "Configuration problem: " + msg
		}
		return "Configuration problem. Check the diagnostic log."
	default:
		return "Processing failed. Details were written to the diagnostic log."
	}
}

// messageFor returns the Message of the first ClassifiedError in the chain
// tagged with marker.
func messageFor(err error, marker error) string {
	switch e := err.(type) {
	case nil:
		return ""
	case *ClassifiedError:
		if e.Marker == marker && e.Message != "" {
			return e.Message
		}
		return messageFor(e.Err, marker)
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if msg := messageFor(inner, marker); msg != "" {
				return msg
			}
		}
	case interface{ Unwrap() error }:
		return messageFor(e.Unwrap(), marker)
	}
	return ""
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
