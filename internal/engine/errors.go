package engine

import (
	"errors"
	"strings"

	"speakcoach/internal/services"
)

// ResourceExhaustedError reports that an engine ran out of memory or hit an
// accelerator library failure. It is the only failure that triggers
// degradation.
type ResourceExhaustedError struct {
	Reason string
	Err    error
}

func (e *ResourceExhaustedError) Error() string {
	msg := "resource exhausted"
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResourceExhaustedError) Unwrap() error { return e.Err }

// Is reports whether target is the shared resource-exhaustion marker.
func (e *ResourceExhaustedError) Is(target error) bool {
	return target == services.ErrResourceExhausted
}

// IsResourceExhausted reports whether err is a resource exhaustion failure.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, services.ErrResourceExhausted)
}

var exhaustionMarkers = []string{
	"out of memory",
	"cuda error",
	"cuda failed",
	"cudnn",
	"cublas",
	"cuda driver",
	"no cuda-capable device",
	"std::bad_alloc",
	"cannot allocate memory",
}

// ClassifyFailure wraps err in a *ResourceExhaustedError when err or the
// engine's diagnostic output names an out-of-memory condition or an
// accelerator library error. Other errors are returned unchanged.
func ClassifyFailure(err error, output string) error {
	if err == nil || IsResourceExhausted(err) {
		return err
	}
	haystack := strings.ToLower(err.Error() + "\n" + output)
	for _, marker := range exhaustionMarkers {
		if strings.Contains(haystack, marker) {
			return &ResourceExhaustedError{Reason: exhaustionLine(output, marker), Err: err}
		}
	}
	return err
}

func exhaustionLine(output, marker string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(strings.ToLower(line), marker) {
			return strings.TrimSpace(line)
		}
	}
	return marker
}
