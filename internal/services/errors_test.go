package services_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"speakcoach/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcribe", "whisper", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcribe", "whisper", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToUnexpected(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrUnexpected) {
		t.Fatalf("expected unexpected marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %q", err.Error())
	}
}

func TestCategoryAndUserMessage(t *testing.T) {
	cases := []struct {
		err      error
		category string
		contains string
	}{
		{services.Wrap(services.ErrInput, "", "", "Audio file not found.", nil), "input", "Audio file not found."},
		{services.Wrap(services.ErrTooShort, "score", "", "", nil), "too_short", "too short"},
		{services.Wrap(services.ErrFatalLoad, "load", "", "", errors.New("oom")), "fatal_load", "Eco"},
		{services.Wrap(services.ErrResourceExhausted, "load", "", "", nil), "resource_exhausted", "memory"},
		{errors.New("something odd"), "unexpected", "diagnostic log"},
	}
	for _, tc := range cases {
		if got := services.Category(tc.err); got != tc.category {
			t.Fatalf("category for %v: got %q want %q", tc.err, got, tc.category)
		}
		msg := services.UserMessage(tc.err)
		if !strings.Contains(msg, tc.contains) {
			t.Fatalf("user message %q missing %q", msg, tc.contains)
		}
		if strings.Contains(msg, "oom") {
			t.Fatalf("user message leaked internal detail: %q", msg)
		}
	}
	if services.UserMessage(nil) != "" {
		t.Fatal("expected empty message for nil error")
	}
}

func TestUserMessageOmitsWrappedCause(t *testing.T) {
	cause := errors.New("remove /home/alex/.local/share/speakcoach/recordings/a.wav: permission denied")
	cases := []struct {
		err  error
		want string
	}{
		{
			services.Wrap(services.ErrConfiguration, "cleanup", "remove files", "Could not delete every recording or log", cause),
			"Configuration problem: Could not delete every recording or log",
		},
		{
			services.Wrap(services.ErrConfiguration, "", "", "The data directory is locked by a cleanup in progress.", cause),
			"Configuration problem: The data directory is locked by a cleanup in progress.",
		},
		{
			fmt.Errorf("open diagnostics: %w", services.Wrap(services.ErrConfiguration, "", "", "Log directory is not writable", cause)),
			"Configuration problem: Log directory is not writable",
		},
		{
			services.Wrap(services.ErrConfiguration, "lock", "", "", cause),
			"Configuration problem. Check the diagnostic log.",
		},
	}
	for _, tc := range cases {
		got := services.UserMessage(tc.err)
		if got != tc.want {
			t.Fatalf("UserMessage = %q, want %q", got, tc.want)
		}
		if !strings.Contains(tc.err.Error(), "permission denied") {
			t.Fatalf("cause should remain in the logged error, got %q", tc.err.Error())
		}
	}
}

func TestClassifiedErrorAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", services.Wrap(services.ErrInput, "validate", "stat", "Audio file not found.", nil))
	var classified *services.ClassifiedError
	if !errors.As(err, &classified) {
		t.Fatalf("expected ClassifiedError in chain of %v", err)
	}
	if classified.Stage != "validate" || classified.Message != "Audio file not found." {
		t.Fatalf("unexpected fields %+v", classified)
	}
	if got := err.Error(); got != "wrapped: input error: validate: stat: Audio file not found." {
		t.Fatalf("unexpected error string %q", got)
	}
}
