package notifications

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"speakcoach/internal/config"
)

func TestNewServiceReturnsNoopWhenNothingEnabled(t *testing.T) {
	cfg := config.Default()
	svc := NewService(&cfg)
	if _, ok := svc.(noopService); !ok {
		t.Fatalf("expected noop service, got %T", svc)
	}
	if err := svc.NotifyAnalysisFailed(context.Background(), "boom"); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNewServiceEnablesTransports(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = "https://ntfy.example/topic"
	cfg.Notifications.Desktop = true
	svc, ok := NewService(&cfg).(*service)
	if !ok {
		t.Fatal("expected combined service")
	}
	if len(svc.senders) != 2 {
		t.Fatalf("expected ntfy and desktop senders, got %d", len(svc.senders))
	}
}

func TestNtfyPayloads(t *testing.T) {
	type captured struct {
		title, tags, priority, body string
	}
	var got []captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = append(got, captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		})
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := NewService(&cfg)
	ctx := context.Background()

	if err := svc.NotifyDegraded(ctx, "Pro", "medium.en/cuda/float16", "tiny.en/cpu/int8"); err != nil {
		t.Fatalf("NotifyDegraded: %v", err)
	}
	if err := svc.NotifyAnalysisCompleted(ctx, "Presentation", 142, "Calm / Confident", 3210*time.Millisecond); err != nil {
		t.Fatalf("NotifyAnalysisCompleted: %v", err)
	}
	if err := svc.NotifyAnalysisFailed(ctx, "Audio too short."); err != nil {
		t.Fatalf("NotifyAnalysisFailed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(got))
	}
	if got[0].title != "Speakcoach - Switched to Eco" || !strings.Contains(got[0].body, "Pro mode ran out of memory") {
		t.Fatalf("unexpected degraded payload %+v", got[0])
	}
	if got[0].tags != "speakcoach,engine,degraded" || got[0].priority != "" {
		t.Fatalf("unexpected degraded headers %+v", got[0])
	}
	if got[1].body != "Presentation: 142 wpm, Calm / Confident (took 3.2s)" {
		t.Fatalf("unexpected completion body %q", got[1].body)
	}
	if got[2].priority != "high" || got[2].body != "Audio too short." {
		t.Fatalf("unexpected failure payload %+v", got[2])
	}
}

func TestNtfyReportsHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic closed", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	err := NewService(&cfg).TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected 403 error, got %v", err)
	}
}

func TestDesktopSenderAndFanOut(t *testing.T) {
	var titles []string
	ok := desktopSender{notify: func(title, message string) error {
		titles = append(titles, title)
		return nil
	}}
	failing := desktopSender{notify: func(string, string) error { return errors.New("no dbus") }}

	svc := &service{senders: []sender{failing, ok}}
	err := svc.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no dbus") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(titles) != 1 || titles[0] != "Speakcoach - Test" {
		t.Fatalf("expected remaining sender to run, got %v", titles)
	}
}
