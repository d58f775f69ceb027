package notifications

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"speakcoach/internal/config"
)

const (
	appName   = "Speakcoach"
	userAgent = "Speakcoach-Go/0.1.0"
)

// Service defines the notification surface exposed to the pipeline and CLI.
type Service interface {
	NotifyDegraded(ctx context.Context, requestedTier, requested, fallback string) error
	NotifyAnalysisCompleted(ctx context.Context, mode string, wpm int, tone string, elapsed time.Duration) error
	NotifyAnalysisFailed(ctx context.Context, message string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service from configuration. When no
// transport is enabled, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	var senders []sender

	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		senders = append(senders, &ntfySender{endpoint: topic, client: &http.Client{Timeout: timeout}})
	}
	if cfg.Notifications.Desktop {
		senders = append(senders, desktopSender{notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		}})
	}

	if len(senders) == 0 {
		return noopService{}
	}
	return &service{senders: senders}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type sender interface {
	send(ctx context.Context, data payload) error
}

type service struct {
	senders []sender
}

func (s *service) NotifyDegraded(ctx context.Context, requestedTier, requested, fallback string) error {
	tier := strings.TrimSpace(requestedTier)
	if tier == "" {
		tier = "Requested"
	}
	return s.publish(ctx, payload{
		title:   appName + " - Switched to Eco",
		message: fmt.Sprintf("%s mode ran out of memory (%s). Switched to %s for this session.", tier, requested, fallback),
		tags:    []string{"speakcoach", "engine", "degraded"},
	})
}

func (s *service) NotifyAnalysisCompleted(ctx context.Context, mode string, wpm int, tone string, elapsed time.Duration) error {
	elapsed = elapsed.Round(100 * time.Millisecond)
	if elapsed < 0 {
		elapsed = 0
	}
	return s.publish(ctx, payload{
		title:    appName + " - Analysis Ready",
		message:  fmt.Sprintf("%s: %d wpm, %s (took %s)", strings.TrimSpace(mode), wpm, strings.TrimSpace(tone), elapsed),
		tags:     []string{"speakcoach", "analysis", "completed"},
		priority: "low",
	})
}

func (s *service) NotifyAnalysisFailed(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown failure"
	}
	return s.publish(ctx, payload{
		title:    appName + " - Analysis Failed",
		message:  message,
		tags:     []string{"speakcoach", "error", "alert"},
		priority: "high",
	})
}

func (s *service) TestNotification(ctx context.Context) error {
	return s.publish(ctx, payload{
		title:    appName + " - Test",
		message:  "Notification system test",
		tags:     []string{"speakcoach", "test"},
		priority: "low",
	})
}

func (s *service) publish(ctx context.Context, data payload) error {
	var errs []error
	for _, snd := range s.senders {
		if err := snd.send(ctx, data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type ntfySender struct {
	endpoint string
	client   *http.Client
}

func (n *ntfySender) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type desktopSender struct {
	notify func(title, message string) error
}

func (d desktopSender) send(_ context.Context, data payload) error {
	if err := d.notify(data.title, data.message); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyDegraded(context.Context, string, string, string) error { return nil }
func (noopService) NotifyAnalysisCompleted(context.Context, string, int, string, time.Duration) error {
	return nil
}
func (noopService) NotifyAnalysisFailed(context.Context, string) error { return nil }
func (noopService) TestNotification(context.Context) error             { return nil }
