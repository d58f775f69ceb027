package preflight

import (
	"context"
	"strings"

	"speakcoach/internal/config"
	"speakcoach/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Recordings directory", cfg.Paths.RecordingsDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))

	for _, status := range CheckSystemDeps(cfg) {
		results = append(results, fromStatus(status))
	}

	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		check := CheckNtfy(ctx, topic)
		check.Optional = true
		results = append(results, check)
	}
	return results
}

// Failed returns the required checks that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed && !result.Optional {
			failed = append(failed, result)
		}
	}
	return failed
}

func fromStatus(status deps.Status) Result {
	result := Result{Name: status.Name, Passed: status.Available, Optional: status.Optional}
	switch {
	case status.Available:
		result.Detail = status.Path
	case status.Optional:
		result.Detail = status.Detail + " (optional: " + status.Description + ")"
	default:
		result.Detail = status.Detail + " (" + status.Description + ")"
	}
	return result
}
