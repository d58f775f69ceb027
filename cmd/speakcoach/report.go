package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"speakcoach/internal/engine"
	"speakcoach/internal/feedback"
	"speakcoach/internal/pipeline"
	"speakcoach/internal/scoring"
	"speakcoach/internal/services"
	"speakcoach/internal/tone"
)

type analysisJSON struct {
	RequestID      string             `json:"request_id"`
	Mode           string             `json:"mode"`
	Tier           string             `json:"tier,omitempty"`
	TierReason     string             `json:"tier_reason,omitempty"`
	Requested      engine.ModelConfig `json:"requested"`
	Engine         engine.ModelConfig `json:"engine"`
	Degraded       bool               `json:"degraded"`
	Transcript     string             `json:"transcript"`
	Record         *scoring.Record    `json:"metrics,omitempty"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Error          *errorJSON         `json:"error,omitempty"`
}

type errorJSON struct {
	Category string  `json:"category"`
	Message  string  `json:"message"`
	Duration float64 `json:"duration,omitempty"`
}

func newAnalysisJSON(result pipeline.Result) analysisJSON {
	out := analysisJSON{
		RequestID:      result.RequestID,
		Mode:           result.Record.Mode,
		Tier:           string(result.Tier),
		TierReason:     result.TierReason,
		Requested:      result.Requested,
		Engine:         result.Config,
		Degraded:       result.Degraded,
		Transcript:     result.Transcript,
		ElapsedSeconds: result.Elapsed.Seconds(),
	}
	if result.Err != nil {
		out.Error = &errorJSON{
			Category: services.Category(result.Err),
			Message:  services.UserMessage(result.Err),
			Duration: result.Record.Signal.Duration,
		}
		return out
	}
	record := result.Record
	out.Record = &record
	return out
}

// degradationNotice is the one-line explanation shown when the engine fell
// back to the minimal configuration.
func degradationNotice(result pipeline.Result) string {
	if !result.Degraded {
		return ""
	}
	return fmt.Sprintf("%s mode ran out of memory, switched to %s (%s). Accuracy may be lower.",
		result.Tier.Title(), engine.Eco.Title(), result.Config)
}

func renderAnalysis(w io.Writer, p palette, result pipeline.Result, width int) {
	record := result.Record

	fmt.Fprintln(w, sectionHeader(p, "speakcoach · "+record.Mode))
	engineLine := fmt.Sprintf("Engine: %s (%s)", result.Tier.Title(), result.Config)
	if reason := strings.TrimSpace(result.TierReason); reason != "" && reason != "requested" {
		engineLine += " - " + reason
	}
	fmt.Fprintln(w, p.render(p.muted, engineLine))
	if notice := degradationNotice(result); notice != "" {
		fmt.Fprintln(w, p.render(p.warn, "! "+notice))
	}
	fmt.Fprintln(w)

	profile, _ := feedback.Lookup(record.Mode)
	report := record.Feedback
	rows := [][]string{
		{"Pace", fmt.Sprintf("%d wpm", record.Text.WPM), fmt.Sprintf("%d-%d", profile.WPMMin, profile.WPMMax), entryCell(p, report.WPM)},
		{"Pauses", fmt.Sprintf("%d", record.PauseCount), fmt.Sprintf("≤ %d", profile.MaxPauses), entryCell(p, report.Pause)},
		{"Fillers", fillerBreakdown(record), fmt.Sprintf("≤ %d", profile.MaxFillers), entryCell(p, report.Filler)},
		{"Blunders", fmt.Sprintf("%d", record.Text.BlunderCount), fmt.Sprintf("≤ %d", profile.MaxBlunders), entryCell(p, report.Blunder)},
		{"Tone", record.Tone.Label, "", entryCell(p, report.Tone)},
	}
	fmt.Fprintln(w, renderTable([]string{"Metric", "Value", "Target", "Feedback"}, rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft}, width))

	signal := record.Signal
	details := [][]string{
		{"Duration", fmt.Sprintf("%.1f s", signal.Duration)},
		{"Speaking time", fmt.Sprintf("%.1f s", signal.ActiveTime)},
		{"Words", fmt.Sprintf("%d", record.Text.WordCount)},
		{"Pitch", fmt.Sprintf("%.0f Hz ± %.0f", signal.PitchAvg, signal.PitchVar)},
		{"Energy", fmt.Sprintf("%.3f", signal.EnergyAvg)},
	}
	fmt.Fprintln(w, renderTable([]string{"Signal", "Value"}, details, []columnAlignment{alignLeft, alignRight}, width))

	if rationale := strings.TrimSpace(record.Tone.Rationale); rationale != "" {
		fmt.Fprintln(w, p.render(p.muted, "Tone: "+rationale))
	}
	if tip := strings.TrimSpace(report.DensityTip); tip != "" {
		fmt.Fprintln(w, p.render(p.warn, "Tip: "+tip))
	}

	if transcript := strings.TrimSpace(result.Transcript); transcript != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, sectionHeader(p, "Transcript"))
		fmt.Fprint(w, indentLines(wrapText(transcript, width-2), "  "))
	}
	fmt.Fprintln(w, p.render(p.muted, fmt.Sprintf("Analyzed in %s", result.Elapsed.Round(100*time.Millisecond))))
}

func entryCell(p palette, entry feedback.Entry) string {
	if entry.Status == tone.StatusOff {
		return p.render(p.warn, "✗ "+entry.Label)
	}
	return p.render(p.good, "✓ "+entry.Label)
}

func fillerBreakdown(record scoring.Record) string {
	text := record.Text
	if text.Stutters == 0 && text.Repetitions == 0 {
		return fmt.Sprintf("%d", text.FillerCount)
	}
	return fmt.Sprintf("%d (%d filler, %d stutter, %d repeat)", text.FillerCount, text.Fillers, text.Stutters, text.Repetitions)
}
