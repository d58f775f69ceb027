package feedback

import (
	"fmt"

	"speakcoach/internal/acoustic"
	"speakcoach/internal/lexical"
	"speakcoach/internal/tone"
)

// RiskyWPM is the absolute pace ceiling. At or above it the pace label
// changes from too fast to risky regardless of mode.
const RiskyWPM = 170

// Entry is the feedback for one metric.
type Entry struct {
	Label  string      `json:"label"`
	Status tone.Status `json:"status"`
}

// Report is the compiled feedback for one recording.
type Report struct {
	Tone    Entry `json:"tone"`
	WPM     Entry `json:"wpm"`
	Pause   Entry `json:"pause"`
	Filler  Entry `json:"filler"`
	Blunder Entry `json:"blunder"`
	// DensityTip is empty when the answer length needs no comment.
	DensityTip string `json:"density_tip,omitempty"`
}

// Compile evaluates the metrics against the profile for mode. Unknown modes
// use the default profile.
func Compile(mode string, signal acoustic.Metrics, text lexical.Metrics, pauses int, result tone.Result) Report {
	profile, _ := Lookup(mode)
	return Report{
		Tone:       toneEntry(result),
		WPM:        paceEntry(profile, text.WPM),
		Pause:      limitEntry(pauses, profile.MaxPauses, "Good Flow", "Too Many Pauses"),
		Filler:     limitEntry(text.FillerCount, profile.MaxFillers, "Clean", "Avoid Fillers"),
		Blunder:    limitEntry(text.BlunderCount, profile.MaxBlunders, "Clear Logic", "Broken Sentences"),
		DensityTip: Advise(signal.Duration, text.WordCount),
	}
}

func paceEntry(profile Profile, wpm int) Entry {
	switch {
	case wpm < profile.WPMMin:
		return Entry{Label: fmt.Sprintf("Too Slow (<%d)", profile.WPMMin), Status: tone.StatusOff}
	case wpm >= RiskyWPM:
		return Entry{Label: fmt.Sprintf("Risky Pace (%d+)", RiskyWPM), Status: tone.StatusOff}
	case wpm > profile.WPMMax:
		return Entry{Label: fmt.Sprintf("Too Fast (>%d)", profile.WPMMax), Status: tone.StatusOff}
	default:
		return Entry{Label: "Ideal Pace", Status: tone.StatusNormal}
	}
}

func limitEntry(count, limit int, okLabel, offLabel string) Entry {
	if count > limit {
		return Entry{Label: offLabel, Status: tone.StatusOff}
	}
	return Entry{Label: okLabel, Status: tone.StatusNormal}
}

func toneEntry(result tone.Result) Entry {
	if result.Status == tone.StatusOff {
		return Entry{Label: "Adjust Delivery", Status: tone.StatusOff}
	}
	return Entry{Label: "Good Tone", Status: tone.StatusNormal}
}
