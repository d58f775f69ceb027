package acoustic

import (
	"fmt"
	"math"

	"speakcoach/internal/media/audio"
	"speakcoach/internal/services"
)

const (
	// MinActiveTime is the shortest amount of active speech, in seconds, that can be scored.
	MinActiveTime = 0.5
	// PauseThreshold is the gap length, in seconds, a silence must exceed to count as a pause.
	PauseThreshold = 1.5
	// TopDB is how far below the loudest block, in decibels, a block may fall and still be active.
	TopDB = 25.0

	blockSeconds = 0.010
	frameLength  = 2048
	hopLength    = 512
	minPitchHz   = 50.0
	maxPitchHz   = 300.0
	voicingFloor = 0.3
)

// Metrics summarizes the acoustic properties of one recording.
type Metrics struct {
	Duration   float64 `json:"duration"`
	ActiveTime float64 `json:"active_time"`
	// PitchAvg and PitchVar are whole Hz; both are zero when no frame was voiced.
	PitchAvg  float64 `json:"pitch_avg"`
	PitchVar  float64 `json:"pitch_var"`
	EnergyAvg float64 `json:"energy_avg"`
}

// Interval is an active region of the waveform in seconds.
type Interval struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Length returns the interval duration in seconds.
func (i Interval) Length() float64 {
	return i.End - i.Start
}

// TooShortError reports a recording without enough active speech to score.
type TooShortError struct {
	Duration   float64
	ActiveTime float64
}

func (e *TooShortError) Error() string {
	return fmt.Sprintf("active speech %.2fs is below the %.2fs minimum (recording %.2fs)", e.ActiveTime, MinActiveTime, e.Duration)
}

// Is reports whether target is the shared too-short marker.
func (e *TooShortError) Is(target error) bool {
	return target == services.ErrTooShort
}

// Analyze computes the acoustic metrics and active intervals of w. It returns
// a *TooShortError, with Duration still populated in Metrics, when active
// speech is shorter than MinActiveTime.
func Analyze(w audio.Waveform) (Metrics, []Interval, error) {
	metrics := Metrics{Duration: w.Duration()}
	intervals := SplitSilence(w)
	metrics.ActiveTime = ActiveTime(intervals)
	if metrics.ActiveTime < MinActiveTime {
		return metrics, intervals, &TooShortError{Duration: metrics.Duration, ActiveTime: metrics.ActiveTime}
	}

	floor := silenceFloor(w)
	pitches, energy := frameStats(w, floor)
	metrics.PitchAvg, metrics.PitchVar = meanStd(pitches)
	metrics.PitchAvg = math.Round(metrics.PitchAvg)
	metrics.PitchVar = math.Round(metrics.PitchVar)
	metrics.EnergyAvg = math.Round(energy*1000) / 1000
	return metrics, intervals, nil
}

// ActiveTime sums the lengths of intervals.
func ActiveTime(intervals []Interval) float64 {
	total := 0.0
	for _, iv := range intervals {
		total += iv.Length()
	}
	return total
}

// CountPauses counts gaps between consecutive intervals strictly longer than threshold.
func CountPauses(intervals []Interval, threshold float64) int {
	count := 0
	for i := 1; i < len(intervals); i++ {
		if intervals[i].Start-intervals[i-1].End > threshold {
			count++
		}
	}
	return count
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(values)))
}
