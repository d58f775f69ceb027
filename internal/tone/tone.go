// Package tone classifies vocal delivery from acoustic and lexical metrics.
//
// Classification is two passes. Classify first evaluates an ordered rule list
// where the first match wins, then applies the rushed override, which
// re-checks the raw pace and pitch deviation and replaces any earlier label.
package tone

import (
	"speakcoach/internal/acoustic"
	"speakcoach/internal/lexical"
)

// Status marks whether a result is within the expected range.
type Status string

const (
	StatusNormal Status = "normal"
	StatusOff    Status = "off"
)

// Labels produced by Classify.
const (
	LabelIntense   = "Intense / Agitated"
	LabelNervous   = "Nervous"
	LabelEnergetic = "Energetic"
	LabelFormal    = "Formal / Stiff"
	LabelLowEnergy = "Low-Energy / Flat"
	LabelMonotone  = "Monotone"
	LabelCalm      = "Calm / Confident"
	LabelNeutral   = "Neutral / Conversational"
	LabelRushed    = "Nervous / Rushed"
)

// Predicate bounds.
const (
	FastWPM       = 170
	SlowWPM       = 110
	LoudEnergy    = 0.10
	QuietEnergy   = 0.02
	HighPitchHz   = 220.0
	ShakyPitchVar = 40.0
	FlatPitchVar  = 15.0

	// RushedWPM and RushedPitchVar trigger the override pass. Fast speech
	// with a pitch deviation in (ShakyPitchVar, RushedPitchVar] keeps its
	// first-pass label.
	RushedWPM      = 160
	RushedPitchVar = 50.0
)

// Result is the single tone verdict for a recording.
type Result struct {
	Label     string `json:"label"`
	Rationale string `json:"rationale"`
	Status    Status `json:"status"`
}

// Flags are the boolean predicates the rule list is evaluated against.
type Flags struct {
	Fast      bool
	Slow      bool
	Loud      bool
	Quiet     bool
	HighPitch bool
	Shaky     bool
	Monotone  bool
}

// Derive computes the predicates for one recording.
func Derive(signal acoustic.Metrics, text lexical.Metrics) Flags {
	return Flags{
		Fast:      text.WPM >= FastWPM,
		Slow:      text.WPM < SlowWPM,
		Loud:      signal.EnergyAvg > LoudEnergy,
		Quiet:     signal.EnergyAvg < QuietEnergy,
		HighPitch: signal.PitchAvg > HighPitchHz,
		Shaky:     signal.PitchVar > ShakyPitchVar,
		Monotone:  signal.PitchVar < FlatPitchVar,
	}
}

type rule struct {
	match     func(Flags) bool
	label     string
	rationale string
	status    Status
}

var rules = []rule{
	{
		match:     func(f Flags) bool { return f.Fast && f.Shaky && f.Loud },
		label:     LabelIntense,
		rationale: "Fast, loud, and unsteady pitch. Slow down and let your voice settle.",
		status:    StatusOff,
	},
	{
		match:     func(f Flags) bool { return f.Fast && f.Shaky && !f.Loud },
		label:     LabelNervous,
		rationale: "Fast pace with a wavering pitch. Breathe between points.",
		status:    StatusOff,
	},
	{
		match:     func(f Flags) bool { return f.Fast && f.Loud && !f.Shaky },
		label:     LabelEnergetic,
		rationale: "Quick and projected with a steady pitch.",
		status:    StatusNormal,
	},
	{
		match:     func(f Flags) bool { return f.Monotone && f.Loud },
		label:     LabelFormal,
		rationale: "Loud but flat. Vary your pitch to sound less rehearsed.",
		status:    StatusOff,
	},
	{
		match:     func(f Flags) bool { return f.Monotone && f.Quiet },
		label:     LabelLowEnergy,
		rationale: "Quiet and flat. Project more and stress key words.",
		status:    StatusOff,
	},
	{
		match:     func(f Flags) bool { return f.Monotone },
		label:     LabelMonotone,
		rationale: "Needs more pitch variation.",
		status:    StatusOff,
	},
	{
		match:     func(f Flags) bool { return !f.Fast && !f.Slow && !f.Quiet },
		label:     LabelCalm,
		rationale: "Steady pace at a comfortable volume.",
		status:    StatusNormal,
	},
}

var neutral = Result{
	Label:     LabelNeutral,
	Rationale: "Relaxed, conversational delivery.",
	Status:    StatusNormal,
}

// Classify returns exactly one tone for the recording.
func Classify(signal acoustic.Metrics, text lexical.Metrics) Result {
	result := classifyFlags(Derive(signal, text))
	return override(result, signal, text)
}

func classifyFlags(flags Flags) Result {
	for _, r := range rules {
		if r.match(flags) {
			return Result{Label: r.label, Rationale: r.rationale, Status: r.status}
		}
	}
	return neutral
}

// override relabels any fast delivery with an unsteady pitch as rushed. It
// runs after the rule list and supersedes whatever it chose.
func override(result Result, signal acoustic.Metrics, text lexical.Metrics) Result {
	if text.WPM > RushedWPM && signal.PitchVar > RushedPitchVar {
		return Result{
			Label:     LabelRushed,
			Rationale: "Speaking quickly with an unsteady pitch. Pause and slow down.",
			Status:    StatusOff,
		}
	}
	return result
}
