package tone

import (
	"testing"

	"speakcoach/internal/acoustic"
	"speakcoach/internal/lexical"
)

func classify(wpm int, energy, pitchAvg, pitchVar float64) Result {
	return Classify(
		acoustic.Metrics{EnergyAvg: energy, PitchAvg: pitchAvg, PitchVar: pitchVar},
		lexical.Metrics{WPM: wpm},
	)
}

func TestClassifyPriorityOrder(t *testing.T) {
	tests := []struct {
		name     string
		wpm      int
		energy   float64
		pitchVar float64
		want     string
		status   Status
	}{
		{"fast shaky loud", 175, 0.2, 55, LabelRushed, StatusOff},
		{"fast loud steady", 180, 0.2, 30, LabelEnergetic, StatusNormal},
		{"monotone loud", 140, 0.2, 10, LabelFormal, StatusOff},
		{"monotone quiet", 140, 0.01, 10, LabelLowEnergy, StatusOff},
		{"monotone medium", 140, 0.05, 10, LabelMonotone, StatusOff},
		{"calm", 140, 0.05, 30, LabelCalm, StatusNormal},
		{"slow", 90, 0.05, 30, LabelNeutral, StatusNormal},
		{"quiet", 140, 0.01, 30, LabelNeutral, StatusNormal},
		{"fast monotone quiet", 175, 0.01, 10, LabelLowEnergy, StatusOff},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.wpm, tc.energy, 150, tc.pitchVar)
			if got.Label != tc.want || got.Status != tc.status {
				t.Fatalf("got %q/%s want %q/%s", got.Label, got.Status, tc.want, tc.status)
			}
			if got.Rationale == "" {
				t.Fatal("expected rationale")
			}
		})
	}
}

func TestClassifyShakyBelowOverride(t *testing.T) {
	tests := []struct {
		name     string
		wpm      int
		energy   float64
		pitchVar float64
		want     string
	}{
		{"intense", 180, 0.2, 45, LabelIntense},
		{"intense at override bound", 200, 0.3, 50, LabelIntense},
		{"nervous", 180, 0.05, 45, LabelNervous},
		{"nervous quiet", 175, 0.01, 41, LabelNervous},
		{"shaky threshold is exclusive", 180, 0.2, 40, LabelEnergetic},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := classify(tc.wpm, tc.energy, 150, tc.pitchVar)
			if got.Label != tc.want || got.Status == "" {
				t.Fatalf("got %q/%s want %q", got.Label, got.Status, tc.want)
			}
			if tc.want != LabelEnergetic && got.Status != StatusOff {
				t.Fatalf("expected %q to be off, got %s", got.Label, got.Status)
			}
		})
	}
}

func TestOverrideAlwaysWins(t *testing.T) {
	for wpm := 161; wpm <= 260; wpm += 7 {
		for _, energy := range []float64{0.005, 0.05, 0.3} {
			for _, pitchVar := range []float64{50.5, 60, 120} {
				for _, pitchAvg := range []float64{0, 120, 240} {
					got := classify(wpm, energy, pitchAvg, pitchVar)
					if got.Label != LabelRushed || got.Status != StatusOff {
						t.Fatalf("wpm=%d energy=%v var=%v avg=%v: got %q", wpm, energy, pitchVar, pitchAvg, got.Label)
					}
				}
			}
		}
	}
}

func TestOverrideBoundaryIsExclusive(t *testing.T) {
	if got := classify(160, 0.05, 150, 55); got.Label == LabelRushed {
		t.Fatal("160 wpm must not trigger the override")
	}
	if got := classify(165, 0.05, 150, 50); got.Label == LabelRushed {
		t.Fatal("pitch deviation of exactly 50 must not trigger the override")
	}
}

func TestScenarioModeratelyFastSteadyIsCalm(t *testing.T) {
	got := classify(165, 0.05, 150, 20)
	if got.Label != LabelCalm || got.Status != StatusNormal {
		t.Fatalf("expected calm/confident at 165 wpm, got %q", got.Label)
	}
}

func TestDerive(t *testing.T) {
	flags := Derive(
		acoustic.Metrics{EnergyAvg: 0.15, PitchAvg: 230, PitchVar: 12},
		lexical.Metrics{WPM: 170},
	)
	want := Flags{Fast: true, Loud: true, HighPitch: true, Monotone: true}
	if flags != want {
		t.Fatalf("got %+v want %+v", flags, want)
	}
}
