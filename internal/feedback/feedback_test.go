package feedback

import (
	"testing"

	"speakcoach/internal/acoustic"
	"speakcoach/internal/lexical"
	"speakcoach/internal/tone"
)

func TestProfilesAreConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range Profiles() {
		if p.WPMMin > p.WPMMax {
			t.Errorf("%s: wpm_min %d > wpm_max %d", p.Mode, p.WPMMin, p.WPMMax)
		}
		if p.WPMMin < 0 || p.MaxPauses < 0 || p.MaxFillers < 0 || p.MaxBlunders < 0 {
			t.Errorf("%s: negative threshold %+v", p.Mode, p)
		}
		if seen[p.Mode] {
			t.Errorf("duplicate mode %q", p.Mode)
		}
		seen[p.Mode] = true
	}
	if !seen[DefaultMode] {
		t.Fatalf("default mode %q has no profile", DefaultMode)
	}
}

func TestProfilesReturnsCopy(t *testing.T) {
	list := Profiles()
	list[0].WPMMax = 999
	if Profiles()[0].WPMMax == 999 {
		t.Fatal("Profiles exposed the package table")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		known bool
	}{
		{"Presentation", ModePresent, true},
		{"  technical   /  COMPLEX ", ModeTechnical, true},
		{"practice mode", ModePractice, true},
		{"Karaoke", DefaultMode, false},
		{"", DefaultMode, false},
	}
	for _, tc := range tests {
		got, known := Lookup(tc.in)
		if got.Mode != tc.want || known != tc.known {
			t.Errorf("Lookup(%q) = %q,%v want %q,%v", tc.in, got.Mode, known, tc.want, tc.known)
		}
	}
}

func TestCompileIdealPaceInStandardInterview(t *testing.T) {
	text := lexical.Analyze("um so I think basically the answer is the answer")
	text.WPM = 140

	report := Compile(ModeStandard, acoustic.Metrics{Duration: 5}, text, 0, tone.Result{Status: tone.StatusNormal})
	if report.WPM != (Entry{Label: "Ideal Pace", Status: tone.StatusNormal}) {
		t.Fatalf("unexpected pace entry %+v", report.WPM)
	}
	if report.Filler != (Entry{Label: "Clean", Status: tone.StatusNormal}) {
		t.Fatalf("two fillers should be within the limit, got %+v", report.Filler)
	}
}

func TestCompileCleanPresentation(t *testing.T) {
	text := lexical.Analyze("We measured latency before and after the change")
	text.WPM = 140

	report := Compile(ModePresent, acoustic.Metrics{Duration: 20}, text, 0, tone.Result{Status: tone.StatusNormal})
	if report.Filler != (Entry{Label: "Clean", Status: tone.StatusNormal}) {
		t.Fatalf("unexpected filler entry %+v", report.Filler)
	}
	if report.Blunder != (Entry{Label: "Clear Logic", Status: tone.StatusNormal}) {
		t.Fatalf("unexpected blunder entry %+v", report.Blunder)
	}
	if report.Pause != (Entry{Label: "Good Flow", Status: tone.StatusNormal}) {
		t.Fatalf("unexpected pause entry %+v", report.Pause)
	}
}

func TestCompileViolations(t *testing.T) {
	text := lexical.Metrics{FillerCount: 3, BlunderCount: 1}
	report := Compile("Standard Interview", acoustic.Metrics{}, text, 3, tone.Result{Status: tone.StatusOff})

	want := Report{
		Tone:    Entry{Label: "Adjust Delivery", Status: tone.StatusOff},
		WPM:     Entry{Label: "Too Slow (<140)", Status: tone.StatusOff},
		Pause:   Entry{Label: "Too Many Pauses", Status: tone.StatusOff},
		Filler:  Entry{Label: "Avoid Fillers", Status: tone.StatusOff},
		Blunder: Entry{Label: "Broken Sentences", Status: tone.StatusOff},
	}
	if report != want {
		t.Fatalf("got %+v\nwant %+v", report, want)
	}
}

func TestPaceLabels(t *testing.T) {
	standard, _ := Lookup(ModeStandard)
	practice, _ := Lookup(ModePractice)
	tests := []struct {
		profile Profile
		wpm     int
		want    string
		status  tone.Status
	}{
		{standard, 139, "Too Slow (<140)", tone.StatusOff},
		{standard, 140, "Ideal Pace", tone.StatusNormal},
		{standard, 160, "Ideal Pace", tone.StatusNormal},
		{standard, 161, "Too Fast (>160)", tone.StatusOff},
		{standard, 169, "Too Fast (>160)", tone.StatusOff},
		{standard, 170, "Risky Pace (170+)", tone.StatusOff},
		{practice, 170, "Risky Pace (170+)", tone.StatusOff},
		{practice, 99, "Too Slow (<100)", tone.StatusOff},
	}
	for _, tc := range tests {
		got := paceEntry(tc.profile, tc.wpm)
		if got.Label != tc.want || got.Status != tc.status {
			t.Errorf("%s at %d wpm: got %+v want %q/%s", tc.profile.Mode, tc.wpm, got, tc.want, tc.status)
		}
	}
}

func TestCompileUnknownModeUsesDefault(t *testing.T) {
	text := lexical.Metrics{WPM: 150}
	a := Compile("no such mode", acoustic.Metrics{}, text, 0, tone.Result{})
	b := Compile(DefaultMode, acoustic.Metrics{}, text, 0, tone.Result{})
	if a != b {
		t.Fatalf("unknown mode should compile like the default: %+v vs %+v", a, b)
	}
}

func TestAdvise(t *testing.T) {
	tests := []struct {
		duration float64
		words    int
		want     string
	}{
		{60, 100, "For a 1-min answer, aim for 125-150 words to show depth."},
		{60, 145, ""},
		{60, 161, "For a 1-min answer, try to be more concise (Target: ~140 words)."},
		{50, 100, "For a 1-min answer, aim for 125-150 words to show depth."},
		{49.9, 100, ""},
		{70.1, 100, ""},
		{120, 150, "For a 2-min answer, aim for 200-250 words."},
		{120, 230, ""},
		{125, 300, "You exceeded the typical 250-word target for this duration."},
		{300, 500, "For a 5-min presentation, ensure you cover enough ground (~700 words)."},
		{300, 750, ""},
		{90, 10, ""},
	}
	for _, tc := range tests {
		if got := Advise(tc.duration, tc.words); got != tc.want {
			t.Errorf("Advise(%v, %d) = %q want %q", tc.duration, tc.words, got, tc.want)
		}
	}
}

func TestCompileIncludesDensityTip(t *testing.T) {
	report := Compile(ModeStandard, acoustic.Metrics{Duration: 60}, lexical.Metrics{WordCount: 100, WPM: 150}, 0, tone.Result{})
	if report.DensityTip == "" {
		t.Fatal("expected density tip for a sparse 1-minute answer")
	}
}
