package feedback

import (
	"strings"

	"golang.org/x/text/cases"
)

// Mode names.
const (
	ModePractice  = "Practice Mode"
	ModeStandard  = "Standard Interview"
	ModeTechnical = "Technical / Complex"
	ModePresent   = "Presentation"

	// DefaultMode is used for unrecognized mode names.
	DefaultMode = ModeStandard
)

// Profile holds the thresholds for one analysis mode.
type Profile struct {
	Mode        string `json:"mode"`
	WPMMin      int    `json:"wpm_min"`
	WPMMax      int    `json:"wpm_max"`
	MaxPauses   int    `json:"max_pauses"`
	MaxFillers  int    `json:"max_fillers"`
	MaxBlunders int    `json:"max_blunders"`
}

var profiles = [...]Profile{
	{Mode: ModePractice, WPMMin: 100, WPMMax: 170, MaxPauses: 5, MaxFillers: 5, MaxBlunders: 3},
	{Mode: ModeStandard, WPMMin: 140, WPMMax: 160, MaxPauses: 2, MaxFillers: 2, MaxBlunders: 0},
	{Mode: ModeTechnical, WPMMin: 100, WPMMax: 130, MaxPauses: 4, MaxFillers: 2, MaxBlunders: 1},
	{Mode: ModePresent, WPMMin: 130, WPMMax: 150, MaxPauses: 1, MaxFillers: 0, MaxBlunders: 0},
}

// Profiles returns every profile in display order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles[:])
	return out
}

// Lookup returns the profile for mode. Matching ignores case and repeated
// whitespace. The second result is false when mode is unknown and the
// default profile was returned instead.
func Lookup(mode string) (Profile, bool) {
	key := modeKey(mode)
	for _, p := range profiles {
		if modeKey(p.Mode) == key {
			return p, true
		}
	}
	for _, p := range profiles {
		if p.Mode == DefaultMode {
			return p, false
		}
	}
	return profiles[0], false
}

func modeKey(mode string) string {
	return cases.Fold().String(strings.Join(strings.Fields(mode), " "))
}
