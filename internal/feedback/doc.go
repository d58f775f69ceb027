// Package feedback compiles per-metric pass/fail feedback against the
// threshold profile of an analysis mode, and suggests content-density tips
// for answers of common lengths.
//
// Key types:
//   - Profile: immutable thresholds for one mode
//   - Entry: label plus normal/off status for one metric
//   - Report: all feedback entries and the optional density tip
//
// Primary entry points:
//   - Lookup: resolves a mode name to its Profile, falling back to the default
//   - Compile: evaluates metrics against a Profile
//   - Advise: returns a density tip for banded answer lengths
package feedback
