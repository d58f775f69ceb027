// Package acoustic extracts signal-level primitives from a decoded answer:
// duration, active speech intervals, pitch statistics, and RMS energy.
//
// Key types:
//   - Metrics: duration, active time, pitch mean/deviation, mean energy
//   - Interval: one contiguous active region in seconds
//   - TooShortError: returned when active speech is below MinActiveTime
//
// Primary entry points:
//   - Analyze: computes Metrics and the active intervals for a waveform
//   - SplitSilence: splits a waveform into active intervals
//   - CountPauses: counts gaps between intervals longer than a threshold
package acoustic
