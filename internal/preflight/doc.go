// Package preflight provides readiness checks for the binaries, directories,
// and notification endpoint speakcoach depends on.
//
// These checks run in two contexts:
//   - "speakcoach check" prints every result.
//   - "speakcoach analyze" runs RunAll before loading a model and refuses to
//     start when a required check fails, so a missing ffmpeg is reported up
//     front instead of after a slow model load.
//
// Optional checks (nvidia-smi, ntfy) never block an analysis.
package preflight
