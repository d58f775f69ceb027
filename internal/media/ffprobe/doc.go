// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// recorded answers.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties (codec, sample rate, channels)
//
// Primary entry point:
//   - Inspect: executes ffprobe and returns parsed Result
//
// Helper methods on Result locate the first audio stream and parse the
// duration and sample rate the pipeline validates before transcription.
package ffprobe
