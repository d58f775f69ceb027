// Package pipeline runs one recording through speakcoach end to end.
//
// Processor.Process validates the input with ffprobe, probes the hardware,
// resolves the requested tier to an engine configuration, loads (or reuses)
// the engine, transcribes, decodes the waveform, and scores the result. It is
// the error boundary for the whole run: every failure, panics included, comes
// back in Result.Err tagged with a services marker so callers can map it to a
// single user-facing message.
package pipeline
