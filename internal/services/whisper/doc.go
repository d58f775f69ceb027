// Package whisper drives the faster-whisper command line (whisper-ctranslate2,
// launched through uvx) as a speech-to-text engine.
//
// Service implements engine.Opener. Opening a model runs a short warm-up
// transcription of generated silence so download, device, and memory
// failures surface at load time, where the loader can degrade. Each
// transcription writes JSON into a scratch directory that is removed
// afterwards; segments are returned in order.
//
// Failures are passed through engine.ClassifyFailure so out-of-memory and
// CUDA library errors become *engine.ResourceExhaustedError.
package whisper
