// Package engine selects and loads speech-to-text engine configurations.
//
// Resolve maps a performance Tier and the host's hardware Capabilities to a
// ModelConfig (model, device, precision). Loader opens engines through an
// Opener, caches one Engine per ModelConfig, and degrades exactly once to the
// minimal configuration (smallest model, CPU, int8) when a load or
// transcription fails with resource exhaustion. Every other failure is
// surfaced without retry.
//
// Adapters report resource exhaustion by returning a *ResourceExhaustedError,
// usually built with ClassifyFailure from the engine's error output.
package engine
