// Package audio decodes recorded answers into mono floating-point waveforms.
//
// Decoding is delegated to ffmpeg, which resamples any container it can read
// to 16 kHz mono signed 16-bit PCM on stdout. DecodePCM converts that byte
// stream into a Waveform the acoustic analyzer consumes.
//
// Key types:
//   - Waveform: normalized samples in [-1, 1] plus their sample rate
//
// Primary entry points:
//   - Decode: runs ffmpeg and returns the Waveform
//   - DecodePCM: converts raw s16le bytes without spawning a process
package audio
