// Package services defines shared utilities consumed by the analysis pipeline
// and the external tool adapters.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that classify failures
//     into the user-facing categories (input, too short, resource exhaustion,
//     fatal load, unexpected).
//   - UserMessage, the single translation point from an error chain to the
//     one-line message shown to end users.
//
// Adapters and orchestrators should tag failures with these markers instead of
// inventing ad-hoc error strings so the CLI can report them uniformly.
package services
