// Package main hosts the speakcoach CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, opens the diagnostic
// log, and hands recordings to the analysis pipeline. Rendering (tables,
// colour, the progress spinner) lives here; every scoring and engine decision
// lives in the internal packages so the CLI stays declarative.
package main
