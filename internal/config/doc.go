// Package config loads, normalizes, and validates speakcoach configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SPEAKCOACH_NTFY_TOPIC. The Config type centralizes every knob the CLI and
// the analysis pipeline need: data directories, transcription engine models
// per performance tier, logging, and notification settings.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical tier and log format names, and clear validation
// errors.
package config
