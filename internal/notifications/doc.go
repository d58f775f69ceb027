// Package notifications delivers analysis events via pluggable notifiers.
//
// Two transports are available: ntfy, using the topic configured in
// config.toml, and a desktop toast through beeep. NewService combines the
// enabled transports and degrades to a no-op when neither is configured.
// Callers depend only on the Service interface.
package notifications
