// Package logging assembles the slog loggers used across speakcoach.
//
// Diagnostics owns the console/JSON handlers and the only handle to the
// day's log file, so privacy cleanup can release it before deleting the log
// directory. Scope carries the request ID and analysis step on a context,
// and Event gives every warning and error line an event type and a hint.
// PruneLogs drops daily logs older than logging.retention_days.
package logging
