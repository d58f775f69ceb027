package logging

// Structured field keys shared by every speakcoach log line.
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	// FieldStep is the analysis step (validate, load, transcribe, ...).
	FieldStep      = "step"
	FieldEventType = "event_type"
	FieldErrorHint = "error_hint"
	// FieldImpact says what a warning cost the analysis.
	FieldImpact = "impact"
	// FieldAlert repeats the event type on lines that should stand out,
	// such as an engine falling back to the minimal model.
	FieldAlert = "alert"
)
