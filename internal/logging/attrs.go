package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSessionID is the standardized structured logging key for capture-session identifiers.
	FieldSessionID = "session_id"
	// FieldTrack is the standardized structured logging key for subtitle track keys.
	FieldTrack = "track"
	// FieldWindow is the standardized structured logging key for DOM caption window ids.
	FieldWindow = "window"
	// FieldCueID is the standardized structured logging key for cue identifiers.
	FieldCueID = "cue_id"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)
