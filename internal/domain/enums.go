package domain

// RunState is a stage of the mass update pipeline.
type RunState string

const (
	RunStateIdle             RunState = "idle"
	RunStateIngesting        RunState = "ingesting"
	RunStateReconciling      RunState = "reconciling"
	RunStateReportingInvalid RunState = "reporting_invalid"
	RunStateSubmitting       RunState = "submitting"
	RunStateDone             RunState = "done"
	RunStateFailed           RunState = "failed"
)

// Terminal reports whether no further transitions follow s.
func (s RunState) Terminal() bool {
	return s == RunStateDone || s == RunStateFailed
}

// Severity is the visual weight of a user notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// NotificationMode controls whether a notification dismisses itself.
type NotificationMode string

const (
	ModeDismissable NotificationMode = "dismissable"
	ModeSticky      NotificationMode = "sticky"
)

// Report content types.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// CSVExtension is the only accepted upload extension, compared case-insensitively.
const CSVExtension = "csv"
