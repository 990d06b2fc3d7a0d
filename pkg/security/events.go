package security

import "time"

// EventCategory represents the category of a security event
type EventCategory string

const (
	// CategoryShareOperation represents share mount and unmount operations
	CategoryShareOperation EventCategory = "share_operation"

	// CategorySecurityViolation represents potential security violations
	CategorySecurityViolation EventCategory = "security_violation"
)

// EventSeverity represents the severity level of a security event
type EventSeverity string

const (
	// SeverityInfo represents informational events
	SeverityInfo EventSeverity = "info"

	// SeverityWarning represents warning events
	SeverityWarning EventSeverity = "warning"

	// SeverityError represents error events
	SeverityError EventSeverity = "error"
)

// EventOutcome represents the outcome of a security event
type EventOutcome string

const (
	// OutcomeSuccess indicates the operation succeeded
	OutcomeSuccess EventOutcome = "success"

	// OutcomeFailure indicates the operation failed
	OutcomeFailure EventOutcome = "failure"

	// OutcomeDenied indicates the request was rejected before running anything
	OutcomeDenied EventOutcome = "denied"
)

// EventType represents specific types of security events
type EventType string

const (
	// Share events
	EventShareMount   EventType = "share_mount"
	EventShareUnmount EventType = "share_unmount"

	// Security violation events
	EventValidationFailure EventType = "validation_failure"
)

// SecurityEvent represents a security-relevant event in the system
type SecurityEvent struct {
	// Core event fields
	Timestamp time.Time     `json:"timestamp"`
	EventType EventType     `json:"event_type"`
	Category  EventCategory `json:"category"`
	Severity  EventSeverity `json:"severity"`
	Outcome   EventOutcome  `json:"outcome"`
	Message   string        `json:"message"`

	// Identity fields
	OperationID string `json:"operation_id,omitempty"`
	Username    string `json:"username,omitempty"`

	// Resource fields
	Server     string `json:"server,omitempty"`
	Mountpoint string `json:"mountpoint,omitempty"`

	// Operation details
	Duration time.Duration     `json:"duration_ms,omitempty"`
	Error    string            `json:"error,omitempty"`
	Details  map[string]string `json:"details,omitempty"`
}

// NewSecurityEvent creates a new security event with timestamp
func NewSecurityEvent(eventType EventType, category EventCategory, severity EventSeverity, message string) *SecurityEvent {
	return &SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Category:  category,
		Severity:  severity,
		Message:   message,
		Details:   make(map[string]string),
	}
}

// WithOutcome sets the outcome for the event
func (e *SecurityEvent) WithOutcome(outcome EventOutcome) *SecurityEvent {
	e.Outcome = outcome
	return e
}

// WithIdentity sets the operation id and the SMB user
func (e *SecurityEvent) WithIdentity(operationID, username string) *SecurityEvent {
	e.OperationID = operationID
	e.Username = username
	return e
}

// WithShare sets the share and where it is mounted
func (e *SecurityEvent) WithShare(server, mountpoint string) *SecurityEvent {
	e.Server = server
	e.Mountpoint = mountpoint
	return e
}

// WithDuration sets how long the operation took
func (e *SecurityEvent) WithDuration(d time.Duration) *SecurityEvent {
	e.Duration = d
	return e
}

// WithError sets error information
func (e *SecurityEvent) WithError(err error) *SecurityEvent {
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// WithDetail adds a custom detail field
func (e *SecurityEvent) WithDetail(key, value string) *SecurityEvent {
	e.Details[key] = value
	return e
}
