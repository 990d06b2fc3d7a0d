// Package security writes an audit trail of share operations.
//
// Every mount and unmount produces one [SECURITY] log line carrying the
// operation id, share, mountpoint, SMB user and outcome. Passwords never
// reach an event: error text is passed through utils.RedactSecret.
package security

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Logger provides centralized security event logging
type Logger struct {
	// output receives formatted lines; defaults to klog by severity
	output func(severity EventSeverity, msg string)
}

// NewLogger creates a new security logger writing to klog
func NewLogger() *Logger {
	return &Logger{output: logToKlog}
}

// severityMap maps EventSeverity to a klog logging function
var severityMap = map[EventSeverity]func(args ...interface{}){
	SeverityInfo:    func(args ...interface{}) { klog.V(2).Info(args...) },
	SeverityWarning: klog.Warning,
	SeverityError:   klog.Error,
}

func logToKlog(severity EventSeverity, msg string) {
	logFunc, ok := severityMap[severity]
	if !ok {
		logFunc = severityMap[SeverityInfo]
	}
	logFunc(msg)
}

// LogEvent logs a security event with structured logging
func (l *Logger) LogEvent(event *SecurityEvent) {
	l.output(event.Severity, formatLogMessage(event))
}

// formatLogMessage formats a security event as a structured log message
func formatLogMessage(event *SecurityEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[SECURITY] category=%s type=%s severity=%s outcome=%s msg=%q",
		event.Category, event.EventType, event.Severity, event.Outcome, event.Message)

	if event.OperationID != "" {
		fmt.Fprintf(&b, " op=%s", event.OperationID)
	}
	if event.Username != "" {
		fmt.Fprintf(&b, " username=%q", event.Username)
	}
	if event.Server != "" {
		fmt.Fprintf(&b, " server=%q", event.Server)
	}
	if event.Mountpoint != "" {
		fmt.Fprintf(&b, " mountpoint=%q", event.Mountpoint)
	}
	if event.Duration > 0 {
		fmt.Fprintf(&b, " duration_ms=%d", event.Duration.Milliseconds())
	}
	if event.Error != "" {
		fmt.Fprintf(&b, " error=%q", event.Error)
	}

	// Sorted for stable output
	keys := make([]string, 0, len(event.Details))
	for key := range event.Details {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, " %s=%q", key, event.Details[key])
	}

	fmt.Fprintf(&b, " timestamp=%s", event.Timestamp.Format("2006-01-02T15:04:05.000Z"))
	return b.String()
}

// ShareOperation describes one finished mount or unmount for auditing
type ShareOperation struct {
	OperationID string
	Server      string
	Username    string
	Password    string // only used to redact error text
	Mountpoint  string
	Duration    time.Duration
	Err         error
}

// LogShareMount logs the outcome of a mount
func (l *Logger) LogShareMount(op ShareOperation) {
	l.logShareOperation(EventShareMount, "Share mount", op)
}

// LogShareUnmount logs the outcome of an unmount
func (l *Logger) LogShareUnmount(op ShareOperation) {
	l.logShareOperation(EventShareUnmount, "Share unmount", op)
}

func (l *Logger) logShareOperation(eventType EventType, what string, op ShareOperation) {
	severity, outcome, category := SeverityInfo, OutcomeSuccess, CategoryShareOperation
	message := what + " succeeded"

	switch {
	case op.Err == nil:
	case utils.IsValidationError(op.Err):
		severity, outcome, category = SeverityWarning, OutcomeDenied, CategorySecurityViolation
		eventType = EventValidationFailure
		message = what + " rejected"
	default:
		severity, outcome = SeverityError, OutcomeFailure
		message = what + " failed"
	}

	event := NewSecurityEvent(eventType, category, severity, message).
		WithOutcome(outcome).
		WithIdentity(op.OperationID, op.Username).
		WithShare(op.Server, op.Mountpoint).
		WithDuration(op.Duration)

	if op.Err != nil {
		event.Error = utils.RedactSecret(op.Err.Error(), op.Password)
	}

	l.LogEvent(event)
}
