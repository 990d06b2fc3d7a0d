package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"k8s.io/klog/v2"
)

// Sentinel errors for common conditions.
// Use errors.Is() to check for these rather than string matching.
var (
	// ErrInvalidParameter indicates an invalid parameter was provided
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAllocationFailed indicates no usable mount target could be allocated
	ErrAllocationFailed = errors.New("mountpoint allocation failed")

	// ErrMountFailed indicates a mount command ran and reported failure
	ErrMountFailed = errors.New("mount failed")

	// ErrUnmountFailed indicates an unmount command ran and reported failure
	ErrUnmountFailed = errors.New("unmount failed")

	// ErrListFailed indicates the mount listing command ran and reported failure
	ErrListFailed = errors.New("mount listing failed")

	// ErrProcessSpawn indicates an external tool could not be launched at all
	ErrProcessSpawn = errors.New("process spawn failed")
)

// SanitizedError is a validation error whose message is safe to hand to a
// host integration layer. The internal context is only written to logs.
type SanitizedError struct {
	// Original error (kept for logging)
	originalErr error

	// Sanitized message (safe for user consumption)
	sanitizedMsg string

	// Additional context for logging only
	internalContext map[string]string
}

// Error implements the error interface, returning the sanitized message
func (e *SanitizedError) Error() string {
	return e.sanitizedMsg
}

// Unwrap returns the original error for error unwrapping
func (e *SanitizedError) Unwrap() error {
	return e.originalErr
}

// Log logs the full error details
func (e *SanitizedError) Log() {
	msg := fmt.Sprintf("Error: %s", e.sanitizedMsg)
	if e.originalErr != nil {
		msg = fmt.Sprintf("%s (internal: %v)", msg, e.originalErr)
	}
	if len(e.internalContext) > 0 {
		msg = fmt.Sprintf("%s context=%v", msg, e.internalContext)
	}
	klog.V(4).Infof("[VALIDATION ERROR] %s", msg)
}

// NewValidationError creates a validation error (safe to show to users).
// The result matches ErrInvalidParameter under errors.Is.
func NewValidationError(field, reason string) *SanitizedError {
	msg := fmt.Sprintf("validation failed for %s: %s", field, reason)

	return &SanitizedError{
		originalErr:  fmt.Errorf("%w: %s: %s", ErrInvalidParameter, field, reason),
		sanitizedMsg: msg,
		internalContext: map[string]string{
			"field":  field,
			"reason": reason,
		},
	}
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var se *SanitizedError
	return errors.As(err, &se)
}

// redactedPlaceholder replaces secrets in anything that reaches a log line
const redactedPlaceholder = "[REDACTED]"

var (
	// Match password=<value> inside a mount option list (cifs -o)
	passwordOptionPattern = regexp.MustCompile(`(password=)[^,\s]*`)

	// Match the password part of //user:password@host (smbfs URL form)
	urlPasswordPattern = regexp.MustCompile(`(//[^/:@\s]+:)[^@\s]*(@)`)
)

// RedactSecret removes credentials from a single string. Known secret values
// are replaced wherever they occur; password options and URL passwords are
// replaced by pattern.
func RedactSecret(s string, secrets ...string) string {
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		s = strings.ReplaceAll(s, secret, redactedPlaceholder)
	}
	s = passwordOptionPattern.ReplaceAllString(s, "${1}"+redactedPlaceholder)
	s = urlPasswordPattern.ReplaceAllString(s, "${1}"+redactedPlaceholder+"${2}")
	return s
}

// RedactArgs returns a copy of args safe for logging
func RedactArgs(args []string, secrets ...string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = RedactSecret(arg, secrets...)
	}
	return out
}

// LogErrorDetails logs the full error details for debugging
func LogErrorDetails(err error) {
	if err == nil {
		return
	}

	var se *SanitizedError
	if errors.As(err, &se) {
		se.Log()
	} else {
		klog.Errorf("Error: %v", err)
	}
}
