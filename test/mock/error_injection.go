package mock

import (
	"sync"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

// ErrorMode defines the type of error to inject
type ErrorMode int

const (
	// ErrorModeNone indicates no error injection
	ErrorModeNone ErrorMode = iota
	// ErrorModePermissionDenied simulates rejected credentials on mount
	ErrorModePermissionDenied
	// ErrorModeHostUnreachable simulates a server that cannot be reached on mount
	ErrorModeHostUnreachable
	// ErrorModeSpawnFail simulates a native tool that cannot be launched
	ErrorModeSpawnFail
)

// ErrorInjector manages error injection for testing
type ErrorInjector struct {
	mode         ErrorMode
	operationNum int
	triggerAfter int
	mu           sync.Mutex // Protect operation counter
}

// NewErrorInjector creates a new error injector from configuration
func NewErrorInjector(config MockHostConfig) *ErrorInjector {
	mode := ParseErrorMode(config.ErrorMode)
	return &ErrorInjector{
		mode:         mode,
		triggerAfter: config.ErrorAfterN,
	}
}

// ParseErrorMode converts string error mode to ErrorMode constant
func ParseErrorMode(s string) ErrorMode {
	switch s {
	case "permission_denied":
		return ErrorModePermissionDenied
	case "host_unreachable":
		return ErrorModeHostUnreachable
	case "spawn_fail":
		return ErrorModeSpawnFail
	case "none", "":
		return ErrorModeNone
	default:
		klog.Warningf("Unknown error mode %q, using none", s)
		return ErrorModeNone
	}
}

// ShouldFailSpawn returns true if the next command should fail to launch
func (e *ErrorInjector) ShouldFailSpawn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ErrorModeSpawnFail {
		return false
	}

	e.operationNum++
	return e.operationNum > e.triggerAfter
}

// ShouldFailMount returns whether a mount should fail and the stderr the
// platform's native tool would print
func (e *ErrorInjector) ShouldFailMount(platform mount.Platform) (bool, string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ErrorModePermissionDenied && e.mode != ErrorModeHostUnreachable {
		return false, ""
	}

	e.operationNum++
	if e.operationNum <= e.triggerAfter {
		return false, ""
	}

	return true, failureStderr(e.mode, platform)
}

// SetMode changes the injection mode and restarts the operation counter
func (e *ErrorInjector) SetMode(mode ErrorMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mode = mode
	e.operationNum = 0
}

// Reset resets the operation counter for test isolation
func (e *ErrorInjector) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.operationNum = 0
}

func failureStderr(mode ErrorMode, platform mount.Platform) string {
	switch mode {
	case ErrorModePermissionDenied:
		switch platform {
		case mount.PlatformWindows:
			return PermissionDeniedWindows
		case mount.PlatformMacOS:
			return PermissionDeniedMacOS
		default:
			return PermissionDeniedLinux
		}
	case ErrorModeHostUnreachable:
		switch platform {
		case mount.PlatformWindows:
			return "System error 53 has occurred.\r\n\r\nThe network path was not found.\r\n"
		case mount.PlatformMacOS:
			return "mount_smbfs: server connection failed: No route to host\n"
		default:
			return "mount error(113): could not connect to the server\n"
		}
	default:
		return ""
	}
}

// Stderr printed by each platform's mount tool when credentials are rejected
const (
	PermissionDeniedLinux   = "mount error(13): Permission denied"
	PermissionDeniedMacOS   = "mount_smbfs: server rejected the connection: Authentication error\n"
	PermissionDeniedWindows = "System error 86 has occurred.\r\n\r\nThe specified network password is not correct.\r\n"
)
