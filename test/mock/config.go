// Package mock provides an environment-configurable simulated host for testing
// the share manager without running native mount tools.
//
// Environment Variables:
//
// Timing Control:
//   - MOCK_SMB_REALISTIC_TIMING: Enable realistic timing simulation (default: false)
//   - MOCK_SMB_MOUNT_DELAY_MS: Mount command delay in ms (default: 400)
//   - MOCK_SMB_UNMOUNT_DELAY_MS: Unmount command delay in ms (default: 150)
//   - MOCK_SMB_LIST_DELAY_MS: Listing command delay in ms (default: 20)
//
// Error Injection:
//   - MOCK_SMB_ERROR_MODE: Error injection mode (none|permission_denied|host_unreachable|spawn_fail)
//   - MOCK_SMB_ERROR_AFTER_N: Fail after N operations (default: 0 = immediate)
//
// Observability:
//   - MOCK_SMB_ENABLE_HISTORY: Enable command history tracking (default: true)
//   - MOCK_SMB_HISTORY_DEPTH: Maximum history entries (default: 100)
package mock

import (
	"os"
	"strconv"
)

// MockHostConfig holds configuration for simulated host behavior
type MockHostConfig struct {
	// Timing control
	RealisticTiming bool // MOCK_SMB_REALISTIC_TIMING (default: false)
	MountDelayMs    int  // MOCK_SMB_MOUNT_DELAY_MS (default: 400)
	UnmountDelayMs  int  // MOCK_SMB_UNMOUNT_DELAY_MS (default: 150)
	ListDelayMs     int  // MOCK_SMB_LIST_DELAY_MS (default: 20)

	// Error injection
	ErrorMode   string // MOCK_SMB_ERROR_MODE (none|permission_denied|host_unreachable|spawn_fail)
	ErrorAfterN int    // MOCK_SMB_ERROR_AFTER_N (fail after N operations, default: 0 = immediate)

	// Observability
	EnableHistory bool // MOCK_SMB_ENABLE_HISTORY (default: true)
	HistoryDepth  int  // MOCK_SMB_HISTORY_DEPTH (default: 100)
}

// LoadConfigFromEnv loads simulated host configuration from environment variables
func LoadConfigFromEnv() MockHostConfig {
	return MockHostConfig{
		RealisticTiming: getEnvBool("MOCK_SMB_REALISTIC_TIMING", false),
		MountDelayMs:    getEnvInt("MOCK_SMB_MOUNT_DELAY_MS", 400),
		UnmountDelayMs:  getEnvInt("MOCK_SMB_UNMOUNT_DELAY_MS", 150),
		ListDelayMs:     getEnvInt("MOCK_SMB_LIST_DELAY_MS", 20),
		ErrorMode:       getEnvString("MOCK_SMB_ERROR_MODE", "none"),
		ErrorAfterN:     getEnvInt("MOCK_SMB_ERROR_AFTER_N", 0),
		EnableHistory:   getEnvBool("MOCK_SMB_ENABLE_HISTORY", true),
		HistoryDepth:    getEnvInt("MOCK_SMB_HISTORY_DEPTH", 100),
	}
}

// getEnvBool reads a boolean environment variable with a default value
func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1" || val == "yes"
}

// getEnvInt reads an integer environment variable with a default value
func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return i
}

// getEnvString reads a string environment variable with a default value
func getEnvString(key string, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}
