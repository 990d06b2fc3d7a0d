package mount

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform identifies the family of native mount tools to drive
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformMacOS   Platform = "macos"
	PlatformLinux   Platform = "linux"
)

// HostPlatform returns the platform of the running process. Anything that is
// neither Windows nor macOS is driven with the Linux tool set.
func HostPlatform() Platform {
	return platformForGOOS(runtime.GOOS)
}

func platformForGOOS(goos string) Platform {
	switch goos {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformLinux
	}
}

// ParsePlatform converts a configuration value to a Platform.
// "darwin" is accepted as an alias for macOS.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "windows":
		return PlatformWindows, nil
	case "macos", "darwin":
		return PlatformMacOS, nil
	case "linux":
		return PlatformLinux, nil
	default:
		return "", fmt.Errorf("unknown platform %q (expected windows, macos or linux)", s)
	}
}

// IsWindows reports whether mount targets are drive letters
func (p Platform) IsWindows() bool {
	return p == PlatformWindows
}

func (p Platform) String() string {
	return string(p)
}
