//go:build !windows

package mount

import "os"

// driveLetterInUse reports whether drive exists as a filesystem entry. Only
// reached when the platform is overridden to Windows on a non-Windows host.
func driveLetterInUse(drive string) bool {
	_, err := os.Stat(drive)
	return err == nil
}
