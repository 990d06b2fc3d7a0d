//go:build windows

package mount

import (
	"os"

	"golang.org/x/sys/windows"
	"k8s.io/klog/v2"
)

// driveLetterInUse reports whether drive ("Z:") is bound to a local disk or
// an existing network connection
func driveLetterInUse(drive string) bool {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		klog.V(4).Infof("GetLogicalDrives failed, falling back to stat: %v", err)
		_, statErr := os.Stat(drive + `\`)
		return statErr == nil
	}

	bit := uint32(1) << uint(drive[0]-'A')
	return mask&bit != 0
}
