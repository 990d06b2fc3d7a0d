package mount

import (
	"github.com/moby/sys/mountinfo"
)

// isLikelyMountPoint checks whether something is mounted at path
func isLikelyMountPoint(path string) (bool, error) {
	return mountinfo.Mounted(path)
}
