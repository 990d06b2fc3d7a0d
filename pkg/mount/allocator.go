package mount

import (
	"os"
	"path"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

const (
	// DefaultMountRoot is the parent of generated mountpoints on Unix-like hosts
	DefaultMountRoot = "/mnt"

	// mountpointPerm is used for every directory the allocator creates
	mountpointPerm = 0755

	// Drive letters are scanned from lastDriveLetter down to firstDriveLetter
	// to stay clear of the low letters usually taken by local disks
	firstDriveLetter = 'E'
	lastDriveLetter  = 'Z'
)

// Allocator resolves the local target for a mount request
type Allocator struct {
	platform  Platform
	mountRoot string

	// Injected for testing
	driveInUse   func(drive string) bool
	mkdirAll     func(path string, perm os.FileMode) error
	isMountPoint func(path string) (bool, error)
}

// NewAllocator creates an allocator for platform. An empty mountRoot selects
// DefaultMountRoot.
func NewAllocator(platform Platform, mountRoot string) *Allocator {
	if mountRoot == "" {
		mountRoot = DefaultMountRoot
	}
	return &Allocator{
		platform:     platform,
		mountRoot:    mountRoot,
		driveInUse:   driveLetterInUse,
		mkdirAll:     os.MkdirAll,
		isMountPoint: isLikelyMountPoint,
	}
}

// SetDriveProbe overrides the check used to decide whether a drive letter is bound
func (a *Allocator) SetDriveProbe(fn func(drive string) bool) {
	a.driveInUse = fn
}

// Platform returns the platform the allocator computes targets for
func (a *Allocator) Platform() Platform {
	return a.platform
}

// MountRoot returns the parent directory of generated mountpoints
func (a *Allocator) MountRoot() string {
	return a.mountRoot
}

// Allocate returns the mount target for server.
//
// A requested target is returned unchanged; on Unix-like hosts its directory
// is created if missing. Without one, Windows gets the highest free drive
// letter from Z: down to E:, and other hosts get <mountRoot>/<sanitized server>,
// created if missing.
func (a *Allocator) Allocate(server, requested string) (string, error) {
	if requested != "" {
		if !a.platform.IsWindows() {
			if err := a.ensureDirectory(requested); err != nil {
				return "", err
			}
		}
		klog.V(4).Infof("Using requested mountpoint %s", requested)
		return requested, nil
	}

	if a.platform.IsWindows() {
		return a.allocateDriveLetter()
	}

	return a.allocateDirectory(server)
}

func (a *Allocator) allocateDriveLetter() (string, error) {
	for letter := lastDriveLetter; letter >= firstDriveLetter; letter-- {
		drive := string(letter) + ":"
		if a.driveInUse(drive) {
			klog.V(5).Infof("Drive %s is in use", drive)
			continue
		}
		klog.V(4).Infof("Allocated drive letter %s", drive)
		return drive, nil
	}

	return "", ErrNoDriveLetterAvailable
}

func (a *Allocator) allocateDirectory(server string) (string, error) {
	name := SanitizeServerName(server)
	if name == "" || name == "." || name == ".." {
		return "", utils.NewValidationError("server", "does not yield a usable directory name")
	}

	target := path.Join(a.mountRoot, name)
	if err := a.ensureDirectory(target); err != nil {
		return "", err
	}

	klog.V(4).Infof("Allocated mountpoint %s for %s", target, server)
	return target, nil
}

// ensureDirectory creates target and its parents if missing. An existing mount
// at target is logged but not refused; the native tool decides what happens.
func (a *Allocator) ensureDirectory(target string) error {
	if err := a.mkdirAll(target, mountpointPerm); err != nil {
		return &AllocationError{Path: target, Err: err}
	}

	if mounted, err := a.isMountPoint(target); err != nil {
		klog.V(4).Infof("Could not check whether %s is a mount point: %v", target, err)
	} else if mounted {
		klog.V(2).Infof("Mountpoint %s already has a filesystem mounted on it", target)
	}

	return nil
}
