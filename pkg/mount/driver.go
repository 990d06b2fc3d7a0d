package mount

import (
	"fmt"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Driver builds the native commands for one platform and understands the
// output of its listing tool
type Driver interface {
	// Platform returns the platform this driver targets
	Platform() Platform

	// MountCommand builds the command attaching req.Server at mountpoint
	MountCommand(req MountRequest, mountpoint string) (Command, error)

	// UnmountCommand builds the command detaching mountpoint
	UnmountCommand(mountpoint string) Command

	// ListCommand builds the command that prints the current mounts
	ListCommand() Command

	// ParseList extracts SMB mounts from the listing command's stdout
	ParseList(stdout string) []MountRecord
}

// NewDriver returns the driver for platform
func NewDriver(platform Platform) (Driver, error) {
	switch platform {
	case PlatformWindows:
		return &netUseDriver{}, nil
	case PlatformMacOS:
		return &smbfsDriver{}, nil
	case PlatformLinux:
		return &cifsDriver{}, nil
	default:
		return nil, fmt.Errorf("no mount driver for platform %q", platform)
	}
}

// validateCredentials checks the username and password of req for platform.
// mount -o takes a comma-separated list on Linux, so a comma in either value
// is rejected there as well.
func validateCredentials(platform Platform, req MountRequest) error {
	check := utils.ValidateCredential
	if platform == PlatformLinux {
		check = utils.ValidateOptionValue
	}
	if err := check("username", req.Username); err != nil {
		return err
	}
	return check("password", req.Password)
}
