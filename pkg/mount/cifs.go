package mount

import "strings"

// cifsDriver drives the Linux "mount -t cifs" tool
type cifsDriver struct{}

func (d *cifsDriver) Platform() Platform {
	return PlatformLinux
}

// MountCommand builds: mount -t cifs <server> <mountpoint> [-o username=<u>[,password=<p>]]
func (d *cifsDriver) MountCommand(req MountRequest, mountpoint string) (Command, error) {
	if err := validateCredentials(PlatformLinux, req); err != nil {
		return Command{}, err
	}

	args := []string{"-t", "cifs", req.Server, mountpoint}

	var options []string
	if req.Username != "" {
		options = append(options, "username="+req.Username)
	}
	if req.Password != "" {
		options = append(options, "password="+req.Password)
	}

	if len(options) > 0 {
		args = append(args, "-o", strings.Join(options, ","))
	}

	return newCommand("mount", args...).withSecrets(req.Password), nil
}

// UnmountCommand builds: umount <mountpoint>
func (d *cifsDriver) UnmountCommand(mountpoint string) Command {
	return newCommand("umount", mountpoint)
}

// ListCommand builds: mount
func (d *cifsDriver) ListCommand() Command {
	return newCommand("mount")
}

func (d *cifsDriver) ParseList(stdout string) []MountRecord {
	return parseMountList(stdout)
}
