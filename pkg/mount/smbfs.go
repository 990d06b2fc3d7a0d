package mount

import "strings"

// smbfsDriver drives the macOS "mount -t smbfs" tool
type smbfsDriver struct{}

func (d *smbfsDriver) Platform() Platform {
	return PlatformMacOS
}

// MountCommand builds: mount -t smbfs <auth-address> <mountpoint>
func (d *smbfsDriver) MountCommand(req MountRequest, mountpoint string) (Command, error) {
	if err := validateCredentials(PlatformMacOS, req); err != nil {
		return Command{}, err
	}

	address := smbfsAddress(req.Server, req.Username, req.Password)
	return newCommand("mount", "-t", "smbfs", address, mountpoint).withSecrets(req.Password), nil
}

// smbfsAddress embeds credentials as //user[:password]@host/share.
// Without a username the server address is used as given and a password
// alone is ignored, since smbfs has no way to express it.
func smbfsAddress(server, username, password string) string {
	if username == "" {
		return server
	}

	auth := username
	if password != "" {
		auth += ":" + password
	}

	host := server
	for strings.HasPrefix(host, "//") {
		host = host[2:]
	}

	return "//" + auth + "@" + host
}

// UnmountCommand builds: umount <mountpoint>
func (d *smbfsDriver) UnmountCommand(mountpoint string) Command {
	return newCommand("umount", mountpoint)
}

// ListCommand builds: mount
func (d *smbfsDriver) ListCommand() Command {
	return newCommand("mount")
}

func (d *smbfsDriver) ParseList(stdout string) []MountRecord {
	return parseMountList(stdout)
}
