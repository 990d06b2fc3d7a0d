package mount

// netUseDriver drives the Windows "net use" tool
type netUseDriver struct{}

func (d *netUseDriver) Platform() Platform {
	return PlatformWindows
}

// MountCommand builds: net use <mountpoint> <server> [<password>] [/user:<username>] /persistent:yes
func (d *netUseDriver) MountCommand(req MountRequest, mountpoint string) (Command, error) {
	if err := validateCredentials(PlatformWindows, req); err != nil {
		return Command{}, err
	}

	args := []string{"use", mountpoint, req.Server}

	// net use takes the password positionally, ahead of the /user switch
	if req.Password != "" {
		args = append(args, req.Password)
	}

	if req.Username != "" {
		args = append(args, "/user:"+req.Username)
	}

	args = append(args, "/persistent:yes")

	return newCommand("net", args...).withSecrets(req.Password), nil
}

// UnmountCommand builds: net use <mountpoint> /delete
func (d *netUseDriver) UnmountCommand(mountpoint string) Command {
	return newCommand("net", "use", mountpoint, "/delete")
}

// ListCommand builds: net use
func (d *netUseDriver) ListCommand() Command {
	return newCommand("net", "use")
}

func (d *netUseDriver) ParseList(stdout string) []MountRecord {
	return parseNetUseList(stdout)
}
