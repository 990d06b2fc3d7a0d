package mount

// MountRequest asks for a remote share to be attached.
// Empty optional fields are treated as absent.
type MountRequest struct {
	// Server is the network address, //host/share or \\host\share
	Server string

	// Username and Password are optional credentials
	Username string
	Password string

	// Mountpoint is an optional caller-chosen target: a drive letter on
	// Windows, a directory elsewhere
	Mountpoint string
}

// MountResult describes a successful mount. Mountpoint is the effective
// target, whether it was requested or allocated.
type MountResult struct {
	Server     string `json:"server"`
	Mountpoint string `json:"mountpoint"`
	Message    string `json:"message"`
}

// MountRecord is one mounted share as reported by the OS listing tool
type MountRecord struct {
	Server     string `json:"server"`
	Mountpoint string `json:"mountpoint"`
}
