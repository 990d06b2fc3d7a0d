package mount

import (
	"fmt"
	"strings"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// ErrNoDriveLetterAvailable is returned when every drive letter from E: to Z:
// is already bound
var ErrNoDriveLetterAvailable = fmt.Errorf("%w: no free drive letter between E: and Z:", utils.ErrAllocationFailed)

// Operation names the native command family that produced an error
type Operation string

const (
	OperationMount   Operation = "mount"
	OperationUnmount Operation = "unmount"
	OperationList    Operation = "list"
)

// AllocationError reports a mount target directory that could not be created
type AllocationError struct {
	Path string
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("failed to create mountpoint %s: %v", e.Path, e.Err)
}

// Unwrap exposes both the allocation sentinel and the underlying I/O error
func (e *AllocationError) Unwrap() []error {
	return []error{utils.ErrAllocationFailed, e.Err}
}

// CommandFailedError reports a native command that ran and exited non-zero.
// Stderr is kept verbatim; Error() returns it unchanged so host layers can
// show the native tool's own message.
type CommandFailedError struct {
	Op      Operation
	Command string // redacted command line
	Stderr  string
}

func (e *CommandFailedError) Error() string {
	if strings.TrimSpace(e.Stderr) == "" {
		return fmt.Sprintf("%s command failed: %s", e.Op, e.Command)
	}
	return e.Stderr
}

// Unwrap maps the failure onto the matching sentinel in pkg/utils
func (e *CommandFailedError) Unwrap() error {
	switch e.Op {
	case OperationMount:
		return utils.ErrMountFailed
	case OperationUnmount:
		return utils.ErrUnmountFailed
	default:
		return utils.ErrListFailed
	}
}

// ProcessSpawnError reports a native tool that could not be launched at all,
// as opposed to one that ran and failed
type ProcessSpawnError struct {
	Command string
	Err     error
}

func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("failed to start %s: %v", e.Command, e.Err)
}

func (e *ProcessSpawnError) Unwrap() []error {
	return []error{utils.ErrProcessSpawn, e.Err}
}
