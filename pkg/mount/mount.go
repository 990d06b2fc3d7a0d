package mount

import (
	"context"
	"fmt"

	"k8s.io/klog/v2"
)

// Mounter issues native mount, unmount and listing commands
type Mounter interface {
	// Mount attaches req.Server at mountpoint and returns a confirmation
	Mount(ctx context.Context, req MountRequest, mountpoint string) (string, error)

	// Unmount detaches mountpoint and returns a confirmation
	Unmount(ctx context.Context, mountpoint string) (string, error)

	// List returns the SMB shares the OS currently reports as mounted
	List(ctx context.Context) ([]MountRecord, error)
}

// mounter implements Mounter interface with a platform driver and an executor
type mounter struct {
	driver   Driver
	executor Executor
}

// NewMounter creates a new share mounter
func NewMounter(driver Driver, executor Executor) Mounter {
	return &mounter{
		driver:   driver,
		executor: executor,
	}
}

// Mount runs the platform mount command once. Mounting over an existing mount
// is not special-cased; whatever the native tool reports is returned.
func (m *mounter) Mount(ctx context.Context, req MountRequest, mountpoint string) (string, error) {
	klog.V(2).Infof("Mounting %s to %s (platform: %s)", req.Server, mountpoint, m.driver.Platform())

	cmd, err := m.driver.MountCommand(req, mountpoint)
	if err != nil {
		return "", fmt.Errorf("invalid mount request: %w", err)
	}

	if _, err := m.run(ctx, OperationMount, cmd); err != nil {
		return "", err
	}

	klog.V(2).Infof("Successfully mounted %s to %s", req.Server, mountpoint)
	return fmt.Sprintf("Mounted %s to %s", req.Server, mountpoint), nil
}

// Unmount runs the platform unmount command once
func (m *mounter) Unmount(ctx context.Context, mountpoint string) (string, error) {
	klog.V(2).Infof("Unmounting %s", mountpoint)

	if _, err := m.run(ctx, OperationUnmount, m.driver.UnmountCommand(mountpoint)); err != nil {
		return "", err
	}

	klog.V(2).Infof("Successfully unmounted %s", mountpoint)
	return fmt.Sprintf("Unmounted %s", mountpoint), nil
}

// List runs the platform listing command and parses its output
func (m *mounter) List(ctx context.Context) ([]MountRecord, error) {
	result, err := m.run(ctx, OperationList, m.driver.ListCommand())
	if err != nil {
		return nil, err
	}

	records := m.driver.ParseList(result.Stdout)
	klog.V(4).Infof("Found %d mounted SMB shares", len(records))
	return records, nil
}

// run executes cmd and converts a non-zero exit into a CommandFailedError
func (m *mounter) run(ctx context.Context, op Operation, cmd Command) (*CommandResult, error) {
	result, err := m.executor.Execute(ctx, cmd)
	if err != nil {
		return nil, err
	}

	if !result.Success {
		klog.V(4).Infof("%s failed: %s", cmd, result.Stderr)
		return nil, &CommandFailedError{
			Op:      op,
			Command: cmd.String(),
			Stderr:  result.Stderr,
		}
	}

	return result, nil
}
