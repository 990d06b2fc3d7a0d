package mount

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/observability"
	"git.srvlab.io/whiskey/smb-mounter/pkg/security"
	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Manager is the synchronous command surface used by host integrations
// (CLI, tool bridge). Every call is independent: it resolves a target if
// needed, runs one native command and returns.
type Manager struct {
	platform  Platform
	allocator *Allocator
	mounter   Mounter
	metrics   *observability.Metrics
	audit     *security.Logger
}

// NewManager creates a manager from its parts. The allocator decides the
// platform the manager reports.
func NewManager(allocator *Allocator, mounter Mounter) *Manager {
	return &Manager{
		platform:  allocator.Platform(),
		allocator: allocator,
		mounter:   mounter,
		audit:     security.NewLogger(),
	}
}

// NewSystemManager creates a manager that runs real native commands for platform
func NewSystemManager(platform Platform, mountRoot string) (*Manager, error) {
	driver, err := NewDriver(platform)
	if err != nil {
		return nil, err
	}
	return NewManager(NewAllocator(platform, mountRoot), NewMounter(driver, NewExecutor())), nil
}

// SetMetrics sets the Prometheus metrics instance for recording share operations
func (m *Manager) SetMetrics(metrics *observability.Metrics) {
	m.metrics = metrics
}

// Platform returns the platform the manager drives
func (m *Manager) Platform() Platform {
	return m.platform
}

// Mount attaches req.Server. The effective mountpoint, requested or
// allocated, is always part of the result.
func (m *Manager) Mount(ctx context.Context, req MountRequest) (result *MountResult, err error) {
	opID := uuid.NewString()
	start := time.Now()
	mountpoint := req.Mountpoint
	defer func() {
		m.recordOp(OperationMount, err, start)
		m.audit.LogShareMount(security.ShareOperation{
			OperationID: opID,
			Server:      req.Server,
			Username:    req.Username,
			Password:    req.Password,
			Mountpoint:  mountpoint,
			Duration:    time.Since(start),
			Err:         err,
		})
	}()

	klog.V(4).Infof("[op=%s] Mount request for %s (mountpoint: %q, username set: %t)",
		opID, req.Server, req.Mountpoint, req.Username != "")

	if err := validateMountRequest(m.platform, req); err != nil {
		return nil, err
	}

	mountpoint, err = m.allocate(req)
	if err != nil {
		klog.V(2).Infof("[op=%s] Could not allocate mountpoint for %s: %v", opID, req.Server, err)
		return nil, err
	}

	msg, err := m.mounter.Mount(ctx, req, mountpoint)
	if err != nil {
		klog.V(2).Infof("[op=%s] Mount of %s to %s failed: %v", opID, req.Server, mountpoint, err)
		return nil, err
	}

	klog.V(2).Infof("[op=%s] Mounted %s to %s", opID, req.Server, mountpoint)
	return &MountResult{
		Server:     req.Server,
		Mountpoint: mountpoint,
		Message:    msg,
	}, nil
}

// Unmount detaches mountpoint. No local bookkeeping is consulted.
func (m *Manager) Unmount(ctx context.Context, mountpoint string) (msg string, err error) {
	opID := uuid.NewString()
	start := time.Now()
	defer func() {
		m.recordOp(OperationUnmount, err, start)
		m.audit.LogShareUnmount(security.ShareOperation{
			OperationID: opID,
			Mountpoint:  mountpoint,
			Duration:    time.Since(start),
			Err:         err,
		})
	}()

	if err := utils.ValidateMountpoint(mountpoint); err != nil {
		return "", err
	}

	msg, err = m.mounter.Unmount(ctx, mountpoint)
	if err != nil {
		klog.V(2).Infof("[op=%s] Unmount of %s failed: %v", opID, mountpoint, err)
		return "", err
	}

	klog.V(2).Infof("[op=%s] Unmounted %s", opID, mountpoint)
	return msg, nil
}

// ListMounted queries the OS for mounted SMB shares. Nothing is cached.
func (m *Manager) ListMounted(ctx context.Context) (records []MountRecord, err error) {
	opID := uuid.NewString()
	start := time.Now()
	defer func() {
		m.recordOp(OperationList, err, start)
	}()

	records, err = m.mounter.List(ctx)
	if err != nil {
		klog.V(2).Infof("[op=%s] Listing mounted shares failed: %v", opID, err)
		return nil, err
	}

	if records == nil {
		records = []MountRecord{}
	}
	if m.metrics != nil {
		m.metrics.SetMountedShares(len(records))
	}

	klog.V(4).Infof("[op=%s] Listed %d mounted shares", opID, len(records))
	return records, nil
}

func (m *Manager) allocate(req MountRequest) (string, error) {
	kind := "requested"
	switch {
	case req.Mountpoint != "":
	case m.platform.IsWindows():
		kind = "drive_letter"
	default:
		kind = "directory"
	}

	mountpoint, err := m.allocator.Allocate(req.Server, req.Mountpoint)
	if m.metrics != nil {
		m.metrics.RecordAllocation(kind, err)
	}
	return mountpoint, err
}

func (m *Manager) recordOp(op Operation, err error, start time.Time) {
	if m.metrics != nil {
		m.metrics.RecordShareOp(string(op), m.platform.String(), err, time.Since(start))
	}
}

func validateMountRequest(platform Platform, req MountRequest) error {
	if err := utils.ValidateServerAddress(req.Server); err != nil {
		return fmt.Errorf("invalid mount request: %w", err)
	}
	if req.Mountpoint != "" {
		if err := utils.ValidateMountpoint(req.Mountpoint); err != nil {
			return fmt.Errorf("invalid mount request: %w", err)
		}
	}
	if err := validateCredentials(platform, req); err != nil {
		return fmt.Errorf("invalid mount request: %w", err)
	}
	return nil
}
