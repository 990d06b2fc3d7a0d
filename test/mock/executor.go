package mock

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

// CommandRecord tracks one command seen by the simulated host
type CommandRecord struct {
	Timestamp time.Time
	Command   string // redacted command line
	Success   bool
}

type mountEntry struct {
	server     string
	mountpoint string
}

// MockExecutor is a mount.Executor that simulates a host's native SMB tools.
// It keeps its own mount table, answers mount, unmount and listing commands
// the way the platform's tools do, and records every command it receives.
type MockExecutor struct {
	mu sync.Mutex

	platform mount.Platform
	mounts   []mountEntry

	injector *ErrorInjector
	timing   *TimingSimulator

	// Scripted results are returned before any simulation
	scripted []mount.CommandResult

	enableHistory bool
	historyDepth  int
	history       []CommandRecord
}

// NewMockExecutor creates a simulated host for platform configured from the
// environment
func NewMockExecutor(platform mount.Platform) *MockExecutor {
	return NewMockExecutorWithConfig(platform, LoadConfigFromEnv())
}

// NewMockExecutorWithConfig creates a simulated host with explicit configuration
func NewMockExecutorWithConfig(platform mount.Platform, config MockHostConfig) *MockExecutor {
	return &MockExecutor{
		platform:      platform,
		injector:      NewErrorInjector(config),
		timing:        NewTimingSimulator(config),
		enableHistory: config.EnableHistory,
		historyDepth:  config.HistoryDepth,
	}
}

// Platform returns the platform being simulated
func (m *MockExecutor) Platform() mount.Platform {
	return m.platform
}

// Execute implements mount.Executor
func (m *MockExecutor) Execute(ctx context.Context, cmd mount.Command) (*mount.CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	op := m.classify(cmd)
	m.timing.SimulateCommand(op)

	if m.injector.ShouldFailSpawn() {
		m.recordCommand(cmd, false)
		return nil, &mount.ProcessSpawnError{Command: cmd.Name, Err: exec.ErrNotFound}
	}

	if len(m.scripted) > 0 {
		result := m.scripted[0]
		m.scripted = m.scripted[1:]
		m.recordCommand(cmd, result.Success)
		return &result, nil
	}

	var result *mount.CommandResult
	switch op {
	case "mount":
		result = m.simulateMount(cmd)
	case "unmount":
		result = m.simulateUnmount(cmd)
	case "list":
		result = &mount.CommandResult{Success: true, Stdout: m.renderListing()}
	default:
		m.recordCommand(cmd, false)
		return nil, &mount.ProcessSpawnError{Command: cmd.Name, Err: exec.ErrNotFound}
	}

	klog.V(4).Infof("Mock host: %s -> success=%t", cmd, result.Success)
	m.recordCommand(cmd, result.Success)
	return result, nil
}

// classify maps a command onto mount, unmount, list or "" for a tool the
// simulated platform does not have
func (m *MockExecutor) classify(cmd mount.Command) string {
	if m.platform.IsWindows() {
		if cmd.Name != "net" || len(cmd.Args) == 0 || cmd.Args[0] != "use" {
			return ""
		}
		switch {
		case len(cmd.Args) == 1:
			return "list"
		case len(cmd.Args) == 3 && cmd.Args[2] == "/delete":
			return "unmount"
		case len(cmd.Args) >= 3:
			return "mount"
		}
		return ""
	}

	switch {
	case cmd.Name == "mount" && len(cmd.Args) == 0:
		return "list"
	case cmd.Name == "mount" && len(cmd.Args) >= 4 && cmd.Args[0] == "-t":
		return "mount"
	case cmd.Name == "umount" && len(cmd.Args) == 1:
		return "unmount"
	}
	return ""
}

func (m *MockExecutor) simulateMount(cmd mount.Command) *mount.CommandResult {
	var server, mountpoint string

	if m.platform.IsWindows() {
		mountpoint, server = cmd.Args[1], cmd.Args[2]
		if m.indexOf(mountpoint) >= 0 {
			return failed("System error 85 has occurred.\r\n\r\nThe local device name is already in use.\r\n")
		}
	} else {
		fsType := cmd.Args[1]
		if want := m.fsType(); fsType != want {
			return failed(fmt.Sprintf("mount: unknown filesystem type '%s'.\n", fsType))
		}
		server, mountpoint = stripURLPassword(cmd.Args[2]), cmd.Args[3]
	}

	if fail, stderr := m.injector.ShouldFailMount(m.platform); fail {
		return failed(stderr)
	}

	// A Unix mount over an existing one hides it; the latest entry wins
	if i := m.indexOf(mountpoint); i >= 0 {
		m.mounts = append(m.mounts[:i], m.mounts[i+1:]...)
	}
	m.mounts = append(m.mounts, mountEntry{server: server, mountpoint: mountpoint})

	if m.platform.IsWindows() {
		return &mount.CommandResult{Success: true, Stdout: "The command completed successfully.\r\n"}
	}
	return &mount.CommandResult{Success: true}
}

func (m *MockExecutor) simulateUnmount(cmd mount.Command) *mount.CommandResult {
	mountpoint := cmd.Args[0]
	if m.platform.IsWindows() {
		mountpoint = cmd.Args[1]
	}

	i := m.indexOf(mountpoint)
	if i < 0 {
		switch m.platform {
		case mount.PlatformWindows:
			return failed("The network connection could not be found.\r\n\r\nMore help is available by typing NET HELPMSG 2250.\r\n")
		case mount.PlatformMacOS:
			return failed(fmt.Sprintf("umount: %s: not currently mounted\n", mountpoint))
		default:
			return failed(fmt.Sprintf("umount: %s: not mounted.\n", mountpoint))
		}
	}

	m.mounts = append(m.mounts[:i], m.mounts[i+1:]...)

	if m.platform.IsWindows() {
		return &mount.CommandResult{Success: true, Stdout: mountpoint + " was deleted successfully.\r\n"}
	}
	return &mount.CommandResult{Success: true}
}

// renderListing prints the mount table in the column order the listing
// parser reads. Non-SMB entries are mixed in on Unix hosts.
func (m *MockExecutor) renderListing() string {
	var b strings.Builder

	if m.platform.IsWindows() {
		b.WriteString("New connections will be remembered.\r\n\r\n")
		b.WriteString("Local     Status       Remote                    Network\r\n")
		b.WriteString("-------------------------------------------------------------------------------\r\n")
		for _, e := range m.mounts {
			fmt.Fprintf(&b, "%-9s OK           %-25s Microsoft Windows Network\r\n", e.mountpoint, e.server)
		}
		b.WriteString("The command completed successfully.\r\n")
		return b.String()
	}

	b.WriteString("/dev/sda1 on / type ext4 (rw,relatime)\n")
	b.WriteString("proc on /proc type proc (rw,nosuid,nodev,noexec,relatime)\n")
	for _, e := range m.mounts {
		if m.platform == mount.PlatformMacOS {
			fmt.Fprintf(&b, "%s on %s type smbfs (nodev,nosuid,mounted by user)\n", e.server, e.mountpoint)
		} else {
			fmt.Fprintf(&b, "%s on %s type cifs (rw,relatime,vers=3.1.1,cache=strict)\n", e.server, e.mountpoint)
		}
	}
	b.WriteString("tmpfs on /run type tmpfs (rw,nosuid,nodev,mode=755)\n")
	return b.String()
}

func (m *MockExecutor) fsType() string {
	if m.platform == mount.PlatformMacOS {
		return "smbfs"
	}
	return "cifs"
}

func (m *MockExecutor) indexOf(mountpoint string) int {
	for i, e := range m.mounts {
		if e.mountpoint == mountpoint {
			return i
		}
	}
	return -1
}

// recordCommand adds a command to history (caller must hold lock)
func (m *MockExecutor) recordCommand(cmd mount.Command, success bool) {
	if !m.enableHistory {
		return
	}

	m.history = append(m.history, CommandRecord{
		Timestamp: time.Now(),
		Command:   cmd.String(),
		Success:   success,
	})

	if m.historyDepth > 0 && len(m.history) > m.historyDepth {
		m.history = m.history[len(m.history)-m.historyDepth:]
	}
}

// stripURLPassword removes the password from //user:password@host/share, as
// the platform's mount table never shows it
func stripURLPassword(source string) string {
	at := strings.Index(source, "@")
	if !strings.HasPrefix(source, "//") || at < 0 {
		return source
	}
	auth := source[2:at]
	if colon := strings.Index(auth, ":"); colon >= 0 {
		auth = auth[:colon]
	}
	return "//" + auth + source[at:]
}

func failed(stderr string) *mount.CommandResult {
	return &mount.CommandResult{Success: false, Stderr: stderr}
}

// Test helper methods

// QueueResult makes the next command return result instead of being simulated
func (m *MockExecutor) QueueResult(result mount.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scripted = append(m.scripted, result)
}

// AddMount seeds the mount table with an existing share
func (m *MockExecutor) AddMount(server, mountpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounts = append(m.mounts, mountEntry{server: server, mountpoint: mountpoint})
}

// MountedServer returns the server mounted at mountpoint
func (m *MockExecutor) MountedServer(mountpoint string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(mountpoint); i >= 0 {
		return m.mounts[i].server, true
	}
	return "", false
}

// MountCount returns the number of shares in the mount table
func (m *MockExecutor) MountCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.mounts)
}

// GetCommandHistory returns a copy of all commands executed
func (m *MockExecutor) GetCommandHistory() []CommandRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	history := make([]CommandRecord, len(m.history))
	copy(history, m.history)
	return history
}

// ClearCommandHistory clears the command history
func (m *MockExecutor) ClearCommandHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = nil
}

// SetErrorMode changes error injection at runtime
func (m *MockExecutor) SetErrorMode(mode ErrorMode) {
	m.injector.SetMode(mode)
}

// Reset clears mounts, scripted results, history and the error counter
func (m *MockExecutor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mounts = nil
	m.scripted = nil
	m.history = nil
	m.injector.Reset()
}
