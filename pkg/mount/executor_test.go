package mount

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// mockExecCommand creates a mock exec.Cmd for testing
func mockExecCommand(stdout, stderr string, exitCode int) func(string, ...string) *exec.Cmd {
	return func(command string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", command}
		cs = append(cs, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			"STDOUT=" + stdout,
			"STDERR=" + stderr,
			"EXIT_CODE=" + fmt.Sprintf("%d", exitCode),
		}
		return cmd
	}
}

// TestHelperProcess is used by mockExecCommand to simulate command execution
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	// Output mock data
	_, _ = os.Stdout.WriteString(os.Getenv("STDOUT"))
	_, _ = os.Stderr.WriteString(os.Getenv("STDERR"))

	// Exit with specified code
	exitCode, _ := strconv.Atoi(os.Getenv("EXIT_CODE"))
	os.Exit(exitCode)
}

func TestExecuteCapturesOutput(t *testing.T) {
	tests := []struct {
		name        string
		stdout      string
		stderr      string
		exitCode    int
		wantSuccess bool
	}{
		{
			name:        "success with stdout",
			stdout:      "//nas/media on /mnt/m type cifs (rw)",
			exitCode:    0,
			wantSuccess: true,
		},
		{
			name:        "failure keeps stderr",
			stderr:      "mount error(13): Permission denied",
			exitCode:    32,
			wantSuccess: false,
		},
		{
			name:        "failure with both streams",
			stdout:      "partial",
			stderr:      "System error 53 has occurred.",
			exitCode:    2,
			wantSuccess: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &execExecutor{
				execCommand: mockExecCommand(tt.stdout, tt.stderr, tt.exitCode),
			}

			result, err := e.Execute(context.Background(), newCommand("mount", "-t", "cifs"))
			if err != nil {
				t.Fatalf("Execute returned error: %v", err)
			}
			if result.Success != tt.wantSuccess {
				t.Errorf("Success = %v, want %v", result.Success, tt.wantSuccess)
			}
			if result.Stdout != tt.stdout {
				t.Errorf("Stdout = %q, want %q", result.Stdout, tt.stdout)
			}
			if result.Stderr != tt.stderr {
				t.Errorf("Stderr = %q, want %q", result.Stderr, tt.stderr)
			}
		})
	}
}

func TestExecuteSpawnFailure(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tool")
	e := &execExecutor{
		execCommand: func(string, ...string) *exec.Cmd {
			return exec.Command(missing)
		},
	}

	result, err := e.Execute(context.Background(), newCommand("net", "use"))
	if err == nil {
		t.Fatalf("expected spawn error, got result %+v", result)
	}

	var spawnErr *ProcessSpawnError
	if !errors.As(err, &spawnErr) {
		t.Fatalf("expected *ProcessSpawnError, got %T: %v", err, err)
	}
	if spawnErr.Command != "net" {
		t.Errorf("Command = %q, want net", spawnErr.Command)
	}
	if !errors.Is(err, utils.ErrProcessSpawn) {
		t.Error("spawn error should match utils.ErrProcessSpawn")
	}
}

func TestExecuteCancelledBeforeLaunch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := &execExecutor{
		execCommand: func(string, ...string) *exec.Cmd {
			t.Fatal("no process may be spawned after cancellation")
			return nil
		},
	}

	if _, err := e.Execute(ctx, newCommand("umount", "/mnt/x")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
