package mount

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Command is one native tool invocation
type Command struct {
	Name string
	Args []string

	// values that must never be logged
	secrets []string
}

func newCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// withSecrets marks credential values carried in the arguments
func (c Command) withSecrets(secrets ...string) Command {
	c.secrets = append(c.secrets, secrets...)
	return c
}

// String returns the command line with credentials redacted
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(utils.RedactArgs(c.Args, c.secrets...), " ")
}

// CommandResult is everything captured from a finished native command
type CommandResult struct {
	Success bool
	Stdout  string
	Stderr  string
}

// Executor runs native commands
type Executor interface {
	// Execute runs cmd to completion. A command that runs and exits non-zero
	// is reported through CommandResult.Success, not as an error; the error
	// is reserved for commands that could not be started.
	Execute(ctx context.Context, cmd Command) (*CommandResult, error)
}

// execExecutor implements Executor using os/exec
type execExecutor struct {
	execCommand func(name string, args ...string) *exec.Cmd
}

// NewExecutor creates an Executor that spawns real processes
func NewExecutor() Executor {
	return &execExecutor{
		execCommand: exec.Command,
	}
}

// Execute runs the command. The context is only checked before launch:
// once the native tool is running it is never cancelled or timed out.
func (e *execExecutor) Execute(ctx context.Context, c Command) (*CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	klog.V(4).Infof("Running %s", c)

	cmd := e.execCommand(c.Name, c.Args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Success: err == nil,
		Stdout:  strings.ToValidUTF8(stdout.String(), "�"),
		Stderr:  strings.ToValidUTF8(stderr.String(), "�"),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &ProcessSpawnError{Command: c.Name, Err: err}
		}
		klog.V(4).Infof("%s exited with code %d", c.Name, exitErr.ExitCode())
	}

	klog.V(5).Infof("%s stdout: %s", c.Name, result.Stdout)
	klog.V(5).Infof("%s stderr: %s", c.Name, result.Stderr)
	return result, nil
}
