package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/bridge"
	"git.srvlab.io/whiskey/smb-mounter/pkg/config"
	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/observability"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// errUsage marks a command line that could not be acted on
var errUsage = errors.New("usage error")

// app runs one subcommand against a share manager
type app struct {
	manager      bridge.ShareManager
	cfg          *config.Config
	stdout       io.Writer
	stderr       io.Writer
	readPassword func() (string, error)
	setMetrics   func(*observability.Metrics)
}

// run dispatches command and returns the process exit code. Operation
// failures print err.Error() unchanged, so native stderr reaches the user
// as the tool wrote it.
func (a *app) run(ctx context.Context, command string, args []string) int {
	var err error
	switch command {
	case "mount":
		err = a.mount(ctx, args)
	case "unmount", "umount":
		err = a.unmount(ctx, args)
	case "list":
		err = a.list(ctx, args)
	case "serve":
		err = a.serve(ctx, args)
	default:
		err = fmt.Errorf("%w: unknown command %q", errUsage, command)
	}

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, flag.ErrHelp):
		return exitUsage
	case errors.Is(err, errUsage):
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	default:
		msg := err.Error()
		if !strings.HasSuffix(msg, "\n") {
			msg += "\n"
		}
		fmt.Fprint(a.stderr, msg)
		return exitFailure
	}
}

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags reports malformed command flags as usage errors
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", errUsage, err)
}

func (a *app) mount(ctx context.Context, args []string) error {
	fs := a.newFlagSet("mount")
	server := fs.String("server", "", "Share address (//host/share or \\\\host\\share)")
	username := fs.String("username", "", "User to authenticate as")
	password := fs.String("password", "", "Password (visible in the process list; prefer -ask-password)")
	askPassword := fs.Bool("ask-password", false, "Prompt for the password on the terminal")
	mountpoint := fs.String("mountpoint", "", "Drive letter or directory to mount at (allocated when empty)")
	share := fs.String("share", "", "Name of a share profile from the configuration")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	req := mount.MountRequest{}
	if *share != "" {
		profile, err := a.cfg.Profile(*share)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		req.Server = profile.Server
		req.Username = profile.Username
		req.Mountpoint = profile.Mountpoint
	}

	// Explicit flags win over the profile
	if *server != "" {
		req.Server = *server
	}
	if *username != "" {
		req.Username = *username
	}
	if *mountpoint != "" {
		req.Mountpoint = *mountpoint
	}

	if strings.TrimSpace(req.Server) == "" {
		return fmt.Errorf("%w: mount needs -server or -share", errUsage)
	}

	switch {
	case *askPassword && *password != "":
		return fmt.Errorf("%w: -password and -ask-password are mutually exclusive", errUsage)
	case *askPassword:
		pw, err := a.readPassword()
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		req.Password = pw
	default:
		req.Password = *password
	}

	result, err := a.manager.Mount(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, result.Message)
	return nil
}

func (a *app) unmount(ctx context.Context, args []string) error {
	fs := a.newFlagSet("unmount")
	mountpoint := fs.String("mountpoint", "", "Drive letter or directory to unmount")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	// "unmount Z:" is accepted as shorthand
	if *mountpoint == "" && fs.NArg() == 1 {
		*mountpoint = fs.Arg(0)
	}
	if strings.TrimSpace(*mountpoint) == "" {
		return fmt.Errorf("%w: unmount needs -mountpoint", errUsage)
	}

	msg, err := a.manager.Unmount(ctx, *mountpoint)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, msg)
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	fs := a.newFlagSet("list")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	records, err := a.manager.ListMounted(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(a.stdout, "no mounted SMB shares")
		return nil
	}
	for _, r := range records {
		fmt.Fprintf(a.stdout, "%s -> %s\n", r.Server, r.Mountpoint)
	}
	return nil
}

func (a *app) serve(ctx context.Context, args []string) error {
	fs := a.newFlagSet("serve")
	metricsAddress := fs.String("metrics-address", a.cfg.Metrics.Address, "Prometheus listen address (empty disables metrics)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	if *metricsAddress != "" {
		metrics := observability.NewMetrics()
		if a.setMetrics != nil {
			a.setMetrics(metrics)
		}
		srv := startMetricsServer(*metricsAddress, metrics)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	err := bridge.New(a.manager, Version).Run(ctx)
	if err != nil && ctx.Err() != nil {
		klog.Infof("Shutting down: %v", ctx.Err())
		return nil
	}
	return err
}

// startMetricsServer serves /metrics in the background
func startMetricsServer(address string, metrics *observability.Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		klog.Infof("Serving metrics on %s/metrics", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			klog.Errorf("Metrics server failed: %v", err)
		}
	}()

	return srv
}

// promptPassword reads a password from the terminal without echo
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("-ask-password needs an interactive terminal")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}
