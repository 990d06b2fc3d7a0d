package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/config"
	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Version and Commit are set by ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	// Configuration
	configPath = flag.String("config", "", "Path to config file (default "+config.GetDefaultConfigPath()+")")
	platform   = flag.String("platform", "", "Override host platform detection (windows, macos, linux)")
	mountRoot  = flag.String("mount-root", "", "Parent directory of generated mountpoints on macOS and Linux")

	// Version flag
	version = flag.Bool("version", false, "Print version and exit")
)

func main() {
	klog.InitFlags(nil)
	flag.Usage = usage
	flag.Parse()

	if *version {
		fmt.Printf("smb-mounter %s (%s)\n", Version, Commit)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		usage()
		os.Exit(exitUsage)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		klog.Fatalf("Failed to load configuration: %v", err)
	}
	if err := applyFlagOverrides(cfg); err != nil {
		klog.Fatalf("Invalid flags: %v", err)
	}

	hostPlatform, err := cfg.ResolvePlatform()
	if err != nil {
		klog.Fatalf("Invalid platform: %v", err)
	}

	manager, err := mount.NewSystemManager(hostPlatform, cfg.MountRoot)
	if err != nil {
		klog.Fatalf("Failed to create share manager: %v", err)
	}
	klog.V(4).Infof("Using %s driver, mount root %s", hostPlatform, cfg.MountRoot)

	// Handle shutdown gracefully
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := &app{
		manager:      manager,
		cfg:          cfg,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
		readPassword: promptPassword,
		setMetrics:   manager.SetMetrics,
	}
	code := a.run(ctx, flag.Arg(0), flag.Args()[1:])

	klog.Flush()
	os.Exit(code)
}

// applyFlagOverrides layers command-line flags over the loaded configuration
func applyFlagOverrides(cfg *config.Config) error {
	if *platform != "" {
		cfg.Platform = *platform
	}

	if *mountRoot != "" {
		root, err := utils.SanitizeBasePath(*mountRoot)
		if err != nil {
			return fmt.Errorf("-mount-root: %w", err)
		}
		cfg.MountRoot = root
	}

	// The config file only sets verbosity when -v was not given
	verbositySet := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "v" {
			verbositySet = true
		}
	})
	if !verbositySet && cfg.Logging.Verbosity > 0 {
		if err := flag.Set("v", strconv.Itoa(cfg.Logging.Verbosity)); err != nil {
			return fmt.Errorf("logging.verbosity: %w", err)
		}
	}

	return nil
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, `Usage: smb-mounter [flags] <command> [command flags]

Commands:
  mount     Mount an SMB share (-server, -username, -password|-ask-password, -mountpoint, -share)
  unmount   Unmount the share at -mountpoint
  list      List mounted SMB shares
  serve     Serve the share tools to an MCP host over stdio

Flags:
`)
	flag.PrintDefaults()
}
