// Package config loads the mounter's settings from an optional YAML file and
// SMBMOUNTER_* environment variables.
//
// Configuration sources, lowest to highest precedence:
//  1. Defaults (ApplyDefaults)
//  2. $XDG_CONFIG_HOME/smb-mounter/config.yaml, or the file given with -config
//  3. Environment variables, e.g. SMBMOUNTER_MOUNT_ROOT or SMBMOUNTER_METRICS_ADDRESS
//
// Command-line flags are applied on top by the caller.
//
// Passwords are never read from configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

// envPrefix is prepended to every environment variable override
const envPrefix = "SMBMOUNTER"

// Config is the top-level configuration
type Config struct {
	// Logging controls klog verbosity when -v is not given on the command line
	Logging LoggingConfig `mapstructure:"logging"`

	// Platform overrides host detection (windows, macos or linux)
	Platform string `mapstructure:"platform" validate:"omitempty,oneof=windows macos darwin linux"`

	// MountRoot is the parent of generated mountpoints on Unix-like hosts
	MountRoot string `mapstructure:"mount_root" validate:"required"`

	// Metrics configures the optional Prometheus endpoint of "serve"
	Metrics MetricsConfig `mapstructure:"metrics"`

	// Shares are named profiles usable as "mount -share <name>"
	Shares []ShareProfile `mapstructure:"shares" validate:"dive"`
}

// LoggingConfig controls logging behavior
type LoggingConfig struct {
	Verbosity int `mapstructure:"verbosity" validate:"gte=0,lte=10"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Address to listen on, e.g. ":9090". Empty disables the endpoint.
	Address string `mapstructure:"address" validate:"omitempty,hostname_port"`
}

// ShareProfile is a named share with everything but the password
type ShareProfile struct {
	Name       string `mapstructure:"name" validate:"required"`
	Server     string `mapstructure:"server" validate:"required"`
	Username   string `mapstructure:"username"`
	Mountpoint string `mapstructure:"mountpoint"`
}

// Load loads configuration from file and environment.
//
// An empty configPath searches the default config directory; a missing
// default file is not an error. An explicit configPath must exist.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment binding and the config file location
func setupViper(v *viper.Viper, configPath string) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Scalar keys must be known to viper for environment overrides to reach
	// Unmarshal when the file does not mention them
	v.SetDefault("logging.verbosity", 0)
	v.SetDefault("platform", "")
	v.SetDefault("mount_root", mount.DefaultMountRoot)
	v.SetDefault("metrics.address", "")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the config file if present
func readConfigFile(v *viper.Viper, configPath string) error {
	if configPath != "" {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", configPath)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/smb-mounter or ~/.config/smb-mounter
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "smb-mounter")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "smb-mounter")
}

// GetDefaultConfigPath returns the path searched when no -config is given
func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// ResolvePlatform returns the configured platform, or the host's when unset
func (c *Config) ResolvePlatform() (mount.Platform, error) {
	if c.Platform == "" {
		return mount.HostPlatform(), nil
	}
	return mount.ParsePlatform(c.Platform)
}

// Profile returns the share profile called name
func (c *Config) Profile(name string) (*ShareProfile, error) {
	for i := range c.Shares {
		if c.Shares[i].Name == name {
			return &c.Shares[i], nil
		}
	}
	return nil, fmt.Errorf("no share profile named %q in configuration", name)
}
