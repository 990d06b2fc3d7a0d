package config

import (
	"strings"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

// ApplyDefaults fills unset fields. Explicit values are preserved apart from
// normalization.
func ApplyDefaults(cfg *Config) {
	cfg.Platform = strings.ToLower(strings.TrimSpace(cfg.Platform))

	if cfg.MountRoot == "" {
		cfg.MountRoot = mount.DefaultMountRoot
	}

	for i := range cfg.Shares {
		cfg.Shares[i].Name = strings.TrimSpace(cfg.Shares[i].Name)
	}
}
