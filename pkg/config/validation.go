package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// validate is the singleton validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate validates the configuration using struct tags, then the rules
// that cannot be expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	return validateCustomRules(cfg)
}

// validateCustomRules performs custom validation beyond struct tags.
// A cleaned mount root is written back to cfg.
func validateCustomRules(cfg *Config) error {
	mountRoot, err := utils.SanitizeBasePath(cfg.MountRoot)
	if err != nil {
		return fmt.Errorf("mount_root: %w", err)
	}
	cfg.MountRoot = mountRoot

	names := make(map[string]bool)
	for i, share := range cfg.Shares {
		if names[share.Name] {
			return fmt.Errorf("shares[%d]: duplicate share name %q", i, share.Name)
		}
		names[share.Name] = true

		if err := utils.ValidateServerAddress(share.Server); err != nil {
			return fmt.Errorf("shares[%d]: %w", i, err)
		}
		if share.Mountpoint != "" {
			if err := utils.ValidateMountpoint(share.Mountpoint); err != nil {
				return fmt.Errorf("shares[%d]: %w", i, err)
			}
		}
	}

	return nil
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %v)",
			e.Namespace(), e.Tag(), e.Value())
	}
	return err
}
