package utils

import (
	"fmt"
	"path"
	"strings"
)

// Characters that can never appear in an argument handed to a native tool.
// Commands are not run through a shell, so these are the only ones that can
// still break argument parsing.
var controlCharacters = []string{
	"\n",   // Newline
	"\r",   // Carriage return
	"\x00", // Null byte
}

// ValidateServerAddress checks a network share address before it is passed
// to a native mount tool. Both //host/share and \\host\share forms are accepted.
func ValidateServerAddress(server string) error {
	if strings.TrimSpace(server) == "" {
		return NewValidationError("server", "server address cannot be empty")
	}

	if char, found := findControlCharacter(server); found {
		return NewValidationError("server", fmt.Sprintf("contains control character %q", char))
	}

	return nil
}

// ValidateMountpoint checks a caller-supplied mount target (drive letter or
// directory path).
func ValidateMountpoint(mountpoint string) error {
	if strings.TrimSpace(mountpoint) == "" {
		return NewValidationError("mountpoint", "mountpoint cannot be empty")
	}

	if char, found := findControlCharacter(mountpoint); found {
		return NewValidationError("mountpoint", fmt.Sprintf("contains control character %q", char))
	}

	return nil
}

// ValidateOptionValue validates a value that is embedded into a
// comma-separated mount option list (mount -o key=value,...).
// A comma would silently inject an extra option.
func ValidateOptionValue(field, value string) error {
	if strings.Contains(value, ",") {
		return NewValidationError(field, "cannot contain ',' in a mount option list")
	}

	if char, found := findControlCharacter(value); found {
		return NewValidationError(field, fmt.Sprintf("contains control character %q", char))
	}

	return nil
}

// ValidateCredential validates a username or password that is passed as its
// own argument or inside a URL.
func ValidateCredential(field, value string) error {
	if char, found := findControlCharacter(value); found {
		return NewValidationError(field, fmt.Sprintf("contains control character %q", char))
	}
	return nil
}

// SanitizeBasePath validates and sanitizes a base directory such as the
// default mount root. This should be called when reading it from configuration.
func SanitizeBasePath(basePath string) (string, error) {
	if basePath == "" {
		return "", fmt.Errorf("base path cannot be empty")
	}

	// Check for double slashes BEFORE cleaning (filepath.Clean normalizes them)
	if strings.Contains(basePath, "//") {
		return "", fmt.Errorf("base path contains double slashes: %s", basePath)
	}

	// Mount roots are only used on Unix-like hosts, so they are cleaned with
	// slash semantics regardless of the build target.
	cleanPath := path.Clean(basePath)

	if !path.IsAbs(cleanPath) {
		return "", fmt.Errorf("base path must be absolute: %s", basePath)
	}

	if char, found := findControlCharacter(cleanPath); found {
		return "", fmt.Errorf("base path contains control character %q: %s", char, cleanPath)
	}

	return cleanPath, nil
}

func findControlCharacter(s string) (string, bool) {
	for _, char := range controlCharacters {
		if strings.Contains(s, char) {
			return char, true
		}
	}
	return "", false
}
