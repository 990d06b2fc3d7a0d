// Package mount attaches and detaches SMB/CIFS network shares using the
// native tools of the host operating system (net use on Windows, mount and
// umount elsewhere) and reports the shares that are currently mounted.
//
// The host platform is resolved once into a Driver and passed through;
// nothing in this package branches on runtime.GOOS at call sites. Every
// operation runs exactly one external command, blocks until it exits, and
// keeps no state between calls. The OS mount table is re-queried on every
// listing.
//
// # Logging Verbosity Convention
//
// This package follows Kubernetes logging conventions for verbosity levels:
//
//   - V(0): Always visible - programmer errors, panics
//   - V(2): Production default - operation outcomes, state changes
//     Examples: "Mounted //nas/media to /mnt/nas_media", "Unmounted Z:"
//   - V(4): Debug level - intermediate steps, parameters, diagnostics
//     Examples: "Allocated drive letter Z:", "Running mount -t cifs ..."
//   - V(5): Trace level - command output, parsing details
//
// V(3) is avoided in favor of V(2) (if actionable) or V(4) (if diagnostic).
// Credentials never reach a log line at any level.
package mount
