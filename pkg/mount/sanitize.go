package mount

import "strings"

// serverNameReplacer turns the remaining path-hostile characters into "_"
var serverNameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"?", "_",
	"*", "_",
)

// SanitizeServerName turns a server address into a token that is safe to use
// as a single path component. Network prefixes (// and \\) are dropped and the
// characters / \ : ? * become underscores, so //myserver/share yields
// myserver_share. The result is stable across calls; default mountpoints are
// derived from it.
func SanitizeServerName(server string) string {
	s := strings.ReplaceAll(server, "//", "")
	s = strings.ReplaceAll(s, `\\`, "")
	return serverNameReplacer.Replace(s)
}
