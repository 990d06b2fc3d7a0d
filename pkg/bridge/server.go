// Package bridge exposes the share manager to Model Context Protocol hosts.
package bridge

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"k8s.io/klog/v2"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
)

// ShareManager is the command surface the bridge forwards to
type ShareManager interface {
	Mount(ctx context.Context, req mount.MountRequest) (*mount.MountResult, error)
	Unmount(ctx context.Context, mountpoint string) (string, error)
	ListMounted(ctx context.Context) ([]mount.MountRecord, error)
}

// Server wraps the MCP server with the share tools registered
type Server struct {
	server  *mcp.Server
	manager ShareManager
}

// New creates a bridge server with all tools registered
func New(manager ShareManager, version string) *Server {
	srv := mcp.NewServer(
		&mcp.Implementation{Name: "smb-mounter", Version: version},
		&mcp.ServerOptions{Instructions: instructions},
	)

	s := &Server{
		server:  srv,
		manager: manager,
	}
	RegisterTools(s.server, s.manager)
	return s
}

// Run serves MCP on stdio until ctx is done or the client disconnects
func (s *Server) Run(ctx context.Context) error {
	klog.V(2).Infof("Serving share tools over stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server (for testing).
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}

const instructions = `Mounts SMB/CIFS network shares on this machine.
Use smb_list_mounted to see what is mounted, smb_mount to attach a share and smb_unmount to detach one.
smb_mount picks a mountpoint when none is given and always reports the one it used.
Failures carry the native tool's own error text.`
