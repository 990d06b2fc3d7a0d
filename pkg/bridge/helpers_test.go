package bridge

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/test/mock"
)

// newTestServer returns a bridge over a Linux manager whose commands run
// against a simulated host
func newTestServer(t *testing.T) (*Server, *mock.MockExecutor) {
	t.Helper()

	exec := mock.NewMockExecutorWithConfig(mount.PlatformLinux, mock.MockHostConfig{
		ErrorMode:     "none",
		EnableHistory: true,
		HistoryDepth:  100,
	})
	driver, err := mount.NewDriver(mount.PlatformLinux)
	if err != nil {
		t.Fatal(err)
	}
	manager := mount.NewManager(mount.NewAllocator(mount.PlatformLinux, t.TempDir()), mount.NewMounter(driver, exec))

	return New(manager, "test"), exec
}

// connect opens a client session to srv over in-memory transports
func connect(t *testing.T, srv *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	st, ct := mcp.NewInMemoryTransports()

	ss, err := srv.Connect(ctx, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.1"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { session.Close() })
	return session
}

// callTool connects to a test server and calls a named tool with the given arguments.
func callTool(t *testing.T, srv *mcp.Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	result, err := connect(t, srv).CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

// getTextContent extracts the text string from the first content item of a CallToolResult.
func getTextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("no content in result")
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *mcp.TextContent, got %T", result.Content[0])
	}
	return tc.Text
}
