package bridge

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// MountInput is the input type for smb_mount.
type MountInput struct {
	Server     string `json:"server"               jsonschema:"Share address, //host/share on macOS and Linux or \\\\host\\share on Windows."`
	Username   string `json:"username,omitempty"   jsonschema:"User to authenticate as. Omit for guest access."`
	Password   string `json:"password,omitempty"   jsonschema:"Password for username. Never logged."`
	Mountpoint string `json:"mountpoint,omitempty" jsonschema:"Drive letter (Z:) or directory to mount at. Omit to have one allocated."`
}

// UnmountInput is the input type for smb_unmount.
type UnmountInput struct {
	Mountpoint string `json:"mountpoint" jsonschema:"Drive letter or directory the share is mounted at."`
}

// ListInput is the input type for smb_list_mounted.
type ListInput struct{}

// UnmountResult is returned by smb_unmount.
type UnmountResult struct {
	Mountpoint string `json:"mountpoint"`
	Message    string `json:"message"`
}

// RegisterTools registers smb_mount, smb_unmount and smb_list_mounted.
func RegisterTools(srv *mcp.Server, manager ShareManager) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "smb_mount",
		Description: "Mount an SMB/CIFS share. Returns the effective mountpoint.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Mount SMB share",
			DestructiveHint: boolPtr(false),
			OpenWorldHint:   boolPtr(true),
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input MountInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(input.Server) == "" {
			return convertError(utils.NewValidationError("server", "server address cannot be empty")), nil, nil
		}

		result, err := manager.Mount(ctx, mount.MountRequest{
			Server:     input.Server,
			Username:   input.Username,
			Password:   input.Password,
			Mountpoint: input.Mountpoint,
		})
		if err != nil {
			return convertError(err), nil, nil
		}
		return jsonResult(result), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "smb_unmount",
		Description: "Unmount the SMB share mounted at a drive letter or directory.",
		Annotations: &mcp.ToolAnnotations{
			Title:           "Unmount SMB share",
			DestructiveHint: boolPtr(true),
			OpenWorldHint:   boolPtr(false),
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input UnmountInput) (*mcp.CallToolResult, any, error) {
		if strings.TrimSpace(input.Mountpoint) == "" {
			return convertError(utils.NewValidationError("mountpoint", "mountpoint cannot be empty")), nil, nil
		}

		msg, err := manager.Unmount(ctx, input.Mountpoint)
		if err != nil {
			return convertError(err), nil, nil
		}
		return jsonResult(UnmountResult{Mountpoint: input.Mountpoint, Message: msg}), nil, nil
	})

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "smb_list_mounted",
		Description: "List the SMB shares the operating system currently reports as mounted.",
		Annotations: &mcp.ToolAnnotations{
			Title:          "List mounted SMB shares",
			ReadOnlyHint:   true,
			IdempotentHint: true,
			OpenWorldHint:  boolPtr(false),
		},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ ListInput) (*mcp.CallToolResult, any, error) {
		records, err := manager.ListMounted(ctx)
		if err != nil {
			return convertError(err), nil, nil
		}
		return jsonResult(records), nil, nil
	})
}
