package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"git.srvlab.io/whiskey/smb-mounter/pkg/mount"
	"git.srvlab.io/whiskey/smb-mounter/pkg/utils"
)

// Error codes reported to MCP clients
const (
	codeInvalidParameter = "INVALID_PARAMETER"
	codeAllocationFailed = "ALLOCATION_FAILED"
	codeCommandFailed    = "COMMAND_FAILED"
	codeSpawnFailed      = "SPAWN_FAILED"
)

// convertError converts an error to a CallToolResult with IsError=true.
// Known failures are serialized as JSON with code and error; "error" is always
// err.Error(), so command failures carry the native stderr unchanged.
// Anything else is returned as plain text.
func convertError(err error) *mcp.CallToolResult {
	utils.LogErrorDetails(err)

	result := map[string]string{"error": err.Error()}

	var cmdErr *mount.CommandFailedError
	switch {
	case errors.As(err, &cmdErr):
		result["code"] = codeCommandFailed
		result["operation"] = string(cmdErr.Op)
	case errors.Is(err, utils.ErrInvalidParameter):
		result["code"] = codeInvalidParameter
	case errors.Is(err, utils.ErrAllocationFailed):
		result["code"] = codeAllocationFailed
	case errors.Is(err, utils.ErrProcessSpawn):
		result["code"] = codeSpawnFailed
	default:
		return textError(err.Error())
	}

	b, err := json.Marshal(result)
	if err != nil {
		return textError(fmt.Sprintf("marshal error: %v", err))
	}
	return textError(string(b))
}

// jsonResult marshals v to JSON and returns it as a CallToolResult.
func jsonResult(v any) *mcp.CallToolResult {
	b, err := json.Marshal(v)
	if err != nil {
		return textError(fmt.Sprintf("marshal error: %v", err))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: string(b)}}}
}

func textError(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

// boolPtr returns a pointer to b. Used for optional bool fields in ToolAnnotations.
func boolPtr(b bool) *bool { return &b }
