package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jusunglee/ptv-mcp-go/internal/apperr"
)

// toolResult returns the readable summary followed by the full data as JSON
func toolResult(summary string, data any) (*mcp.CallToolResult, error) {
	body, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(summary),
			mcp.NewTextContent(string(body)),
		},
	}, nil
}

// errorResult reports a failure to the assistant as a tool error rather than a protocol error
func errorResult(err error) *mcp.CallToolResult {
	kind := apperr.KindOf(err)
	if kind == "" {
		kind = apperr.KindUpstream
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", kind, err))
}
