// ABOUTME: Closed-enum dispatch for the two functions declared to the model
// ABOUTME: list_tools and call_tool; anything else is a protocol violation

package chat

import (
	"encoding/json"
	"fmt"

	"github.com/terrachat/terrachat/pkg/ai"
)

// Function names declared to the model.
const (
	FuncListTools = "list_tools"
	FuncCallTool  = "call_tool"
)

// funcKind is the closed set of functions the model may request. Dispatch
// happens on this enum, not on the raw name string, so a new invocation
// kind is an exhaustive-switch change.
type funcKind int

const (
	funcListTools funcKind = iota
	funcCallTool
)

// parseFunction maps a requested function name onto the closed enum.
func parseFunction(name string) (funcKind, error) {
	switch name {
	case FuncListTools:
		return funcListTools, nil
	case FuncCallTool:
		return funcCallTool, nil
	default:
		return 0, fmt.Errorf("model requested undeclared function %q", name)
	}
}

// callToolArgs is the argument object the model supplies for call_tool.
type callToolArgs struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// functionDeclarations returns the two static tool declarations sent with
// the first model query of every turn.
func functionDeclarations() []ai.Tool {
	return []ai.Tool{
		{
			Name:        FuncListTools,
			Description: "List available Terraform MCP tools",
			Parameters:  json.RawMessage(`{"type":"object","properties":{}}`),
		},
		{
			Name:        FuncCallTool,
			Description: "Invoke a Terraform MCP tool",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"arguments": {"type": "object"}
				},
				"required": ["name", "arguments"]
			}`),
		},
	}
}
