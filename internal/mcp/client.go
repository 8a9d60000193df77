// ABOUTME: Tool-server client: initialize handshake, tool listing, and tool calling
// ABOUTME: Thin typed layer over one Transport; no caching, no retry

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/terrachat/terrachat/internal/log"
)

// Client communicates with a single tool server over a Transport.
type Client struct {
	transport Transport

	mu         sync.RWMutex
	serverInfo ServerInfo
}

// NewClient creates a client over the given transport.
func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// Initialize performs the one-time handshake. The result content is defined
// by the server; only its identity is decoded for display.
func (c *Client) Initialize(ctx context.Context) (*InitializeResult, error) {
	resp, err := c.transport.Send(ctx, "initialize", map[string]any{
		"protocolVersion": "2024-11-05",
		"capabilities":    map[string]any{},
		"clientInfo": map[string]string{
			"name":    "terrachat",
			"version": "1.0.0",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("initialize request: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("initialize error: %s", resp.Error.Message)
	}

	var result InitializeResult
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing initialize result: %w", err)
	}

	c.mu.Lock()
	c.serverInfo = result.ServerInfo
	c.mu.Unlock()

	return &result, nil
}

// ListTools fetches the current tool listing. It returns exactly the `tools`
// array of the response, or an empty slice when the key is absent (including
// error responses, which carry no result). Listings are never cached.
func (c *Client) ListTools(ctx context.Context) ([]ToolDescriptor, error) {
	resp, err := c.transport.Send(ctx, "tools/list", nil)
	if err != nil {
		return nil, fmt.Errorf("tools/list request: %w", err)
	}
	if resp.Error != nil {
		log.Warn("tools/list error: %s", resp.Error.Message)
		return []ToolDescriptor{}, nil
	}

	var result struct {
		Tools []ToolDescriptor `json:"tools"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, fmt.Errorf("parsing tools list: %w", err)
	}
	if result.Tools == nil {
		return []ToolDescriptor{}, nil
	}
	return result.Tools, nil
}

// CallTool invokes a tool and returns the raw `result` value, or nil when
// the response carried none. A JSON-RPC error payload is not surfaced as a
// Go error: the caller feeds whatever came back to the model, which gets to
// narrate failures.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error) {
	resp, err := c.transport.Send(ctx, "tools/call", map[string]any{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("tools/call request: %w", err)
	}
	if resp.Error != nil {
		log.Warn("tools/call %s error: %s", name, resp.Error.Message)
		return nil, nil
	}
	return resp.Result, nil
}

// ServerInfo returns the server identity captured during the handshake.
func (c *Client) ServerInfo() ServerInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverInfo
}

// Close shuts down the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}
