// ABOUTME: JSON-RPC 2.0 types and Transport interface for the tool-server protocol
// ABOUTME: Defines Request, Response, RPCError, and the sentinel transport errors

package mcp

import (
	"context"
	"encoding/json"
	"errors"
)

const jsonRPCVersion = "2.0"

// ErrIDMismatch reports a response whose id does not match the request that
// was just written. The protocol assumes strict line-for-line ordering; a
// mismatch means the server pipelined, reordered, or skipped a response.
var ErrIDMismatch = errors.New("jsonrpc: response id does not match request id")

// ErrClosed reports a Send on a transport that has been closed.
var ErrClosed = errors.New("jsonrpc: transport closed")

// Transport abstracts the request/response channel to the tool server.
type Transport interface {
	// Send writes one request and blocks until its response arrives, the
	// context expires, or the transport closes.
	Send(ctx context.Context, method string, params any) (*Response, error)
	// Close shuts down the transport and reaps any child process.
	Close() error
}

// Request is a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// Response is a JSON-RPC 2.0 response. Result and Error are mutually
// exclusive in a well-formed response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// ToolDescriptor represents a tool exposed by the server.
type ToolDescriptor struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// InitializeResult is returned from the initialize handshake. Only the
// server identity is interpreted; everything else is server-defined.
type InitializeResult struct {
	ProtocolVersion string          `json:"protocolVersion"`
	Capabilities    json.RawMessage `json:"capabilities,omitempty"`
	ServerInfo      ServerInfo      `json:"serverInfo"`
}

// ServerInfo identifies the tool server.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// topLevelKeys returns the sorted-order-free key set of a JSON object,
// for diagnostic logging of request params and response results.
func topLevelKeys(raw json.RawMessage) []string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil
	}
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	return keys
}
