// ABOUTME: Tests for the tool-server client over a fake transport
// ABOUTME: Covers the handshake, tool listing extraction, and call_tool result passthrough

package mcp

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"
)

// fakeTransport scripts one response per method.
type fakeTransport struct {
	sendFunc func(method string, params any) (*Response, error)
	sent     []string
	closed   bool
}

func (f *fakeTransport) Send(_ context.Context, method string, params any) (*Response, error) {
	f.sent = append(f.sent, method)
	return f.sendFunc(method, params)
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

func respondWith(result string) func(string, any) (*Response, error) {
	return func(string, any) (*Response, error) {
		return &Response{JSONRPC: jsonRPCVersion, ID: 1, Result: json.RawMessage(result)}, nil
	}
}

func TestInitializeParsesServerInfo(t *testing.T) {
	ft := &fakeTransport{sendFunc: respondWith(
		`{"protocolVersion":"2024-11-05","serverInfo":{"name":"terraform-mcp-server","version":"0.9.0"}}`,
	)}
	c := NewClient(ft)

	result, err := c.Initialize(context.Background())
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if result.ServerInfo.Name != "terraform-mcp-server" {
		t.Errorf("server name = %q, want %q", result.ServerInfo.Name, "terraform-mcp-server")
	}
	if got := c.ServerInfo().Version; got != "0.9.0" {
		t.Errorf("cached version = %q, want %q", got, "0.9.0")
	}
	if !reflect.DeepEqual(ft.sent, []string{"initialize"}) {
		t.Errorf("methods sent = %v, want [initialize]", ft.sent)
	}
}

func TestInitializeErrorResponse(t *testing.T) {
	ft := &fakeTransport{sendFunc: func(string, any) (*Response, error) {
		return &Response{ID: 1, Error: &RPCError{Code: -32600, Message: "bad handshake"}}, nil
	}}

	if _, err := NewClient(ft).Initialize(context.Background()); err == nil {
		t.Fatal("Initialize succeeded on an error response")
	}
}

func TestListToolsReturnsToolsArray(t *testing.T) {
	ft := &fakeTransport{sendFunc: respondWith(
		`{"tools":[{"name":"resolveProviderDocID","description":"Resolve provider docs"},{"name":"getProviderDocs"}]}`,
	)}

	tools, err := NewClient(ft).ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(tools))
	}
	if tools[0].Name != "resolveProviderDocID" {
		t.Errorf("first tool = %q, want resolveProviderDocID", tools[0].Name)
	}
}

func TestListToolsAbsentKeyIsEmpty(t *testing.T) {
	ft := &fakeTransport{sendFunc: respondWith(`{}`)}

	tools, err := NewClient(ft).ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if tools == nil || len(tools) != 0 {
		t.Errorf("tools = %v, want empty non-nil slice", tools)
	}
}

func TestListToolsErrorResponseIsEmpty(t *testing.T) {
	ft := &fakeTransport{sendFunc: func(string, any) (*Response, error) {
		return &Response{ID: 1, Error: &RPCError{Code: -32603, Message: "boom"}}, nil
	}}

	tools, err := NewClient(ft).ListTools(context.Background())
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	if len(tools) != 0 {
		t.Errorf("got %d tools on error response, want 0", len(tools))
	}
}

func TestCallToolReturnsResult(t *testing.T) {
	var gotParams any
	ft := &fakeTransport{sendFunc: func(_ string, params any) (*Response, error) {
		gotParams = params
		return &Response{ID: 1, Result: json.RawMessage(`{"content":[{"type":"text","text":"ok"}]}`)}, nil
	}}

	result, err := NewClient(ft).CallTool(context.Background(), "getProviderDocs", map[string]any{"id": "123"})
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if string(result) != `{"content":[{"type":"text","text":"ok"}]}` {
		t.Errorf("result = %s", result)
	}

	params, ok := gotParams.(map[string]any)
	if !ok {
		t.Fatalf("params type = %T, want map", gotParams)
	}
	if params["name"] != "getProviderDocs" {
		t.Errorf("params name = %v, want getProviderDocs", params["name"])
	}
	if !reflect.DeepEqual(params["arguments"], map[string]any{"id": "123"}) {
		t.Errorf("params arguments = %v", params["arguments"])
	}
}

func TestCallToolErrorResponseYieldsNil(t *testing.T) {
	ft := &fakeTransport{sendFunc: func(string, any) (*Response, error) {
		return &Response{ID: 1, Error: &RPCError{Code: -32000, Message: "tool exploded"}}, nil
	}}

	result, err := NewClient(ft).CallTool(context.Background(), "broken", nil)
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if result != nil {
		t.Errorf("result = %s, want nil", result)
	}
}

func TestClientCloseClosesTransport(t *testing.T) {
	ft := &fakeTransport{sendFunc: respondWith(`{}`)}
	c := NewClient(ft)
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !ft.closed {
		t.Error("transport not closed")
	}
}
