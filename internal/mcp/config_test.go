// ABOUTME: Tests for server launch config parsing and defaults

package mcp

import (
	"reflect"
	"testing"
	"time"
)

func TestServerConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		command string
		args    []string
	}{
		{"empty falls back to default", "", DefaultCommand, []string{DefaultArg}},
		{"whitespace only", "   ", DefaultCommand, []string{DefaultArg}},
		{"command only", "my-server", "my-server", nil},
		{"command with args", "docker run -i hashicorp/terraform-mcp-server", "docker", []string{"run", "-i", "hashicorp/terraform-mcp-server"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ServerConfigFromEnv(tt.raw)
			if cfg.Command != tt.command {
				t.Errorf("command = %q, want %q", cfg.Command, tt.command)
			}
			if !reflect.DeepEqual(cfg.Args, tt.args) {
				t.Errorf("args = %v, want %v", cfg.Args, tt.args)
			}
		})
	}
}

func TestServerConfigTimeoutDefault(t *testing.T) {
	if got := (ServerConfig{}).timeout(); got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
	if got := (ServerConfig{Timeout: 5 * time.Second}).timeout(); got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", got)
	}
}

func TestServerConfigEnviron(t *testing.T) {
	if env := (ServerConfig{}).environ(); env != nil {
		t.Errorf("environ = %v, want nil for inherit", env)
	}

	t.Setenv("MCP_ENVIRON_PARENT", "kept")
	env := ServerConfig{Env: map[string]string{"TF_LOG": "debug"}}.environ()

	var gotOverride, gotParent bool
	for _, kv := range env {
		switch kv {
		case "TF_LOG=debug":
			gotOverride = true
		case "MCP_ENVIRON_PARENT=kept":
			gotParent = true
		}
	}
	if !gotOverride {
		t.Errorf("environ missing the configured override: %v", env)
	}
	if !gotParent {
		t.Error("environ dropped the parent environment")
	}
}
