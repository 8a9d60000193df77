// ABOUTME: Tool-server launch configuration: command, args, env, per-request timeout
// ABOUTME: MCP_CMD overrides the built-in terraform-mcp-server default

package mcp

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Default launch command when neither MCP_CMD nor the config file names one.
const (
	DefaultCommand = "terraform-mcp-server"
	DefaultArg     = "stdio"
)

// ServerConfig describes how to launch and talk to a tool server.
type ServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
}

// ServerConfigFromEnv builds a ServerConfig from an MCP_CMD-style string:
// space-split into command and arguments. An empty string yields the
// built-in default command.
func ServerConfigFromEnv(raw string) ServerConfig {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ServerConfig{Command: DefaultCommand, Args: []string{DefaultArg}}
	}
	return ServerConfig{Command: fields[0], Args: fields[1:]}
}

// timeout returns the configured round-trip timeout, defaulting when unset.
func (c ServerConfig) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

// environ renders the child environment: the parent's variables plus the
// configured overrides appended as KEY=VALUE pairs. Returns nil when there
// are no overrides, so the child inherits the environment unchanged.
func (c ServerConfig) environ() []string {
	if len(c.Env) == 0 {
		return nil
	}
	env := os.Environ()
	for k, v := range c.Env {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}
