// ABOUTME: Settings loading with global + project YAML deep merge
// ABOUTME: Project .terrachat.yaml overrides ~/.terrachat/config.yaml

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the merged configuration.
type Settings struct {
	Model         string            `yaml:"model,omitempty"`
	BaseURL       string            `yaml:"base_url,omitempty"`
	Temperature   float64           `yaml:"temperature,omitempty"`
	MaxTokens     int               `yaml:"max_tokens,omitempty"`
	Server        string            `yaml:"server,omitempty"`         // launch command, MCP_CMD style
	ServerTimeout Duration          `yaml:"server_timeout,omitempty"` // per-request round-trip bound
	Record        bool              `yaml:"record,omitempty"`         // JSONL transcript recording
	Env           map[string]string `yaml:"env,omitempty"`
}

// Duration is a time.Duration that unmarshals YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", node.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Load reads and merges global and project-local settings, then expands
// ${VAR} references in string fields. Project settings override global ones.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	ResolveEnvVars(merged)
	return merged, nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge deep-merges project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.Model != "" {
		result.Model = project.Model
	}
	if project.BaseURL != "" {
		result.BaseURL = project.BaseURL
	}
	if project.Temperature != 0 {
		result.Temperature = project.Temperature
	}
	if project.MaxTokens != 0 {
		result.MaxTokens = project.MaxTokens
	}
	if project.Server != "" {
		result.Server = project.Server
	}
	if project.ServerTimeout != 0 {
		result.ServerTimeout = project.ServerTimeout
	}
	if project.Record {
		result.Record = true
	}

	if len(project.Env) > 0 {
		env := make(map[string]string, len(global.Env)+len(project.Env))
		for k, v := range global.Env {
			env[k] = v
		}
		for k, v := range project.Env {
			env[k] = v
		}
		result.Env = env
	}

	return &result
}
