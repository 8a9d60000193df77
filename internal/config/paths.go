// ABOUTME: Filesystem locations for config and transcript files
// ABOUTME: Everything lives under ~/.terrachat; project overrides sit in the project root

package config

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory, or "." when it cannot be
// determined.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// BaseDir returns the root of terrachat's per-user state.
func BaseDir() string {
	return filepath.Join(HomeDir(), ".terrachat")
}

// GlobalConfigFile returns the path of the per-user settings file.
func GlobalConfigFile() string {
	return filepath.Join(BaseDir(), "config.yaml")
}

// ProjectConfigFile returns the path of the project-local settings file.
func ProjectConfigFile(projectRoot string) string {
	return filepath.Join(projectRoot, ".terrachat.yaml")
}

// TranscriptsDir returns the directory holding JSONL transcript files.
func TranscriptsDir() string {
	return filepath.Join(BaseDir(), "transcripts")
}
