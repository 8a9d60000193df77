// ABOUTME: Tests for level gating and output redirection

package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevLevel := GetLevel()
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(prevLevel)
	})
	return &buf
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelInfo)

	Debug("hidden %d", 1)
	Info("shown %d", 2)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line emitted at info level: %q", out)
	}
	if !strings.Contains(out, "[INFO] shown 2") {
		t.Errorf("info line missing: %q", out)
	}
}

func TestDebugEmittedAtDebugLevel(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelDebug)

	Debug("visible")

	if !strings.Contains(buf.String(), "[DEBUG] visible") {
		t.Errorf("debug line missing: %q", buf.String())
	}
}

func TestErrorAlwaysEmitted(t *testing.T) {
	buf := capture(t)
	SetLevel(LevelError)

	Warn("quiet")
	Error("boom: %v", "broken pipe")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("warn emitted above its level: %q", out)
	}
	if !strings.Contains(out, "[ERROR] boom: broken pipe") {
		t.Errorf("error line missing: %q", out)
	}
}
