// ABOUTME: Tests for JSONL transcript writing and reading

package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "sess-1")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	if err := w.WriteRecord(RecordSessionStart, SessionStartData{ID: "sess-1", Model: "gpt-4o-mini"}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.WriteRecord(RecordUser, UserData{Content: "list the tools"}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.WriteRecord(RecordToolCall, ToolCallData{Function: "list_tools"}); err != nil {
		t.Fatalf("WriteRecord: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	records, err := ReadRecords(w.Path())
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	if records[0].Type != RecordSessionStart {
		t.Errorf("first record type = %q", records[0].Type)
	}
	if records[0].Version != 1 {
		t.Errorf("record version = %d, want 1", records[0].Version)
	}
	if _, err := time.Parse(time.RFC3339, records[0].TS); err != nil {
		t.Errorf("timestamp %q not RFC3339: %v", records[0].TS, err)
	}

	var user UserData
	if err := json.Unmarshal(records[1].Data, &user); err != nil {
		t.Fatalf("unmarshal user data: %v", err)
	}
	if user.Content != "list the tools" {
		t.Errorf("user content = %q", user.Content)
	}
}

func TestWriterAppendsToExistingFile(t *testing.T) {
	dir := t.TempDir()

	w1, err := NewWriter(dir, "sess-2")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w1.WriteRecord(RecordUser, UserData{Content: "first"}); err != nil {
		t.Fatal(err)
	}
	w1.Close()

	w2, err := NewWriter(dir, "sess-2")
	if err != nil {
		t.Fatalf("NewWriter reopen: %v", err)
	}
	if err := w2.WriteRecord(RecordUser, UserData{Content: "second"}); err != nil {
		t.Fatal(err)
	}
	w2.Close()

	records, err := ReadRecords(w2.Path())
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("records = %d, want 2 after reopen", len(records))
	}
}

func TestReadRecordsSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jsonl")
	content := `{"v":1,"type":"user","ts":"2026-01-01T00:00:00Z","data":{"content":"ok"}}
not json at all
{"v":1,"type":"assistant","ts":"2026-01-01T00:00:01Z","data":{"content":"fine"}}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := ReadRecords(path)
	if err != nil {
		t.Fatalf("ReadRecords: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2 (malformed line skipped)", len(records))
	}
	if records[0].Type != RecordUser || records[1].Type != RecordAssistant {
		t.Errorf("record types = %q, %q", records[0].Type, records[1].Type)
	}
}

func TestReadRecordsMissingFile(t *testing.T) {
	if _, err := ReadRecords(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Fatal("ReadRecords succeeded on a missing file")
	}
}
