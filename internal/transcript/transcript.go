// ABOUTME: Append-only JSONL transcript records for one chat session
// ABOUTME: Crash-safe via O_APPEND; readers skip malformed lines

package transcript

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// RecordType identifies the type of JSONL record.
type RecordType string

const (
	RecordSessionStart RecordType = "session_start"
	RecordUser         RecordType = "user"
	RecordAssistant    RecordType = "assistant"
	RecordToolCall     RecordType = "tool_call"
	RecordToolResult   RecordType = "tool_result"
	RecordSessionEnd   RecordType = "session_end"
)

// Record is the envelope for all JSONL entries.
type Record struct {
	Version int             `json:"v"`
	Type    RecordType      `json:"type"`
	TS      string          `json:"ts"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// SessionStartData holds session_start metadata.
type SessionStartData struct {
	ID     string `json:"id"`
	Model  string `json:"model"`
	Server string `json:"server"`
}

// UserData holds one user message.
type UserData struct {
	Content string `json:"content"`
}

// AssistantData holds one assistant reply.
type AssistantData struct {
	Content    string `json:"content"`
	Model      string `json:"model,omitempty"`
	StopReason string `json:"stop_reason,omitempty"`
	Input      int    `json:"input_tokens,omitempty"`
	Output     int    `json:"output_tokens,omitempty"`
}

// ToolCallData records the model's function-call request.
type ToolCallData struct {
	Function  string          `json:"function"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// ToolResultData records the JSON-encoded tool result fed back to the model.
type ToolResultData struct {
	Function string          `json:"function"`
	Result   json.RawMessage `json:"result,omitempty"`
}

// Writer appends records to a session JSONL file.
type Writer struct {
	file *os.File
	path string
}

// NewWriter creates a Writer for the given session ID under dir.
func NewWriter(dir, sessionID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating transcripts dir: %w", err)
	}

	path := filepath.Join(dir, sessionID+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening transcript file: %w", err)
	}

	return &Writer{file: f, path: path}, nil
}

// Path returns the transcript file's location.
func (w *Writer) Path() string {
	return w.path
}

// WriteRecord appends one record.
func (w *Writer) WriteRecord(recType RecordType, data any) error {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling record data: %w", err)
	}

	rec := Record{
		Version: 1,
		Type:    recType,
		TS:      time.Now().UTC().Format(time.RFC3339),
		Data:    dataBytes,
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}

	line = append(line, '\n')
	if _, err := w.file.Write(line); err != nil {
		return fmt.Errorf("writing record: %w", err)
	}
	return nil
}

// Close closes the transcript file.
func (w *Writer) Close() error {
	return w.file.Close()
}

// ReadRecords reads all records from a transcript file, skipping lines that
// do not parse.
func ReadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening transcript %s: %w", path, err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)

	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}

	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("scanning transcript %s: %w", path, err)
	}
	return records, nil
}
