// ABOUTME: Core chat types: Message, Content, Tool, Usage, Model, StopReason
// ABOUTME: Shared by all providers; wire-format agnostic

package ai

import "encoding/json"

// Role represents a message role in the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// StopReason indicates why the model stopped generating.
type StopReason string

const (
	StopEndTurn   StopReason = "end_turn"
	StopMaxTokens StopReason = "max_tokens"
	StopToolUse   StopReason = "tool_use"
	StopOther     StopReason = "other"
)

// ContentType identifies the kind of content block.
type ContentType string

const (
	ContentText       ContentType = "text"
	ContentToolUse    ContentType = "tool_use"
	ContentToolResult ContentType = "tool_result"
)

// Content represents a content block within a message.
type Content struct {
	Type       ContentType     `json:"type"`
	Text       string          `json:"text,omitempty"`
	ID         string          `json:"id,omitempty"`          // Tool use/result ID
	Name       string          `json:"name,omitempty"`        // Tool name
	Input      json.RawMessage `json:"input,omitempty"`       // Tool use arguments
	ResultText string          `json:"result_text,omitempty"` // Tool result payload
	IsError    bool            `json:"is_error,omitempty"`    // Tool result error flag
}

// Message represents a conversation message.
type Message struct {
	Role    Role      `json:"role"`
	Content []Content `json:"content"`
}

// NewTextMessage creates a message with a single text content block.
func NewTextMessage(role Role, text string) Message {
	return Message{
		Role:    role,
		Content: []Content{{Type: ContentText, Text: text}},
	}
}

// Usage tracks token consumption.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Tool defines a tool the model can invoke.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"input_schema"` // JSON Schema
}

// Api identifies an API provider.
type Api string

const (
	ApiOpenAI Api = "openai"
)

// Model defines a model's metadata.
type Model struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Api             Api    `json:"api"`
	MaxTokens       int    `json:"max_tokens"`
	MaxOutputTokens int    `json:"max_output_tokens"`
	SupportsTools   bool   `json:"supports_tools"`
	BaseURL         string `json:"base_url,omitempty"`
}

// Context holds the messages and tools for one model query.
type Context struct {
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
}

// Options configures a completion request.
type Options struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// AssistantMessage is the model's reply to one completion request.
type AssistantMessage struct {
	Content    []Content  `json:"content"`
	StopReason StopReason `json:"stop_reason"`
	Usage      Usage      `json:"usage"`
	Model      string     `json:"model"`
}

// Text concatenates the text content blocks of the reply.
func (m *AssistantMessage) Text() string {
	var out string
	for _, c := range m.Content {
		if c.Type == ContentText {
			out += c.Text
		}
	}
	return out
}

// ToolUse returns the first tool_use content block, or nil when the reply
// carries none. The session resolves at most one tool call per user turn.
func (m *AssistantMessage) ToolUse() *Content {
	for i := range m.Content {
		if m.Content[i].Type == ContentToolUse {
			return &m.Content[i]
		}
	}
	return nil
}
