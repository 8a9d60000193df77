// ABOUTME: Message format conversion between internal types and the Chat Completions wire shapes
// ABOUTME: Handles messages, tool definitions, and tool calls

package openai

import (
	"encoding/json"

	"github.com/terrachat/terrachat/pkg/ai"
)

type chatMessage struct {
	Role       string        `json:"role"`
	Content    any           `json:"content,omitempty"`
	ToolCalls  []toolCallReq `json:"tool_calls,omitempty"`
	ToolCallID string        `json:"tool_call_id,omitempty"`
	Name       string        `json:"name,omitempty"`
}

type toolCallReq struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Function toolCallFuncReq `json:"function"`
}

type toolCallFuncReq struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type toolDef struct {
	Type     string      `json:"type"`
	Function toolFuncDef `json:"function"`
}

type toolFuncDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// Response wire shapes (non-streaming).
type chatCompletionResponse struct {
	ID      string           `json:"id"`
	Model   string           `json:"model"`
	Choices []responseChoice `json:"choices"`
	Usage   *responseUsage   `json:"usage,omitempty"`
}

type responseChoice struct {
	Index        int             `json:"index"`
	Message      responseMessage `json:"message"`
	FinishReason string          `json:"finish_reason"`
}

type responseMessage struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	ToolCalls []toolCallReq `json:"tool_calls,omitempty"`
}

type responseUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func buildRequestBody(model *ai.Model, ctx *ai.Context, opts *ai.Options) map[string]any {
	body := map[string]any{
		"model":    model.ID,
		"messages": convertMessages(ctx),
	}

	if len(ctx.Tools) > 0 {
		body["tools"] = convertTools(ctx.Tools)
		body["tool_choice"] = "auto"
	}

	if opts != nil {
		if opts.MaxTokens > 0 {
			body["max_tokens"] = opts.MaxTokens
		}
		if opts.Temperature > 0 {
			body["temperature"] = opts.Temperature
		}
	}

	return body
}

func convertMessages(ctx *ai.Context) []chatMessage {
	var msgs []chatMessage

	if ctx.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: ctx.System})
	}

	for _, m := range ctx.Messages {
		msg := chatMessage{Role: string(m.Role)}

		// Simple text content
		if len(m.Content) == 1 && m.Content[0].Type == ai.ContentText {
			msg.Content = m.Content[0].Text
			msgs = append(msgs, msg)
			continue
		}

		var toolCalls []toolCallReq
		var textContent string
		for _, c := range m.Content {
			switch c.Type {
			case ai.ContentText:
				textContent += c.Text
			case ai.ContentToolUse:
				toolCalls = append(toolCalls, toolCallReq{
					ID:   c.ID,
					Type: "function",
					Function: toolCallFuncReq{
						Name:      c.Name,
						Arguments: string(c.Input),
					},
				})
			case ai.ContentToolResult:
				msgs = append(msgs, chatMessage{
					Role:       "tool",
					Content:    c.ResultText,
					ToolCallID: c.ID,
				})
				continue
			}
		}

		// Messages that held only tool results were fully emitted above.
		if textContent == "" && len(toolCalls) == 0 {
			continue
		}

		msg.Content = textContent
		msg.ToolCalls = toolCalls
		msgs = append(msgs, msg)
	}

	return msgs
}

func convertTools(tools []ai.Tool) []toolDef {
	defs := make([]toolDef, len(tools))
	for i, t := range tools {
		defs[i] = toolDef{
			Type: "function",
			Function: toolFuncDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  t.Parameters,
			},
		}
	}
	return defs
}
