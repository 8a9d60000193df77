// ABOUTME: OpenAI Chat Completions provider (also works with OpenAI-compatible servers)
// ABOUTME: Implements ai.Provider with a single blocking request per completion

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/terrachat/terrachat/internal/log"
	"github.com/terrachat/terrachat/pkg/ai"
	"github.com/terrachat/terrachat/pkg/ai/internal/httputil"
)

const (
	defaultBaseURL     = "https://api.openai.com"
	chatCompletionPath = "/v1/chat/completions"
)

// Provider implements the OpenAI Chat Completions API.
type Provider struct {
	client *httputil.Client
}

// New creates an OpenAI provider. An empty apiKey falls back to the
// OPENAI_API_KEY environment variable.
func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = httputil.NormalizeBaseURL(baseURL)

	headers := map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + apiKey,
	}

	return &Provider{
		client: httputil.NewClient(baseURL, headers),
	}
}

// Api returns the provider identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiOpenAI
}

// Complete performs one chat completion and returns the assistant's reply.
func (p *Provider) Complete(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.Options) (*ai.AssistantMessage, error) {
	body := buildRequestBody(model, llmCtx, opts)
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	log.Debug("http: POST %s%s model=%s", p.client.BaseURL(), chatCompletionPath, model.ID)
	resp, err := p.client.Do(ctx, http.MethodPost, chatCompletionPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	log.Debug("http: POST %s%s -> %d", p.client.BaseURL(), chatCompletionPath, resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, errBody)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("response contained no choices")
	}

	return convertResponse(&completion), nil
}

// convertResponse maps a chat-completions response onto an AssistantMessage.
func convertResponse(completion *chatCompletionResponse) *ai.AssistantMessage {
	choice := completion.Choices[0]

	result := &ai.AssistantMessage{
		StopReason: mapFinishReason(choice.FinishReason),
		Model:      completion.Model,
	}

	if choice.Message.Content != "" {
		result.Content = append(result.Content, ai.Content{
			Type: ai.ContentText,
			Text: choice.Message.Content,
		})
	}

	for _, tc := range choice.Message.ToolCalls {
		result.Content = append(result.Content, ai.Content{
			Type:  ai.ContentToolUse,
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: json.RawMessage(tc.Function.Arguments),
		})
	}

	if completion.Usage != nil {
		result.Usage = ai.Usage{
			InputTokens:  completion.Usage.PromptTokens,
			OutputTokens: completion.Usage.CompletionTokens,
		}
	}

	return result
}

func mapFinishReason(reason string) ai.StopReason {
	switch reason {
	case "stop":
		return ai.StopEndTurn
	case "length":
		return ai.StopMaxTokens
	case "tool_calls":
		return ai.StopToolUse
	default:
		return ai.StopOther
	}
}
