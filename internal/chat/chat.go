// ABOUTME: Chat orchestrator: read-eval-print loop bridging the model and the tool server
// ABOUTME: One tool call resolved per user turn, then a second model query for the reply

package chat

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/terrachat/terrachat/internal/log"
	"github.com/terrachat/terrachat/internal/mcp"
	"github.com/terrachat/terrachat/internal/transcript"
	"github.com/terrachat/terrachat/pkg/ai"
)

// ToolClient is the subset of the tool-server client the orchestrator uses.
type ToolClient interface {
	ListTools(ctx context.Context) ([]mcp.ToolDescriptor, error)
	CallTool(ctx context.Context, name string, arguments map[string]any) (json.RawMessage, error)
}

// Config wires a Session. Provider, Model, and Tools are required; the rest
// default sensibly.
type Config struct {
	Provider ai.Provider
	Model    *ai.Model
	Tools    ToolClient
	Options  *ai.Options

	// KnownTools is the startup tool listing, used only for "did you mean"
	// advisories. The server stays authoritative.
	KnownTools []string

	// Recorder, when non-nil, receives a JSONL record per turn.
	Recorder *transcript.Writer

	Input    io.Reader
	Output   io.Writer
	Renderer *Renderer
}

// Session owns one conversation: the transcript, the model provider, and
// the tool-server client. The transcript is append-only and discarded when
// the session ends.
type Session struct {
	provider   ai.Provider
	model      *ai.Model
	tools      ToolClient
	opts       *ai.Options
	knownTools []string
	recorder   *transcript.Writer

	in       io.Reader
	out      io.Writer
	render   *Renderer
	commands *Registry

	messages []ai.Message
	quit     bool
}

// NewSession builds a Session from the given config.
func NewSession(cfg Config) *Session {
	s := &Session{
		provider:   cfg.Provider,
		model:      cfg.Model,
		tools:      cfg.Tools,
		opts:       cfg.Options,
		knownTools: cfg.KnownTools,
		recorder:   cfg.Recorder,
		in:         cfg.Input,
		out:        cfg.Output,
		render:     cfg.Renderer,
	}
	if s.in == nil {
		s.in = os.Stdin
	}
	if s.out == nil {
		s.out = os.Stdout
	}
	if s.render == nil {
		s.render = NewRenderer()
	}
	s.commands = newRegistry()
	return s
}

// Run drives the interactive loop until "exit"/"quit", /quit, EOF, or a
// fatal error. Errors from the model API or the tool-server transport are
// not retried; they end the session.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, s.render.Notice(`Type "exit" or "quit" to end the session, /help for commands.`))

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, s.render.Prompt())
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if isExit(input) {
			break
		}
		if isCommand(input) {
			s.runCommand(ctx, input)
			if s.quit {
				break
			}
			continue
		}

		if err := s.turn(ctx, input); err != nil {
			s.endRecording()
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		s.endRecording()
		return fmt.Errorf("reading input: %w", err)
	}
	s.endRecording()
	return nil
}

// isExit reports whether the input ends the session. Case and surrounding
// whitespace are ignored.
func isExit(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "exit", "quit":
		return true
	}
	return false
}

// turn runs one full user turn: first model query, at most one tool call,
// and (when a tool was called) a second query for the final reply.
func (s *Session) turn(ctx context.Context, input string) error {
	s.messages = append(s.messages, ai.NewTextMessage(ai.RoleUser, input))
	s.record(transcript.RecordUser, transcript.UserData{Content: input})

	first, err := s.provider.Complete(ctx, s.model, &ai.Context{
		Messages: s.messages,
		Tools:    functionDeclarations(),
	}, s.opts)
	if err != nil {
		return fmt.Errorf("model query: %w", err)
	}

	tu := first.ToolUse()
	if tu == nil {
		s.deliverReply(first, false)
		return nil
	}

	payload, isErr, err := s.invokeFunction(ctx, tu)
	if err != nil {
		return err
	}

	// Assistant turn recording the function call: name and raw argument
	// text, no natural-language content.
	s.messages = append(s.messages, ai.Message{
		Role:    ai.RoleAssistant,
		Content: []ai.Content{{Type: ai.ContentToolUse, ID: tu.ID, Name: tu.Name, Input: tu.Input}},
	})
	s.record(transcript.RecordToolCall, transcript.ToolCallData{
		Function:  tu.Name,
		Arguments: json.RawMessage(tu.Input),
	})

	// Function-result turn carrying the JSON-encoded result.
	s.messages = append(s.messages, ai.Message{
		Role:    ai.RoleUser,
		Content: []ai.Content{{Type: ai.ContentToolResult, ID: tu.ID, Name: tu.Name, ResultText: string(payload), IsError: isErr}},
	})
	s.record(transcript.RecordToolResult, transcript.ToolResultData{
		Function: tu.Name,
		Result:   payload,
	})

	// Second query, without the function declarations.
	second, err := s.provider.Complete(ctx, s.model, &ai.Context{Messages: s.messages}, s.opts)
	if err != nil {
		return fmt.Errorf("model query: %w", err)
	}

	s.deliverReply(second, true)
	return nil
}

// invokeFunction dispatches the model's function call and returns the
// JSON-encoded result to feed back as the tool turn. The bool marks a
// tool-level failure (the server answered without a result).
func (s *Session) invokeFunction(ctx context.Context, tu *ai.Content) (json.RawMessage, bool, error) {
	kind, err := parseFunction(tu.Name)
	if err != nil {
		return nil, false, err
	}

	switch kind {
	case funcListTools:
		tools, err := s.tools.ListTools(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("listing tools: %w", err)
		}
		payload, err := json.Marshal(tools)
		if err != nil {
			return nil, false, fmt.Errorf("encoding tool list: %w", err)
		}
		return payload, false, nil

	case funcCallTool:
		var args callToolArgs
		if err := json.Unmarshal(tu.Input, &args); err != nil {
			return nil, false, fmt.Errorf("decoding call_tool arguments: %w", err)
		}

		if hint := suggestTool(args.Name, s.knownTools); hint != "" {
			log.Warn("tool %q not in the startup listing; closest known tool is %q", args.Name, hint)
		}

		result, err := s.tools.CallTool(ctx, args.Name, args.Arguments)
		if err != nil {
			return nil, false, fmt.Errorf("calling tool %s: %w", args.Name, err)
		}
		if result == nil {
			// No result field (e.g. the server answered with an error
			// payload). The model narrates it.
			return json.RawMessage("null"), true, nil
		}
		return result, false, nil
	}

	return nil, false, fmt.Errorf("unhandled function kind %d", kind)
}

// deliverReply prints an assistant reply and appends it to the transcript.
func (s *Session) deliverReply(msg *ai.AssistantMessage, toolAssisted bool) {
	reply := strings.TrimSpace(msg.Text())

	fmt.Fprintln(s.out, s.render.ReplyPrefix(toolAssisted)+s.render.Markdown(reply))

	s.messages = append(s.messages, ai.NewTextMessage(ai.RoleAssistant, reply))
	s.record(transcript.RecordAssistant, transcript.AssistantData{
		Content:    reply,
		Model:      msg.Model,
		StopReason: string(msg.StopReason),
		Input:      msg.Usage.InputTokens,
		Output:     msg.Usage.OutputTokens,
	})
}

// runCommand dispatches a slash command; command failures never end the
// session.
func (s *Session) runCommand(ctx context.Context, input string) {
	out, err := s.commands.Dispatch(ctx, s, input)
	if err != nil {
		fmt.Fprintln(s.out, s.render.Notice("error: "+err.Error()))
		return
	}
	if out != "" {
		fmt.Fprintln(s.out, out)
	}
}

// record writes a transcript record when recording is enabled.
func (s *Session) record(recType transcript.RecordType, data any) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.WriteRecord(recType, data); err != nil {
		log.Warn("transcript: %v", err)
	}
}

func (s *Session) endRecording() {
	if s.recorder == nil {
		return
	}
	s.record(transcript.RecordSessionEnd, struct{}{})
}
