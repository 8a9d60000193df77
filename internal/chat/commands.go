// ABOUTME: Slash command registry and dispatch for the interactive loop
// ABOUTME: help, tools, clear, save, quit; commands never touch the model

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/terrachat/terrachat/internal/transcript"
)

// Command represents one slash command.
type Command struct {
	Name        string
	Description string
	Run         func(ctx context.Context, s *Session, args string) (string, error)
}

// Registry holds the registered slash commands.
type Registry struct {
	commands map[string]*Command
}

// isCommand reports whether the input line is a slash command.
func isCommand(input string) bool {
	return strings.HasPrefix(strings.TrimSpace(input), "/")
}

func newRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}

	r.register(&Command{
		Name:        "help",
		Description: "List available commands",
		Run: func(_ context.Context, s *Session, _ string) (string, error) {
			var b strings.Builder
			for _, cmd := range r.list() {
				fmt.Fprintf(&b, "/%-8s %s\n", cmd.Name, cmd.Description)
			}
			return s.render.Notice(strings.TrimRight(b.String(), "\n")), nil
		},
	})

	r.register(&Command{
		Name:        "tools",
		Description: "List the server's tools",
		Run: func(ctx context.Context, s *Session, _ string) (string, error) {
			tools, err := s.tools.ListTools(ctx)
			if err != nil {
				return "", fmt.Errorf("listing tools: %w", err)
			}
			if len(tools) == 0 {
				return s.render.Notice("no tools available"), nil
			}
			var b strings.Builder
			for _, t := range tools {
				fmt.Fprintf(&b, "%-32s %s\n", t.Name, t.Description)
			}
			return s.render.Notice(strings.TrimRight(b.String(), "\n")), nil
		},
	})

	r.register(&Command{
		Name:        "clear",
		Description: "Reset the in-memory conversation",
		Run: func(_ context.Context, s *Session, _ string) (string, error) {
			s.messages = nil
			return s.render.Notice("conversation cleared"), nil
		},
	})

	r.register(&Command{
		Name:        "save",
		Description: "Copy the transcript JSONL to a file",
		Run: func(_ context.Context, s *Session, args string) (string, error) {
			if s.recorder == nil {
				return "", fmt.Errorf("recording is disabled; start with --record")
			}
			dst := strings.TrimSpace(args)
			if dst == "" {
				dst = filepath.Base(s.recorder.Path())
			}
			records, err := transcript.ReadRecords(s.recorder.Path())
			if err != nil {
				return "", fmt.Errorf("reading transcript: %w", err)
			}
			var buf bytes.Buffer
			for _, rec := range records {
				line, err := json.Marshal(rec)
				if err != nil {
					return "", fmt.Errorf("encoding record: %w", err)
				}
				buf.Write(line)
				buf.WriteByte('\n')
			}
			if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
				return "", fmt.Errorf("writing %s: %w", dst, err)
			}
			return s.render.Notice(fmt.Sprintf("saved %d records to %s", len(records), dst)), nil
		},
	})

	r.register(&Command{
		Name:        "quit",
		Description: "End the session",
		Run: func(_ context.Context, s *Session, _ string) (string, error) {
			s.quit = true
			return "", nil
		},
	})

	return r
}

func (r *Registry) register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// list returns the commands sorted by name for deterministic output.
func (r *Registry) list() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Dispatch parses "/command args", looks the command up, and executes it.
func (r *Registry) Dispatch(ctx context.Context, s *Session, input string) (string, error) {
	raw := strings.TrimSpace(input)[1:]
	parts := strings.SplitN(raw, " ", 2)
	name := parts[0]
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	cmd, ok := r.commands[name]
	if !ok {
		return "", fmt.Errorf("unknown command /%s (try /help)", name)
	}
	return cmd.Run(ctx, s, args)
}
