// ABOUTME: CLI entry point: config, provider, tool-server handshake, chat loop
// ABOUTME: Pure composition; all state lives in the client and the session

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/terrachat/terrachat/internal/chat"
	"github.com/terrachat/terrachat/internal/config"
	"github.com/terrachat/terrachat/internal/log"
	"github.com/terrachat/terrachat/internal/mcp"
	"github.com/terrachat/terrachat/internal/transcript"
	"github.com/terrachat/terrachat/pkg/ai"
	"github.com/terrachat/terrachat/pkg/ai/provider/openai"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	args := parseFlags()

	if args.version {
		fmt.Printf("terrachat %s (%s)\n", version, commit)
		os.Exit(0)
	}

	if args.verbose {
		log.SetLevel(log.LevelDebug)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}

	settings, err := config.Load(cwd)
	if err != nil {
		return err
	}
	applyFlags(settings, args)

	if os.Getenv("OPENAI_API_KEY") == "" {
		log.Warn("OPENAI_API_KEY is not set; model queries will fail")
	}

	model := resolveModel(settings.Model)

	ai.RegisterProvider(ai.ApiOpenAI, func(baseURL string) ai.Provider {
		return openai.New("", baseURL)
	})
	provider := ai.GetProvider(model.Api, settings.BaseURL)
	if provider == nil {
		return fmt.Errorf("no provider registered for %q", model.Api)
	}

	client, tools, err := connectToolServer(ctx, settings, args.server)
	if err != nil {
		return err
	}
	defer client.Close()

	names := make([]string, len(tools))
	for i, t := range tools {
		names[i] = t.Name
	}
	fmt.Printf("Available tools: %s\n", strings.Join(names, ", "))

	recorder, err := openRecorder(settings, model)
	if err != nil {
		return err
	}
	if recorder != nil {
		defer recorder.Close()
	}

	session := chat.NewSession(chat.Config{
		Provider:   provider,
		Model:      model,
		Tools:      client,
		Options:    &ai.Options{MaxTokens: settings.MaxTokens, Temperature: settings.Temperature},
		KnownTools: names,
		Recorder:   recorder,
	})
	return session.Run(ctx)
}

// applyFlags overlays command-line flags onto the loaded settings.
func applyFlags(settings *config.Settings, args cliArgs) {
	if args.model != "" {
		settings.Model = args.model
	}
	if args.baseURL != "" {
		settings.BaseURL = args.baseURL
	}
	if args.timeout > 0 {
		settings.ServerTimeout = config.Duration(args.timeout)
	}
	if args.record {
		settings.Record = true
	}
}

// resolveModel maps a configured model ID onto the built-in table, falling
// back to an OpenAI-compatible custom model so any server-side ID works.
func resolveModel(id string) *ai.Model {
	if id == "" {
		return &ai.DefaultModel
	}
	if m := ai.FindModel(id); m != nil {
		return m
	}
	log.Info("model %q is not built in; assuming an OpenAI-compatible endpoint", id)
	return &ai.Model{ID: id, Name: id, Api: ai.ApiOpenAI, SupportsTools: true}
}

// connectToolServer spawns the tool server, runs the handshake, and fetches
// the startup tool listing. Launch-command precedence: --server flag, then
// MCP_CMD, then the config file, then the built-in default.
func connectToolServer(ctx context.Context, settings *config.Settings, flagServer string) (*mcp.Client, []mcp.ToolDescriptor, error) {
	raw := flagServer
	if raw == "" {
		raw = os.Getenv("MCP_CMD")
	}
	if raw == "" {
		raw = settings.Server
	}
	srvCfg := mcp.ServerConfigFromEnv(raw)
	srvCfg.Timeout = settings.ServerTimeout.Std()
	srvCfg.Env = settings.Env

	transport, err := mcp.Spawn(ctx, srvCfg)
	if err != nil {
		return nil, nil, err
	}

	client := mcp.NewClient(transport)
	init, err := client.Initialize(ctx)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	fmt.Printf("Connected to %s %s\n", init.ServerInfo.Name, init.ServerInfo.Version)

	tools, err := client.ListTools(ctx)
	if err != nil {
		client.Close()
		return nil, nil, err
	}
	return client, tools, nil
}

// openRecorder creates the JSONL transcript writer when recording is on.
func openRecorder(settings *config.Settings, model *ai.Model) (*transcript.Writer, error) {
	if !settings.Record {
		return nil, nil
	}

	sessionID := uuid.NewString()
	recorder, err := transcript.NewWriter(config.TranscriptsDir(), sessionID)
	if err != nil {
		return nil, err
	}

	if err := recorder.WriteRecord(transcript.RecordSessionStart, transcript.SessionStartData{
		ID:     sessionID,
		Model:  model.ID,
		Server: settings.Server,
	}); err != nil {
		recorder.Close()
		return nil, err
	}

	log.Info("recording session to %s", recorder.Path())
	return recorder, nil
}
