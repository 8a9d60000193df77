// ABOUTME: CLI flag parsing using the stdlib flag package
// ABOUTME: Supports --model, --base-url, --server, --timeout, --record, --verbose, --version

package main

import (
	"flag"
	"time"
)

type cliArgs struct {
	model   string
	baseURL string
	server  string
	timeout time.Duration
	record  bool
	verbose bool
	version bool
}

func parseFlags() cliArgs {
	var args cliArgs

	flag.StringVar(&args.model, "model", "", "Model to use (e.g., gpt-4o-mini)")
	flag.StringVar(&args.baseURL, "base-url", "", "Custom API base URL")
	flag.StringVar(&args.server, "server", "", "Tool server launch command (overrides MCP_CMD)")
	flag.DurationVar(&args.timeout, "timeout", 0, "Per-request tool-server timeout (e.g., 30s)")
	flag.BoolVar(&args.record, "record", false, "Record the session as JSONL")
	flag.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	flag.BoolVar(&args.version, "version", false, "Show version and exit")

	flag.Parse()
	return args
}
