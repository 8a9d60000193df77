// ABOUTME: Stdio transport: spawns the tool server and speaks newline-delimited JSON-RPC
// ABOUTME: Strictly sequential write/read pairs under one mutex, with id validation and timeouts

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/terrachat/terrachat/internal/log"
)

const maxScannerBuffer = 10 * 1024 * 1024 // 10MB

// DefaultTimeout bounds each request/response round trip when the server
// config does not specify one.
const DefaultTimeout = 60 * time.Second

// StdioTransport owns a child tool-server process and exchanges one
// newline-terminated JSON object per request and response on its pipes.
//
// The protocol is strictly sequential: a mutex serializes the write/read
// pair, so at most one request is in flight and the next line read is the
// response to the request just written. Response ids are still validated
// against request ids; a mismatch fails with ErrIDMismatch.
type StdioTransport struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.Reader
	timeout time.Duration

	mu     sync.Mutex // serializes Send; guards nextID
	nextID int64

	lines   chan []byte
	scanErr error // set by recvLoop before closing lines

	group     *errgroup.Group
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Spawn starts the configured tool-server command and returns a transport
// connected to its stdin/stdout. Stderr is drained to the logger so server
// diagnostics never corrupt the protocol stream.
func Spawn(ctx context.Context, cfg ServerConfig) (*StdioTransport, error) {
	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	if env := cfg.environ(); len(env) > 0 {
		cmd.Env = env
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting tool server %q: %w", cfg.Command, err)
	}

	t := newPipeTransport(stdin, stdout, cfg.timeout())
	t.cmd = cmd
	t.group.Go(func() error {
		drainStderr(cfg.Command, stderr)
		return nil
	})

	return t, nil
}

// newPipeTransport wires a transport over arbitrary pipes. Tests use this
// directly with io.Pipe to stub the server side.
func newPipeTransport(stdin io.WriteCloser, stdout io.Reader, timeout time.Duration) *StdioTransport {
	t := &StdioTransport{
		stdin:   stdin,
		stdout:  stdout,
		timeout: timeout,
		lines:   make(chan []byte, 1),
		done:    make(chan struct{}),
		group:   &errgroup.Group{},
	}
	t.group.Go(func() error {
		t.recvLoop(stdout)
		return nil
	})
	return t
}

// Send marshals one request, writes it, and blocks until the matching
// response line is read back, the context expires, or the transport closes.
// Request ids are unique and strictly increasing for the transport's lifetime.
func (t *StdioTransport) Send(ctx context.Context, method string, params any) (*Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.done:
		return nil, ErrClosed
	default:
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	if params == nil {
		params = map[string]any{}
	}
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshaling params: %w", err)
	}

	t.nextID++
	req := Request{
		JSONRPC: jsonRPCVersion,
		ID:      t.nextID,
		Method:  method,
		Params:  rawParams,
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}
	data = append(data, '\n')

	if _, err := t.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}
	log.Debug(">>> rpc %s (id=%d) params=%v", method, req.ID, topLevelKeys(rawParams))

	resp, err := t.awaitResponse(ctx, &req)
	if err != nil {
		return nil, err
	}

	logResponse(method, resp)
	return resp, nil
}

// awaitResponse blocks for the next response line and validates its id.
func (t *StdioTransport) awaitResponse(ctx context.Context, req *Request) (*Response, error) {
	select {
	case line, ok := <-t.lines:
		if !ok {
			if t.scanErr != nil {
				return nil, fmt.Errorf("reading response: %w", t.scanErr)
			}
			return nil, fmt.Errorf("%w: server closed its output", ErrClosed)
		}

		var resp Response
		if err := json.Unmarshal(line, &resp); err != nil {
			return nil, fmt.Errorf("parsing response: %w", err)
		}
		if resp.ID != req.ID {
			return nil, fmt.Errorf("%w: got %d, want %d", ErrIDMismatch, resp.ID, req.ID)
		}
		return &resp, nil

	case <-ctx.Done():
		// If the response arrives later it stays queued in t.lines; a
		// timed-out request is never retried, and the session treats the
		// timeout as fatal, so no subsequent Send observes the stale line.
		return nil, fmt.Errorf("awaiting %s response (id=%d): %w", req.Method, req.ID, ctx.Err())

	case <-t.done:
		return nil, ErrClosed
	}
}

// Close shuts the child's stdin, waits for the readers, and reaps the process.
func (t *StdioTransport) Close() error {
	t.closeOnce.Do(func() {
		close(t.done)
		t.stdin.Close()
		// Without a child process there is no EOF coming; unblock the
		// reader by closing its end of the pipe.
		if t.cmd == nil {
			if c, ok := t.stdout.(io.Closer); ok {
				c.Close()
			}
		}
		_ = t.group.Wait()
		if t.cmd != nil {
			t.closeErr = t.cmd.Wait()
		}
	})
	return t.closeErr
}

// recvLoop reads newline-delimited JSON from the server's stdout. Lines
// without an id (server notifications) are logged and skipped; everything
// else is handed to the pending Send.
func (t *StdioTransport) recvLoop(stdout io.Reader) {
	defer close(t.lines)

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, maxScannerBuffer), maxScannerBuffer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var probe struct {
			ID     *int64 `json:"id"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal(line, &probe); err == nil && probe.ID == nil {
			log.Debug("mcp: ignoring notification %q", probe.Method)
			continue
		}

		select {
		case t.lines <- append([]byte(nil), line...):
		case <-t.done:
			return
		}
	}
	t.scanErr = scanner.Err()
}

// drainStderr forwards the server's stderr to the logger line by line.
func drainStderr(command string, stderr io.Reader) {
	scanner := bufio.NewScanner(stderr)
	for scanner.Scan() {
		log.Warn("%s: %s", command, scanner.Text())
	}
}

// logResponse mirrors the request diagnostic: which top-level keys came back.
func logResponse(method string, resp *Response) {
	switch {
	case resp.Result != nil:
		log.Debug("<<< rpc %s (id=%d) result_keys=%v", method, resp.ID, topLevelKeys(resp.Result))
	case resp.Error != nil:
		log.Debug("<<< rpc %s (id=%d) error code=%d msg=%q", method, resp.ID, resp.Error.Code, resp.Error.Message)
	default:
		log.Debug("<<< rpc %s (id=%d) empty response", method, resp.ID)
	}
}
