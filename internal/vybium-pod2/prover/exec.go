package prover

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// ExecBackend runs a prover binary once per request.
//
// The binary reads two JSON lines on stdin, the artifacts and then the
// signals, and writes the result as one JSON line on stdout. Progress goes
// to stderr.
type ExecBackend struct {
	Command string
	Args    []string

	// Timeout bounds a single run when non-zero
	Timeout time.Duration

	// Env is appended to the inherited environment
	Env []string
}

// NewExecBackend returns a backend running command with args
func NewExecBackend(command string, args ...string) *ExecBackend {
	return &ExecBackend{Command: command, Args: args}
}

// Prove implements Backend
func (b *ExecBackend) Prove(ctx context.Context, req *Request) (*Result, error) {
	if b.Command == "" {
		return nil, fmt.Errorf("prover: exec backend has no command")
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	artifacts, err := json.Marshal(req.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("prover: encode artifacts: %w", err)
	}
	var stdin bytes.Buffer
	stdin.Write(artifacts)
	stdin.WriteByte('\n')
	stdin.Write(compact(req.Signals))
	stdin.WriteByte('\n')

	cmd := exec.CommandContext(ctx, b.Command, b.Args...)
	cmd.Stdin = &stdin
	if len(b.Env) > 0 {
		cmd.Env = append(cmd.Environ(), b.Env...)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	slog.Info("proving", "request_id", req.RequestID, "backend", "exec", "command", b.Command)

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("prover: %s: %w", b.Command, ctx.Err())
		}
		return nil, fmt.Errorf("prover: %s: %w: %s", b.Command, err, lastLine(stderr.Bytes()))
	}
	logProgress(req.RequestID, stderr.Bytes())

	line := lastLine(stdout.Bytes())
	if line == "" {
		return nil, ErrEmptyProof
	}
	var result Result
	if err := json.Unmarshal([]byte(line), &result); err != nil {
		return nil, fmt.Errorf("prover: decode result: %w", err)
	}
	if err := result.validate(); err != nil {
		return nil, err
	}

	slog.Info("proof generated", "request_id", req.RequestID, "backend", "exec",
		"public_signals", len(result.PublicSignals), "elapsed", time.Since(start))
	return &result, nil
}

func compact(data []byte) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}

func lastLine(data []byte) string {
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}

func logProgress(requestID string, stderr []byte) {
	scanner := bufio.NewScanner(bytes.NewReader(stderr))
	for scanner.Scan() {
		if text := strings.TrimSpace(scanner.Text()); text != "" {
			slog.Debug("prover output", "request_id", requestID, "line", text)
		}
	}
}
