// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/go-a2a/agenthub"
)

// maxScanTokenSize bounds a single streamed output line. CLI tools emitting
// one JSON object per line stay far below this.
const maxScanTokenSize = 1024 * 1024

// runCommand executes a CLI tool to completion. It returns stdout on
// success and an ExecutionError carrying stderr (or the exit status) on a
// non-zero exit. Context cancellation kills the process.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return "", &agenthub.ExecutionError{
			AgentID: name,
			Err:     fmt.Errorf("%s", detail),
		}
	}
	return stdout.String(), nil
}

// streamCommand executes a CLI tool and emits its stdout line by line on
// the returned channel. The channel closes after the process exits; a
// non-zero exit or scan failure is reported as a final error chunk.
// Context cancellation kills the process and ends the stream.
func streamCommand(ctx context.Context, parse func(line string) Chunk, name string, args ...string) (<-chan Chunk, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, &agenthub.ExecutionError{AgentID: name, Err: err}
	}
	if err := cmd.Start(); err != nil {
		return nil, &agenthub.ExecutionError{AgentID: name, Err: err}
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			chunk := parse(line)
			if chunk == (Chunk{}) {
				// Nothing worth forwarding on this line.
				continue
			}
			select {
			case out <- chunk:
			case <-ctx.Done():
				cmd.Wait()
				return
			}
			if chunk.Final {
				cmd.Wait()
				return
			}
		}

		err := cmd.Wait()
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			detail := strings.TrimSpace(stderr.String())
			if detail == "" {
				detail = err.Error()
			}
			out <- Chunk{
				Kind:  ChunkKindError,
				Final: true,
				Err:   &agenthub.ExecutionError{AgentID: name, Err: fmt.Errorf("%s", detail)},
			}
			return
		}
		out <- Chunk{Kind: ChunkKindText, Final: true}
	}()

	return out, nil
}

// checkCommand runs a CLI tool with a version flag to verify it is
// installed and responsive.
func checkCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s is not available: %w", name, err)
	}
	return nil
}

// parseJSONOutput decodes CLI output that may be JSON or plain text. JSON
// output yields the extracted text content and the raw decoded object;
// anything else is returned verbatim.
func parseJSONOutput(output string) (content string, raw map[string]any) {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return "", nil
	}

	var data any
	if err := sonic.UnmarshalString(trimmed, &data); err != nil {
		return trimmed, nil
	}

	raw, _ = data.(map[string]any)
	return extractContent(data), raw
}

// extractContent pulls text out of the decoded JSON shapes the supported
// CLIs emit: a plain string, an array of responses, or an object keyed by
// one of the common response field names.
func extractContent(data any) string {
	switch v := data.(type) {
	case string:
		return v
	case []any:
		var parts []string
		for _, item := range v {
			if s := extractContent(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	case map[string]any:
		for _, field := range []string{"result", "content", "text", "response", "message", "output"} {
			if value, ok := v[field]; ok {
				if s := extractContent(value); s != "" {
					return s
				}
			}
		}
		if v["type"] == "text" {
			if text, ok := v["text"].(string); ok {
				return text
			}
		}
		return ""
	default:
		return ""
	}
}

// parseStreamLine decodes one line of stream-json output into its text
// delta. Non-JSON lines pass through as plain text.
func parseStreamLine(line string) string {
	var data map[string]any
	if err := sonic.UnmarshalString(line, &data); err != nil {
		return line
	}

	if text, ok := data["text"].(string); ok {
		return text
	}
	if delta, ok := data["delta"].(map[string]any); ok {
		if text, ok := delta["text"].(string); ok {
			return text
		}
	}
	switch content := data["content"].(type) {
	case string:
		return content
	case []any:
		var sb strings.Builder
		for _, item := range content {
			if obj, ok := item.(map[string]any); ok && obj["type"] == "text" {
				if text, ok := obj["text"].(string); ok {
					sb.WriteString(text)
				}
			}
		}
		return sb.String()
	}
	return ""
}
