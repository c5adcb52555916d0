// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package adapter wraps command-line AI tools behind a uniform execution
// interface. Each adapter invokes a locally installed CLI (or a local HTTP
// service in the Ollama case) via the user's existing installation and
// authentication, and converts its output into text the task manager can
// turn into artifacts.
package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-a2a/agenthub"
)

// DefaultTimeout bounds a single adapter invocation unless overridden.
const DefaultTimeout = 120 * time.Second

// Chunk kinds emitted on the streaming path.
const (
	ChunkKindText          = "text"
	ChunkKindError         = "error"
	ChunkKindInputRequired = "input-required"
)

// Result is the outcome of a blocking execution.
type Result struct {
	// Content is the extracted text response.
	Content string
	// Raw holds the decoded CLI output when it was JSON.
	Raw map[string]any
	// InputRequired signals that the tool paused waiting for more user
	// input rather than producing a final answer.
	InputRequired bool
	// Metadata carries adapter-specific details such as token counts.
	Metadata map[string]any
}

// Chunk is one unit of streamed output. A chunk with Final set closes the
// stream; its Content, if any, is the last piece of the response.
type Chunk struct {
	Content string
	Kind    string
	Final   bool
	Err     error
}

// Adapter is the execution contract between the hub and one AI tool.
// Implementations must honor context cancellation on both execution paths:
// a canceled context kills the underlying process or request.
type Adapter interface {
	// Name uniquely identifies the adapter, e.g. "claude-code".
	Name() string
	// DisplayName is the human-readable name, e.g. "Claude Code".
	DisplayName() string
	// Description summarizes the tool's capabilities.
	Description() string
	// Skills the adapter provides, used for capability-based routing.
	Skills() []agenthub.AgentSkill
	// SupportsStreaming reports whether ExecuteStream is implemented
	// natively. The task manager falls back to Execute when it is false.
	SupportsStreaming() bool
	// Execute runs the prompt to completion and returns the full result.
	Execute(ctx context.Context, prompt string, history []*agenthub.Message) (*Result, error)
	// ExecuteStream runs the prompt and emits chunks as they arrive. The
	// returned channel is closed after the final chunk.
	ExecuteStream(ctx context.Context, prompt string, history []*agenthub.Message) (<-chan Chunk, error)
	// HealthCheck verifies the underlying tool is installed and responding.
	HealthCheck(ctx context.Context) error
}

// MessageToPrompt flattens a message into prompt text. Text parts
// contribute their content, file parts a bracketed reference, data parts a
// string rendering.
func MessageToPrompt(msg *agenthub.Message) string {
	if msg == nil {
		return ""
	}
	var parts []string
	for _, part := range msg.Parts {
		switch part.Kind {
		case agenthub.PartKindText:
			parts = append(parts, part.Text)
		case agenthub.PartKindFile:
			if part.File != nil {
				switch {
				case part.File.Name != "":
					parts = append(parts, fmt.Sprintf("[File: %s]", part.File.Name))
				case part.File.URI != "":
					parts = append(parts, fmt.Sprintf("[File: %s]", part.File.URI))
				}
			}
		case agenthub.PartKindData:
			parts = append(parts, fmt.Sprintf("%v", part.Data))
		}
	}
	return strings.Join(parts, "\n")
}

// BuildContextPrompt renders prior conversation history as "User:" and
// "Assistant:" lines for tools without native conversation state.
func BuildContextPrompt(history []*agenthub.Message) string {
	if len(history) == 0 {
		return ""
	}
	var lines []string
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == agenthub.RoleUser {
			role = "User"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", role, MessageToPrompt(msg)))
	}
	return strings.Join(lines, "\n")
}

// FullPrompt combines conversation history with the current prompt. With no
// history it returns the prompt unchanged.
func FullPrompt(prompt string, history []*agenthub.Message) string {
	if len(history) == 0 {
		return prompt
	}
	return fmt.Sprintf("%s\n\nUser: %s", BuildContextPrompt(history), prompt)
}
