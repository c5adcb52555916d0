// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"time"

	"github.com/go-a2a/agenthub"
)

// claudeCommand is the CLI binary the Claude adapter invokes.
const claudeCommand = "claude"

// Claude wraps the Claude Code CLI. It invokes the locally installed
// `claude` command with `--print --output-format json` for blocking
// execution and `stream-json` for streaming, so it rides on the user's
// existing subscription and authentication.
type Claude struct {
	model   string
	timeout time.Duration
}

// ClaudeOption configures the Claude adapter.
type ClaudeOption func(*Claude)

// WithClaudeModel overrides the model, e.g. "sonnet" or "opus".
func WithClaudeModel(model string) ClaudeOption {
	return func(c *Claude) { c.model = model }
}

// WithClaudeTimeout overrides the per-invocation timeout.
func WithClaudeTimeout(timeout time.Duration) ClaudeOption {
	return func(c *Claude) { c.timeout = timeout }
}

// NewClaude creates a Claude Code adapter.
func NewClaude(opts ...ClaudeOption) *Claude {
	c := &Claude{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Adapter.
func (c *Claude) Name() string { return "claude-code" }

// DisplayName implements Adapter.
func (c *Claude) DisplayName() string { return "Claude Code" }

// Description implements Adapter.
func (c *Claude) Description() string {
	return "Anthropic's Claude Code CLI, an agentic coding assistant for code generation, review, debugging and complex development tasks."
}

// Skills implements Adapter.
func (c *Claude) Skills() []agenthub.AgentSkill {
	return []agenthub.AgentSkill{
		{
			ID:          "code-generation",
			Name:        "Code Generation",
			Description: "Generate code from natural language descriptions",
			Tags:        []string{"coding", "generation", "development"},
			Examples: []string{
				"Write a Python function to parse JSON",
				"Implement a binary search algorithm in Go",
			},
		},
		{
			ID:          "code-review",
			Name:        "Code Review",
			Description: "Review and analyze code for issues, bugs, and improvements",
			Tags:        []string{"coding", "review", "analysis", "quality"},
			Examples: []string{
				"Review this code for security vulnerabilities",
				"Find potential bugs in this module",
			},
		},
		{
			ID:          "debugging",
			Name:        "Debugging Assistance",
			Description: "Help debug and fix code issues",
			Tags:        []string{"coding", "debugging", "troubleshooting", "fix"},
			Examples: []string{
				"Why is this test failing?",
				"Debug this async race condition",
			},
		},
		{
			ID:          "refactoring",
			Name:        "Code Refactoring",
			Description: "Improve code structure and maintainability",
			Tags:        []string{"coding", "refactoring", "cleanup", "optimization"},
			Examples: []string{
				"Refactor this function to be more readable",
				"Extract common logic into a utility",
			},
		},
		{
			ID:          "explanation",
			Name:        "Code Explanation",
			Description: "Explain how code works",
			Tags:        []string{"coding", "explanation", "documentation", "learning"},
			Examples: []string{
				"Explain how this algorithm works",
				"What does this regex do?",
			},
		},
	}
}

// SupportsStreaming implements Adapter.
func (c *Claude) SupportsStreaming() bool { return true }

// HealthCheck implements Adapter.
func (c *Claude) HealthCheck(ctx context.Context) error {
	return checkCommand(ctx, claudeCommand, "--version")
}

// Execute implements Adapter using `claude --print --output-format json`.
func (c *Claude) Execute(ctx context.Context, prompt string, history []*agenthub.Message) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"--print", "--output-format", "json"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	args = append(args, FullPrompt(prompt, history))

	output, err := runCommand(ctx, claudeCommand, args...)
	if err != nil {
		return nil, err
	}

	content, raw := parseJSONOutput(output)
	return &Result{Content: content, Raw: raw}, nil
}

// ExecuteStream implements Adapter using the stream-json output format.
func (c *Claude) ExecuteStream(ctx context.Context, prompt string, history []*agenthub.Message) (<-chan Chunk, error) {
	args := []string{"--print", "--output-format", "stream-json"}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	args = append(args, FullPrompt(prompt, history))

	return streamCommand(ctx, func(line string) Chunk {
		if text := parseStreamLine(line); text != "" {
			return Chunk{Content: text, Kind: ChunkKindText}
		}
		return Chunk{}
	}, claudeCommand, args...)
}
