// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"time"

	"github.com/go-a2a/agenthub"
)

// codexCommand is the CLI binary the Codex adapter invokes.
const codexCommand = "codex"

// Codex sandbox modes.
const (
	SandboxReadOnly       = "read-only"
	SandboxWorkspaceWrite = "workspace-write"
	SandboxFullAccess     = "danger-full-access"
)

// Codex wraps the OpenAI Codex CLI via `codex exec --json`. The sandbox
// mode defaults to read-only so routed tasks cannot modify the workspace
// unless explicitly allowed.
type Codex struct {
	model   string
	sandbox string
	timeout time.Duration
}

// CodexOption configures the Codex adapter.
type CodexOption func(*Codex)

// WithCodexModel overrides the model.
func WithCodexModel(model string) CodexOption {
	return func(c *Codex) { c.model = model }
}

// WithCodexSandbox sets the sandbox mode.
func WithCodexSandbox(mode string) CodexOption {
	return func(c *Codex) { c.sandbox = mode }
}

// WithCodexTimeout overrides the per-invocation timeout.
func WithCodexTimeout(timeout time.Duration) CodexOption {
	return func(c *Codex) { c.timeout = timeout }
}

// NewCodex creates a Codex CLI adapter.
func NewCodex(opts ...CodexOption) *Codex {
	c := &Codex{sandbox: SandboxReadOnly, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements Adapter.
func (c *Codex) Name() string { return "codex-cli" }

// DisplayName implements Adapter.
func (c *Codex) DisplayName() string { return "Codex CLI" }

// Description implements Adapter.
func (c *Codex) Description() string {
	return "OpenAI's Codex CLI for code generation, file operations, command execution and project scaffolding inside a sandbox."
}

// Skills implements Adapter.
func (c *Codex) Skills() []agenthub.AgentSkill {
	return []agenthub.AgentSkill{
		{
			ID:          "code-generation",
			Name:        "Code Generation",
			Description: "Generate code from natural language descriptions",
			Tags:        []string{"coding", "generation", "development"},
			Examples: []string{
				"Write a CLI tool in Rust",
				"Create a REST API endpoint",
			},
		},
		{
			ID:          "file-operations",
			Name:        "File Operations",
			Description: "Create and edit files in the workspace",
			Tags:        []string{"files", "editing", "workspace"},
			Examples: []string{
				"Create a Makefile for this project",
				"Update the README with usage examples",
			},
		},
		{
			ID:          "code-execution",
			Name:        "Code Execution",
			Description: "Run shell commands and scripts",
			Tags:        []string{"execution", "shell", "commands"},
			Examples: []string{
				"Run the test suite and summarize failures",
				"Check which dependencies are outdated",
			},
		},
		{
			ID:          "project-scaffolding",
			Name:        "Project Scaffolding",
			Description: "Set up new projects and boilerplate",
			Tags:        []string{"scaffolding", "setup", "initialization"},
			Examples: []string{
				"Scaffold a new Go module",
				"Set up a CI workflow",
			},
		},
	}
}

// SupportsStreaming implements Adapter.
func (c *Codex) SupportsStreaming() bool { return true }

// HealthCheck implements Adapter.
func (c *Codex) HealthCheck(ctx context.Context) error {
	return checkCommand(ctx, codexCommand, "--version")
}

// Execute implements Adapter using `codex exec --json`.
func (c *Codex) Execute(ctx context.Context, prompt string, history []*agenthub.Message) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := []string{"exec", "--json", "--sandbox", c.sandbox}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	args = append(args, FullPrompt(prompt, history))

	output, err := runCommand(ctx, codexCommand, args...)
	if err != nil {
		return nil, err
	}

	content, raw := parseJSONOutput(output)
	return &Result{Content: content, Raw: raw}, nil
}

// ExecuteStream implements Adapter. The exec subcommand already emits one
// JSON event per line, so streaming reuses the same invocation.
func (c *Codex) ExecuteStream(ctx context.Context, prompt string, history []*agenthub.Message) (<-chan Chunk, error) {
	args := []string{"exec", "--json", "--sandbox", c.sandbox}
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	args = append(args, FullPrompt(prompt, history))

	return streamCommand(ctx, func(line string) Chunk {
		if text := parseStreamLine(line); text != "" {
			return Chunk{Content: text, Kind: ChunkKindText}
		}
		return Chunk{}
	}, codexCommand, args...)
}
