// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"time"

	"github.com/go-a2a/agenthub"
)

// geminiCommand is the CLI binary the Gemini adapter invokes.
const geminiCommand = "gemini"

// Gemini wraps the Gemini CLI. Prompt text goes on the command line with
// `--output-format json` (or `stream-json` when streaming).
type Gemini struct {
	model   string
	timeout time.Duration
}

// GeminiOption configures the Gemini adapter.
type GeminiOption func(*Gemini)

// WithGeminiModel overrides the model, e.g. "gemini-2.5-pro".
func WithGeminiModel(model string) GeminiOption {
	return func(g *Gemini) { g.model = model }
}

// WithGeminiTimeout overrides the per-invocation timeout.
func WithGeminiTimeout(timeout time.Duration) GeminiOption {
	return func(g *Gemini) { g.timeout = timeout }
}

// NewGemini creates a Gemini CLI adapter.
func NewGemini(opts ...GeminiOption) *Gemini {
	g := &Gemini{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Adapter.
func (g *Gemini) Name() string { return "gemini-cli" }

// DisplayName implements Adapter.
func (g *Gemini) DisplayName() string { return "Gemini CLI" }

// Description implements Adapter.
func (g *Gemini) Description() string {
	return "Google's Gemini CLI for general reasoning, code assistance, web search and long-context analysis."
}

// Skills implements Adapter.
func (g *Gemini) Skills() []agenthub.AgentSkill {
	return []agenthub.AgentSkill{
		{
			ID:          "general-reasoning",
			Name:        "General Reasoning",
			Description: "Analyze problems and reason through complex questions",
			Tags:        []string{"reasoning", "analysis", "problem-solving", "thinking"},
			Examples: []string{
				"Compare these two architectural approaches",
				"What are the tradeoffs of this design?",
			},
		},
		{
			ID:          "code-assistance",
			Name:        "Code Assistance",
			Description: "Help with coding tasks and code understanding",
			Tags:        []string{"coding", "development", "debugging", "review"},
			Examples: []string{
				"Explain this function",
				"Help me fix this error",
			},
		},
		{
			ID:          "web-search",
			Name:        "Web Search",
			Description: "Search the web for current information",
			Tags:        []string{"search", "research", "current-events", "facts"},
			Examples: []string{
				"What are the latest Go releases?",
				"Find documentation for this library",
			},
		},
		{
			ID:          "long-context",
			Name:        "Long Context Analysis",
			Description: "Analyze large documents and codebases",
			Tags:        []string{"analysis", "documents", "large-context"},
			Examples: []string{
				"Summarize this specification",
				"Analyze this large log file",
			},
		},
	}
}

// SupportsStreaming implements Adapter.
func (g *Gemini) SupportsStreaming() bool { return true }

// HealthCheck implements Adapter.
func (g *Gemini) HealthCheck(ctx context.Context) error {
	return checkCommand(ctx, geminiCommand, "--version")
}

// Execute implements Adapter using `gemini --output-format json`.
func (g *Gemini) Execute(ctx context.Context, prompt string, history []*agenthub.Message) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	args := []string{"--output-format", "json"}
	if g.model != "" {
		args = append(args, "--model", g.model)
	}
	args = append(args, FullPrompt(prompt, history))

	output, err := runCommand(ctx, geminiCommand, args...)
	if err != nil {
		return nil, err
	}

	content, raw := parseJSONOutput(output)
	return &Result{Content: content, Raw: raw}, nil
}

// ExecuteStream implements Adapter using the stream-json output format.
func (g *Gemini) ExecuteStream(ctx context.Context, prompt string, history []*agenthub.Message) (<-chan Chunk, error) {
	args := []string{"--output-format", "stream-json"}
	if g.model != "" {
		args = append(args, "--model", g.model)
	}
	args = append(args, FullPrompt(prompt, history))

	return streamCommand(ctx, func(line string) Chunk {
		if text := parseStreamLine(line); text != "" {
			return Chunk{Content: text, Kind: ChunkKindText}
		}
		return Chunk{}
	}, geminiCommand, args...)
}
