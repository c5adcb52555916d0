// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-a2a/agenthub"
)

// Ollama defaults.
const (
	DefaultOllamaHost  = "http://localhost:11434"
	DefaultOllamaModel = "llama3.2"
)

// Ollama runs prompts against a local Ollama instance over its HTTP API.
// Unlike the CLI adapters it needs no subprocess: generation goes through
// /api/generate and health checks through /api/tags.
type Ollama struct {
	host    string
	model   string
	timeout time.Duration
	client  *http.Client
}

// OllamaOption configures the Ollama adapter.
type OllamaOption func(*Ollama)

// WithOllamaHost overrides the Ollama server URL.
func WithOllamaHost(host string) OllamaOption {
	return func(o *Ollama) { o.host = strings.TrimRight(host, "/") }
}

// WithOllamaModel overrides the model.
func WithOllamaModel(model string) OllamaOption {
	return func(o *Ollama) { o.model = model }
}

// WithOllamaTimeout overrides the per-invocation timeout.
func WithOllamaTimeout(timeout time.Duration) OllamaOption {
	return func(o *Ollama) { o.timeout = timeout }
}

// WithOllamaHTTPClient overrides the HTTP client, mainly for tests.
func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *Ollama) { o.client = client }
}

// NewOllama creates an Ollama adapter.
func NewOllama(opts ...OllamaOption) *Ollama {
	o := &Ollama{
		host:    DefaultOllamaHost,
		model:   DefaultOllamaModel,
		timeout: DefaultTimeout,
		client:  http.DefaultClient,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Name implements Adapter.
func (o *Ollama) Name() string { return "ollama" }

// DisplayName implements Adapter.
func (o *Ollama) DisplayName() string {
	return fmt.Sprintf("Ollama (%s)", o.model)
}

// Description implements Adapter.
func (o *Ollama) Description() string {
	return fmt.Sprintf("Local Ollama instance running %s for privacy-focused inference without external API calls.", o.model)
}

// Skills implements Adapter.
func (o *Ollama) Skills() []agenthub.AgentSkill {
	return []agenthub.AgentSkill{
		{
			ID:          "local-inference",
			Name:        "Local Inference",
			Description: "Privacy-focused local model inference",
			Tags:        []string{"local", "privacy", "inference", "free"},
			Examples: []string{
				"Summarize this text locally",
				"Answer without sending data off-machine",
			},
		},
		{
			ID:          "text-generation",
			Name:        "Text Generation",
			Description: "Generate and complete text",
			Tags:        []string{"generation", "completion", "text", "creative"},
			Examples: []string{
				"Write a short story",
				"Draft a commit message",
			},
		},
		{
			ID:          "chat",
			Name:        "Chat",
			Description: "Conversational assistance",
			Tags:        []string{"chat", "conversation", "assistant"},
			Examples: []string{
				"Help me plan my day",
				"Explain this concept simply",
			},
		},
		{
			ID:          "code-assistance",
			Name:        "Code Assistance",
			Description: "Code generation and explanation (model dependent)",
			Tags:        []string{"coding", "development"},
			Examples: []string{
				"Write a shell one-liner",
				"Explain this snippet",
			},
		},
	}
}

// SupportsStreaming implements Adapter.
func (o *Ollama) SupportsStreaming() bool { return true }

// generateRequest is the /api/generate request body.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is one /api/generate response object. In streaming mode
// the endpoint emits one object per line with Done set on the last.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error"`
}

// HealthCheck implements Adapter by listing the installed models.
func (o *Ollama) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.host+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("cannot connect to ollama at %s: %w", o.host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama at %s returned status %d", o.host, resp.StatusCode)
	}
	return nil
}

func (o *Ollama) generate(ctx context.Context, prompt string, stream bool) (*http.Response, error) {
	body, err := sonic.Marshal(generateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: stream,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, &agenthub.ExecutionError{AgentID: o.Name(), Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &agenthub.ExecutionError{
			AgentID: o.Name(),
			Err:     fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))),
		}
	}
	return resp, nil
}

// Execute implements Adapter with a non-streaming generate call.
func (o *Ollama) Execute(ctx context.Context, prompt string, history []*agenthub.Message) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.generate(ctx, FullPrompt(prompt, history), false)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &agenthub.ExecutionError{AgentID: o.Name(), Err: err}
	}

	var gen generateResponse
	if err := sonic.Unmarshal(body, &gen); err != nil {
		return nil, &agenthub.ExecutionError{AgentID: o.Name(), Err: err}
	}
	if gen.Error != "" {
		return nil, &agenthub.ExecutionError{AgentID: o.Name(), Err: fmt.Errorf("%s", gen.Error)}
	}
	return &Result{Content: gen.Response}, nil
}

// ExecuteStream implements Adapter by reading the NDJSON generate stream.
func (o *Ollama) ExecuteStream(ctx context.Context, prompt string, history []*agenthub.Message) (<-chan Chunk, error) {
	resp, err := o.generate(ctx, FullPrompt(prompt, history), true)
	if err != nil {
		return nil, err
	}

	out := make(chan Chunk)
	go func() {
		defer close(out)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 64*1024), maxScanTokenSize)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var gen generateResponse
			if err := sonic.UnmarshalString(line, &gen); err != nil {
				continue
			}
			if gen.Error != "" {
				out <- Chunk{
					Kind:  ChunkKindError,
					Final: true,
					Err:   &agenthub.ExecutionError{AgentID: o.Name(), Err: fmt.Errorf("%s", gen.Error)},
				}
				return
			}

			chunk := Chunk{Content: gen.Response, Kind: ChunkKindText, Final: gen.Done}
			select {
			case out <- chunk:
			case <-ctx.Done():
				return
			}
			if gen.Done {
				return
			}
		}

		if ctx.Err() != nil {
			return
		}
		if err := scanner.Err(); err != nil {
			out <- Chunk{
				Kind:  ChunkKindError,
				Final: true,
				Err:   &agenthub.ExecutionError{AgentID: o.Name(), Err: err},
			}
			return
		}
		out <- Chunk{Kind: ChunkKindText, Final: true}
	}()

	return out, nil
}
