// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Factory constructs an adapter from an options map. Keys the factory does
// not understand are ignored.
type Factory func(options map[string]string) (Adapter, error)

// Registry maps adapter names to factories. The hub populates its catalog
// at startup by constructing the adapters named in configuration.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry pre-populated with the built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.MustRegister("claude-code", func(options map[string]string) (Adapter, error) {
		var opts []ClaudeOption
		if model := options["model"]; model != "" {
			opts = append(opts, WithClaudeModel(model))
		}
		return NewClaude(opts...), nil
	})
	r.MustRegister("gemini-cli", func(options map[string]string) (Adapter, error) {
		var opts []GeminiOption
		if model := options["model"]; model != "" {
			opts = append(opts, WithGeminiModel(model))
		}
		return NewGemini(opts...), nil
	})
	r.MustRegister("codex-cli", func(options map[string]string) (Adapter, error) {
		var opts []CodexOption
		if model := options["model"]; model != "" {
			opts = append(opts, WithCodexModel(model))
		}
		if sandbox := options["sandbox"]; sandbox != "" {
			opts = append(opts, WithCodexSandbox(sandbox))
		}
		return NewCodex(opts...), nil
	})
	r.MustRegister("ollama", func(options map[string]string) (Adapter, error) {
		var opts []OllamaOption
		if host := options["host"]; host != "" {
			opts = append(opts, WithOllamaHost(host))
		}
		if model := options["model"]; model != "" {
			opts = append(opts, WithOllamaModel(model))
		}
		return NewOllama(opts...), nil
	})

	return r
}

// Register adds a factory under the given name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("adapter name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("adapter factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("adapter factory already registered: %s", name)
	}
	r.factories[name] = factory
	return nil
}

// MustRegister is like Register but panics on error. Intended for built-in
// registrations at construction time.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Create constructs the adapter registered under name.
func (r *Registry) Create(name string, options map[string]string) (Adapter, error) {
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown adapter: %s (known: %v)", name, r.Names())
	}
	return factory(options)
}

// Names returns the registered adapter names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
