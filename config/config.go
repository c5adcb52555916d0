// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads hub configuration from defaults, an optional YAML
// file and AGENTHUB_-prefixed environment variables, in that order of
// precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/go-a2a/agenthub/router"
)

// envPrefix maps AGENTHUB_SERVER_HOST to server.host.
const envPrefix = "AGENTHUB_"

// Config is the full hub configuration.
type Config struct {
	Server   ServerConfig    `koanf:"server"`
	Router   RouterConfig    `koanf:"router"`
	Tasks    TasksConfig     `koanf:"tasks"`
	Log      LogConfig       `koanf:"log"`
	Ollama   OllamaConfig    `koanf:"ollama"`
	Adapters []AdapterConfig `koanf:"adapters"`
}

type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
	// BaseURL is the externally reachable URL advertised in the agent
	// card. Defaults to http://<host>:<port>.
	BaseURL string `koanf:"base_url"`
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RouterConfig struct {
	// Policy breaks ties between capable agents: "first-registered" or
	// "round-robin".
	Policy string `koanf:"policy"`
}

type TasksConfig struct {
	// Retention is how long terminal tasks stay queryable.
	Retention time.Duration `koanf:"retention"`
}

type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json, text
}

type OllamaConfig struct {
	Host  string `koanf:"host"`
	Model string `koanf:"model"`
}

// AdapterConfig names one adapter to register plus its options, which are
// passed verbatim to the adapter registry.
type AdapterConfig struct {
	Name    string            `koanf:"name"`
	Options map[string]string `koanf:"options"`
}

// Load builds the configuration. A missing path skips the file layer.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Defaults
	k.Set("server.host", "localhost")
	k.Set("server.port", 8080)
	k.Set("router.policy", "first-registered")
	k.Set("tasks.retention", "1h")
	k.Set("log.level", "info")
	k.Set("log.format", "text")
	k.Set("ollama.host", "http://localhost:11434")
	k.Set("ollama.model", "llama3.2")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// AGENTHUB_SERVER_PORT -> server.port
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, envPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = fmt.Sprintf("http://%s", cfg.Server.Addr())
	}
	if len(cfg.Adapters) == 0 {
		cfg.Adapters = defaultAdapters(cfg.Ollama)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// defaultAdapters registers every built-in adapter with its defaults.
func defaultAdapters(ollama OllamaConfig) []AdapterConfig {
	return []AdapterConfig{
		{Name: "claude-code"},
		{Name: "gemini-cli"},
		{Name: "codex-cli"},
		{Name: "ollama", Options: map[string]string{
			"host":  ollama.Host,
			"model": ollama.Model,
		}},
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if err := router.Policy(c.Router.Policy).Validate(); err != nil {
		return err
	}
	if c.Tasks.Retention <= 0 {
		return fmt.Errorf("task retention must be positive, got %s", c.Tasks.Retention)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	for i, a := range c.Adapters {
		if a.Name == "" {
			return fmt.Errorf("adapter at index %d has no name", i)
		}
	}
	return nil
}
