// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Command agenthub runs the A2A hub server and provides small client
// utilities against a running hub.
//
// Usage:
//
//	agenthub serve --config config.yaml
//	agenthub card --url http://localhost:8080
//	agenthub send --url http://localhost:8080 "review this diff"
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/adapter"
	"github.com/go-a2a/agenthub/catalog"
	"github.com/go-a2a/agenthub/client"
	"github.com/go-a2a/agenthub/config"
	"github.com/go-a2a/agenthub/router"
	"github.com/go-a2a/agenthub/server"
)

// CLI defines the command-line interface.
type CLI struct {
	Serve ServeCmd `cmd:"" help:"Start the hub server."`
	Card  CardCmd  `cmd:"" help:"Fetch and print a hub's agent card."`
	Send  SendCmd  `cmd:"" help:"Send a one-shot message to a running hub."`

	Config string `short:"c" help:"Path to config file." type:"path"`
}

// ServeCmd starts the hub server.
type ServeCmd struct {
	Host string `help:"Listen host, overrides config."`
	Port int    `help:"Listen port, overrides config."`
}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if c.Host != "" {
		cfg.Server.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	registry := adapter.NewRegistry()
	cat := catalog.New()
	for _, ac := range cfg.Adapters {
		a, err := registry.Create(ac.Name, ac.Options)
		if err != nil {
			return fmt.Errorf("creating adapter %s: %w", ac.Name, err)
		}
		desc := &catalog.Descriptor{
			ID:          a.Name(),
			Name:        a.DisplayName(),
			Description: a.Description(),
			Skills:      a.Skills(),
			Capabilities: agenthub.AgentCapabilities{
				Streaming: a.SupportsStreaming(),
			},
			Adapter: a,
		}
		if err := cat.Register(desc); err != nil {
			return fmt.Errorf("registering adapter %s: %w", ac.Name, err)
		}
		logger.Info("registered agent",
			slog.String("agent", a.Name()),
			slog.Bool("streaming", a.SupportsStreaming()))
	}

	r := router.New(cat, router.WithPolicy(router.Policy(cfg.Router.Policy)))
	m := server.NewManager(r,
		server.WithManagerLogger(logger),
		server.WithRetention(cfg.Tasks.Retention))

	srv, err := server.NewServer(cfg.Server.Addr(), m, cat,
		server.WithLogger(logger),
		server.WithCardBuilder(&server.CardBuilder{
			Name:        "agenthub",
			Description: "Task orchestration hub exposing local AI tools as A2A agents",
			URL:         cfg.Server.BaseURL + agenthub.RPCPath,
			Version:     "0.1.0",
		}))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down on signal")
		cancel()
	}()

	return srv.Start(ctx)
}

// CardCmd fetches and prints a hub's agent card.
type CardCmd struct {
	URL string `help:"Hub base URL." default:"http://localhost:8080"`
}

func (c *CardCmd) Run() error {
	cl, err := client.NewClient(c.URL)
	if err != nil {
		return err
	}

	card, err := cl.FetchAgentCard(context.Background())
	if err != nil {
		return err
	}

	data, err := json.Marshal(card, jsontext.WithIndent("  "))
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// SendCmd sends one message and prints the finished task.
type SendCmd struct {
	URL    string   `help:"Hub base URL." default:"http://localhost:8080"`
	Skills []string `help:"Required skill tags for routing."`
	Agent  string   `help:"Pin routing to a specific agent ID."`
	Stream bool     `help:"Stream the response as it is produced."`

	Text string `arg:"" help:"Message text to send."`
}

func (c *SendCmd) Run() error {
	cl, err := client.NewClient(c.URL)
	if err != nil {
		return err
	}

	params := &agenthub.MessageSendParams{
		Message: agenthub.NewUserTextMessage(c.Text),
		Configuration: &agenthub.MessageSendConfiguration{
			RequiredSkills: c.Skills,
			AgentID:        c.Agent,
		},
	}

	ctx := context.Background()
	if c.Stream {
		events, err := cl.StreamMessage(ctx, params)
		if err != nil {
			return err
		}
		for ev := range events {
			switch {
			case ev.Err != nil:
				return ev.Err
			case ev.Artifact != nil:
				parts := ev.Artifact.Artifact.Parts
				if len(parts) > 0 {
					fmt.Print(parts[len(parts)-1].Text)
				}
			case ev.Status != nil && ev.Status.Final:
				fmt.Println()
				fmt.Fprintf(os.Stderr, "task %s: %s\n", ev.Status.TaskID, ev.Status.Status.State)
			}
		}
		return nil
	}

	task, err := cl.SendMessage(ctx, params)
	if err != nil {
		return err
	}
	for _, artifact := range task.Artifacts {
		fmt.Println(artifact.Text())
	}
	fmt.Fprintf(os.Stderr, "task %s: %s\n", task.ID, task.Status.State)
	if task.Error != nil {
		return fmt.Errorf("%s: %s", task.Error.Kind, task.Error.Message)
	}
	return nil
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("agenthub"),
		kong.Description("A2A hub exposing local AI CLI tools as agents"),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
