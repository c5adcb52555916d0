// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is the HTTP client for an agenthub server: blocking
// message sends, SSE streaming, task queries and card discovery.
package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/go-a2a/agenthub"
)

// Client talks to one agenthub server.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent sets the User-Agent header on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		userAgent:  "agenthub-client/" + agenthub.ProtocolVersion,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// rpcResponse is the response envelope with the result left raw so each
// method can decode its own type.
type rpcResponse struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      jsontext.Value         `json:"id,omitzero"`
	Result  jsontext.Value         `json:"result,omitzero"`
	Error   *agenthub.JSONRPCError `json:"error,omitzero"`
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = path
	return u.String()
}

// call posts one JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshaling params: %w", err)
	}
	body, err := json.Marshal(agenthub.JSONRPCRequest{
		JSONRPC: agenthub.JSONRPCVersion,
		ID:      jsontext.Value(fmt.Sprintf("%q", uuid.NewString())),
		Method:  method,
		Params:  rawParams,
	})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(agenthub.RPCPath), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.UnmarshalRead(resp.Body, &envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decoding result: %w", err)
		}
	}
	return nil
}

// SendMessage submits a message and blocks until the resulting task
// reaches a terminal state or pauses for input.
func (c *Client) SendMessage(ctx context.Context, params *agenthub.MessageSendParams) (*agenthub.Task, error) {
	if params == nil {
		return nil, fmt.Errorf("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	var task agenthub.Task
	if err := c.call(ctx, agenthub.MethodMessageSend, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask fetches a task snapshot. A positive historyLength limits the
// returned history to its most recent entries.
func (c *Client) GetTask(ctx context.Context, taskID string, historyLength int) (*agenthub.Task, error) {
	var task agenthub.Task
	err := c.call(ctx, agenthub.MethodTasksGet, agenthub.TaskQueryParams{
		ID:            taskID,
		HistoryLength: historyLength,
	}, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// CancelTask requests cancellation and returns the resulting snapshot.
func (c *Client) CancelTask(ctx context.Context, taskID string) (*agenthub.Task, error) {
	var task agenthub.Task
	if err := c.call(ctx, agenthub.MethodTasksCancel, agenthub.TaskIDParams{ID: taskID}, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// FetchAgentCard retrieves the server's agent card from the well-known
// discovery path.
func (c *Client) FetchAgentCard(ctx context.Context) (*agenthub.AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(agenthub.AgentCardWellKnownPath), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var card agenthub.AgentCard
	if err := json.UnmarshalRead(resp.Body, &card); err != nil {
		return nil, fmt.Errorf("decoding card: %w", err)
	}
	return &card, nil
}
