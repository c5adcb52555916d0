// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/google/uuid"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/server/event"
)

// StreamEvent is one decoded SSE frame from a message/stream response.
// Exactly one of Status, Artifact and Err is set.
type StreamEvent struct {
	Status   *event.StatusUpdateEvent
	Artifact *event.ArtifactUpdateEvent
	Err      error
}

// StreamMessage submits a message on the streaming endpoint and returns
// the decoded event stream. The channel closes when the server ends the
// stream or ctx is canceled; a decode or transport failure arrives as a
// final event with Err set.
func (c *Client) StreamMessage(ctx context.Context, params *agenthub.MessageSendParams) (<-chan StreamEvent, error) {
	if params == nil {
		return nil, fmt.Errorf("params cannot be nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshaling params: %w", err)
	}
	body, err := json.Marshal(agenthub.JSONRPCRequest{
		JSONRPC: agenthub.JSONRPCVersion,
		ID:      jsontext.Value(fmt.Sprintf("%q", uuid.NewString())),
		Method:  agenthub.MethodMessageStream,
		Params:  rawParams,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(agenthub.StreamPath), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		// The server answered with a JSON-RPC error instead of a stream.
		defer resp.Body.Close()
		var envelope rpcResponse
		if err := json.UnmarshalRead(resp.Body, &envelope); err != nil {
			return nil, fmt.Errorf("unexpected response (content type %q)", ct)
		}
		if envelope.Error != nil {
			return nil, envelope.Error
		}
		return nil, fmt.Errorf("unexpected response (content type %q)", ct)
	}

	events := make(chan StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		var name string
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case strings.HasPrefix(line, "event: "):
				name = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				ev, err := decodeFrame(name, strings.TrimPrefix(line, "data: "))
				if err != nil {
					events <- StreamEvent{Err: err}
					return
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			events <- StreamEvent{Err: fmt.Errorf("reading stream: %w", err)}
		}
	}()
	return events, nil
}

func decodeFrame(name, data string) (StreamEvent, error) {
	switch name {
	case "status":
		var ev event.StatusUpdateEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return StreamEvent{}, fmt.Errorf("decoding status event: %w", err)
		}
		return StreamEvent{Status: &ev}, nil
	case "artifact":
		var ev event.ArtifactUpdateEvent
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			return StreamEvent{}, fmt.Errorf("decoding artifact event: %w", err)
		}
		return StreamEvent{Artifact: &ev}, nil
	default:
		return StreamEvent{}, fmt.Errorf("unknown stream event %q", name)
	}
}
