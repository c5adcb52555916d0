// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/go-a2a/agenthub/internal/pool"
	"github.com/go-a2a/agenthub/server/event"
)

// SSE event names, one per event kind.
const (
	sseEventStatus   = "status"
	sseEventArtifact = "artifact"
)

// Stream writes task events to an HTTP response as Server-Sent Events.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewStream prepares w for SSE and returns a Stream over it. It returns
// nil when the connection cannot be flushed incrementally.
func NewStream(w http.ResponseWriter) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	// Disable proxy buffering so events reach the client as they happen.
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Stream{w: w, flusher: flusher}
}

// Send writes a single event frame and flushes it.
func (s *Stream) Send(ev event.Event) error {
	name := sseEventStatus
	if ev.EventKind() == event.KindArtifactUpdate {
		name = sseEventArtifact
	}

	data, err := sonic.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling %s event: %w", name, err)
	}

	// Frame in one buffer so the event reaches the wire as a single write.
	buf := pool.Bytes.Get()
	defer pool.Bytes.Put(buf)
	fmt.Fprintf(buf, "event: %s\ndata: %s\n\n", name, data)

	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing %s event: %w", name, err)
	}
	s.flusher.Flush()
	return nil
}
