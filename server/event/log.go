// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"fmt"
	"sync"
)

// Log is the per-task event history. Publish appends; subscribers drain the
// log through private cursors starting at the tail position at subscribe
// time. Because delivery reads from the shared slice instead of per-channel
// buffers, a slow subscriber delays only itself and never loses events.
type Log struct {
	mu     sync.Mutex
	events []Event
	closed bool

	// wake is replaced and closed on every append and on Close, waking
	// all parked subscribers.
	wake chan struct{}
}

// NewLog creates an empty, open event log.
func NewLog() *Log {
	return &Log{
		wake: make(chan struct{}),
	}
}

// Publish appends an event to the log. It fails once the log is closed.
func (l *Log) Publish(e Event) error {
	if e == nil {
		return fmt.Errorf("event cannot be nil")
	}
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("event log is closed")
	}
	l.events = append(l.events, e)
	l.broadcastLocked()
	return nil
}

// Close marks the log complete. Subscribers drain any remaining events and
// then see their channels closed. Close is idempotent.
func (l *Log) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	l.broadcastLocked()
}

// Closed reports whether the log has been closed.
func (l *Log) Closed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// Len returns the number of events published so far.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// broadcastLocked wakes all parked subscribers. Callers must hold l.mu.
func (l *Log) broadcastLocked() {
	close(l.wake)
	l.wake = make(chan struct{})
}

// Subscribe returns a channel delivering every event published at or after
// the moment of subscription, in publish order. The channel closes when the
// log is closed and the subscriber has drained it, or when ctx is canceled.
// Subscribing to an already closed log yields an immediately closed channel.
func (l *Log) Subscribe(ctx context.Context) <-chan Event {
	l.mu.Lock()
	cursor := len(l.events)
	l.mu.Unlock()

	out := make(chan Event)
	go func() {
		defer close(out)
		for {
			l.mu.Lock()
			for cursor < len(l.events) {
				e := l.events[cursor]
				cursor++
				l.mu.Unlock()
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
				l.mu.Lock()
			}
			if l.closed {
				l.mu.Unlock()
				return
			}
			wake := l.wake
			l.mu.Unlock()

			select {
			case <-wake:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
