// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/go-a2a/agenthub"
	"github.com/google/go-cmp/cmp"
)

func statusEvent(taskID string, state agenthub.TaskState) *StatusUpdateEvent {
	return &StatusUpdateEvent{
		Kind:   KindStatusUpdate,
		TaskID: taskID,
		Status: agenthub.TaskStatus{State: state},
		Final:  state.IsTerminal(),
	}
}

func collect(ch <-chan Event) []Event {
	var events []Event
	for e := range ch {
		events = append(events, e)
	}
	return events
}

func TestPublishAndSubscribe(t *testing.T) {
	l := NewLog()
	sub := l.Subscribe(t.Context())

	want := []Event{
		statusEvent("t1", agenthub.TaskStateWorking),
		statusEvent("t1", agenthub.TaskStateCompleted),
	}
	for _, e := range want {
		if err := l.Publish(e); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	l.Close()

	got := collect(sub)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("event sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribeSeesOnlyLaterEvents(t *testing.T) {
	l := NewLog()

	if err := l.Publish(statusEvent("t1", agenthub.TaskStateWorking)); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	sub := l.Subscribe(t.Context())

	final := statusEvent("t1", agenthub.TaskStateCompleted)
	if err := l.Publish(final); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	l.Close()

	got := collect(sub)
	if len(got) != 1 || got[0] != final {
		t.Errorf("expected only the event published after subscribing, got %v", got)
	}
}

func TestSubscribeAfterClose(t *testing.T) {
	l := NewLog()
	l.Publish(statusEvent("t1", agenthub.TaskStateWorking))
	l.Close()

	select {
	case _, ok := <-l.Subscribe(t.Context()):
		if ok {
			t.Error("expected immediately closed channel, got an event")
		}
	case <-time.After(time.Second):
		t.Error("subscription to closed log did not close promptly")
	}
}

func TestIndependentSubscribers(t *testing.T) {
	l := NewLog()

	subs := make([]<-chan Event, 3)
	for i := range subs {
		subs[i] = l.Subscribe(t.Context())
	}

	want := []Event{
		statusEvent("t1", agenthub.TaskStateWorking),
		statusEvent("t1", agenthub.TaskStateCompleted),
	}

	var wg sync.WaitGroup
	results := make([][]Event, len(subs))
	for i, sub := range subs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = collect(sub)
		}()
	}

	for _, e := range want {
		l.Publish(e)
	}
	l.Close()
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("subscriber %d sequence mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestSlowSubscriberLosesNothing(t *testing.T) {
	l := NewLog()
	sub := l.Subscribe(t.Context())

	const n = 100
	for i := range n {
		state := agenthub.TaskStateWorking
		if i == n-1 {
			state = agenthub.TaskStateCompleted
		}
		if err := l.Publish(statusEvent("t1", state)); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}
	}
	l.Close()

	// Drain slowly after every event has already been published.
	var got []Event
	for e := range sub {
		got = append(got, e)
		time.Sleep(time.Microsecond)
	}
	if len(got) != n {
		t.Errorf("slow subscriber got %d events, want %d", len(got), n)
	}
}

func TestPublishAfterClose(t *testing.T) {
	l := NewLog()
	l.Close()
	l.Close() // idempotent

	if err := l.Publish(statusEvent("t1", agenthub.TaskStateWorking)); err == nil {
		t.Error("expected error publishing to closed log")
	}
	if !l.Closed() {
		t.Error("expected log to report closed")
	}
}

func TestSubscribeContextCancel(t *testing.T) {
	l := NewLog()
	ctx, cancel := context.WithCancel(t.Context())
	sub := l.Subscribe(ctx)

	cancel()

	select {
	case _, ok := <-sub:
		if ok {
			t.Error("expected closed channel after context cancel")
		}
	case <-time.After(time.Second):
		t.Error("subscription did not close after context cancel")
	}
}

func TestPublishInvalidEvent(t *testing.T) {
	l := NewLog()
	if err := l.Publish(nil); err == nil {
		t.Error("expected error for nil event")
	}
	if err := l.Publish(&StatusUpdateEvent{Kind: KindStatusUpdate}); err == nil {
		t.Error("expected error for event without task ID")
	}
}
