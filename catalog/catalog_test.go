// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-a2a/agenthub"
	"github.com/go-a2a/agenthub/adapter"
	"github.com/google/go-cmp/cmp"
)

// stubAdapter is a minimal adapter for catalog tests.
type stubAdapter struct {
	name string
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) DisplayName() string { return s.name }

func (s *stubAdapter) Description() string { return "stub" }

func (s *stubAdapter) Skills() []agenthub.AgentSkill { return nil }

func (s *stubAdapter) SupportsStreaming() bool { return false }

func (s *stubAdapter) HealthCheck(context.Context) error { return nil }

func (s *stubAdapter) Execute(context.Context, string, []*agenthub.Message) (*adapter.Result, error) {
	return &adapter.Result{}, nil
}

func (s *stubAdapter) ExecuteStream(context.Context, string, []*agenthub.Message) (<-chan adapter.Chunk, error) {
	ch := make(chan adapter.Chunk)
	close(ch)
	return ch, nil
}

func descriptor(id string, tags ...string) *Descriptor {
	return &Descriptor{
		ID:   id,
		Name: id,
		Skills: []agenthub.AgentSkill{
			{ID: id + "-skill", Name: id + " skill", Tags: tags},
		},
		Adapter: &stubAdapter{name: id},
	}
}

func TestRegisterAndGet(t *testing.T) {
	c := New()

	desc := descriptor("a", "code")
	if err := c.Register(desc); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	got, err := c.Get("a")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != desc {
		t.Error("Get returned a different descriptor")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestRegisterDuplicate(t *testing.T) {
	c := New()
	if err := c.Register(descriptor("a", "code")); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	err := c.Register(descriptor("a", "search"))
	var dupErr *agenthub.DuplicateAgentError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateAgentError, got %v", err)
	}
	if dupErr.AgentID != "a" {
		t.Errorf("AgentID = %q, want %q", dupErr.AgentID, "a")
	}
	if c.Len() != 1 {
		t.Errorf("duplicate registration changed catalog size: %d", c.Len())
	}
}

func TestGetUnknown(t *testing.T) {
	c := New()

	_, err := c.Get("missing")
	var unknownErr *agenthub.UnknownAgentError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected UnknownAgentError, got %v", err)
	}
}

func TestListOrder(t *testing.T) {
	c := New()
	for _, id := range []string{"a", "b", "c"} {
		if err := c.Register(descriptor(id, "code")); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	var ids []string
	for desc := range c.List() {
		ids = append(ids, desc.ID)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, ids); diff != "" {
		t.Errorf("List() order mismatch (-want +got):\n%s", diff)
	}

	// The sequence must be restartable.
	ids = ids[:0]
	for desc := range c.List() {
		ids = append(ids, desc.ID)
		break
	}
	for desc := range c.List() {
		ids = append(ids, desc.ID)
	}
	if diff := cmp.Diff([]string{"a", "a", "b", "c"}, ids); diff != "" {
		t.Errorf("restarted List() mismatch (-want +got):\n%s", diff)
	}
}

func TestCoversTags(t *testing.T) {
	desc := &Descriptor{
		ID:   "a",
		Name: "a",
		Skills: []agenthub.AgentSkill{
			{ID: "s1", Name: "one", Tags: []string{"coding", "generation"}},
			{ID: "s2", Name: "two", Tags: []string{"review"}},
		},
		Adapter: &stubAdapter{name: "a"},
	}

	tests := []struct {
		required []string
		want     bool
	}{
		{nil, true},
		{[]string{"coding"}, true},
		{[]string{"coding", "review"}, true},
		{[]string{"coding", "translate"}, false},
		{[]string{"translate"}, false},
	}

	for _, tt := range tests {
		if got := desc.CoversTags(tt.required); got != tt.want {
			t.Errorf("CoversTags(%v) = %v, want %v", tt.required, got, tt.want)
		}
	}
}

func TestTags(t *testing.T) {
	c := New()
	c.Register(descriptor("a", "code", "review"))
	c.Register(descriptor("b", "search", "code"))

	want := []string{"code", "review", "search"}
	if diff := cmp.Diff(want, c.Tags()); diff != "" {
		t.Errorf("Tags() mismatch (-want +got):\n%s", diff)
	}
}

func TestConcurrentReads(t *testing.T) {
	c := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		if err := c.Register(descriptor(id, "code")); err != nil {
			t.Fatalf("Register(%s) failed: %v", id, err)
		}
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if _, err := c.Get("b"); err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
				count := 0
				for range c.List() {
					count++
				}
				if count != 4 {
					t.Errorf("List() yielded %d entries, want 4", count)
					return
				}
			}
		}()
	}
	wg.Wait()
}
