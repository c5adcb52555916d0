// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"testing"

	"github.com/go-a2a/agenthub"
)

func TestMessageToPrompt(t *testing.T) {
	msg := &agenthub.Message{
		MessageID: "m1",
		Role:      agenthub.RoleUser,
		Parts: []agenthub.Part{
			agenthub.NewTextPart("fix this bug"),
			agenthub.NewFilePart(agenthub.FileContent{Name: "main.go", Bytes: "cGtn"}),
		},
	}

	if got, want := MessageToPrompt(msg), "fix this bug\n[File: main.go]"; got != want {
		t.Errorf("MessageToPrompt() = %q, want %q", got, want)
	}

	if got := MessageToPrompt(nil); got != "" {
		t.Errorf("MessageToPrompt(nil) = %q, want empty", got)
	}
}

func TestBuildContextPrompt(t *testing.T) {
	history := []*agenthub.Message{
		agenthub.NewUserTextMessage("what is 2+2"),
		agenthub.NewAgentTextMessage("4", "t1", "c1"),
	}

	want := "User: what is 2+2\nAssistant: 4"
	if got := BuildContextPrompt(history); got != want {
		t.Errorf("BuildContextPrompt() = %q, want %q", got, want)
	}

	if got := BuildContextPrompt(nil); got != "" {
		t.Errorf("BuildContextPrompt(nil) = %q, want empty", got)
	}
}

func TestFullPrompt(t *testing.T) {
	if got, want := FullPrompt("hello", nil), "hello"; got != want {
		t.Errorf("FullPrompt without history = %q, want %q", got, want)
	}

	history := []*agenthub.Message{agenthub.NewUserTextMessage("earlier question")}
	want := "User: earlier question\n\nUser: follow up"
	if got := FullPrompt("follow up", history); got != want {
		t.Errorf("FullPrompt with history = %q, want %q", got, want)
	}
}

func TestAdapterIdentities(t *testing.T) {
	adapters := []Adapter{NewClaude(), NewGemini(), NewCodex(), NewOllama()}
	wantNames := []string{"claude-code", "gemini-cli", "codex-cli", "ollama"}

	for i, a := range adapters {
		if a.Name() != wantNames[i] {
			t.Errorf("adapter %d Name() = %q, want %q", i, a.Name(), wantNames[i])
		}
		if len(a.Skills()) == 0 {
			t.Errorf("adapter %s has no skills", a.Name())
		}
		for _, skill := range a.Skills() {
			if err := skill.Validate(); err != nil {
				t.Errorf("adapter %s skill invalid: %v", a.Name(), err)
			}
			if len(skill.Tags) == 0 {
				t.Errorf("adapter %s skill %s has no tags", a.Name(), skill.ID)
			}
		}
		if !a.SupportsStreaming() {
			t.Errorf("adapter %s should support streaming", a.Name())
		}
	}
}
