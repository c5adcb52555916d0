// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAgentCardValidate(t *testing.T) {
	card := AgentCard{
		Name:            "agenthub",
		URL:             "http://localhost:8000",
		Version:         "1.0.0",
		ProtocolVersion: ProtocolVersion,
		Capabilities:    AgentCapabilities{Streaming: true},
		Skills: []AgentSkill{
			{ID: "code-generation", Name: "Code Generation", Tags: []string{"coding"}},
		},
	}
	if err := card.Validate(); err != nil {
		t.Errorf("valid card failed validation: %v", err)
	}

	tests := []struct {
		name string
		mod  func(*AgentCard)
	}{
		{"empty name", func(c *AgentCard) { c.Name = "" }},
		{"empty URL", func(c *AgentCard) { c.URL = "" }},
		{"empty version", func(c *AgentCard) { c.Version = "" }},
		{"invalid skill", func(c *AgentCard) { c.Skills = []AgentSkill{{Name: "x"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := card
			tt.mod(&bad)
			if err := bad.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAgentCardSkillTags(t *testing.T) {
	card := AgentCard{
		Skills: []AgentSkill{
			{ID: "s1", Name: "one", Tags: []string{"coding", "generation"}},
			{ID: "s2", Name: "two", Tags: []string{"coding", "review"}},
		},
	}

	want := []string{"coding", "generation", "review"}
	if diff := cmp.Diff(want, card.SkillTags()); diff != "" {
		t.Errorf("SkillTags() mismatch (-want +got):\n%s", diff)
	}
}

func TestTaskStateValidate(t *testing.T) {
	for _, s := range []TaskState{
		TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateCompleted, TaskStateFailed, TaskStateCanceled,
	} {
		if err := s.Validate(); err != nil {
			t.Errorf("Validate(%s) = %v", s, err)
		}
	}
	if err := TaskState("paused").Validate(); err == nil {
		t.Error("expected error for unknown state")
	}
}

func TestValidTransitionsReturnsCopy(t *testing.T) {
	got := TaskStateWorking.ValidTransitions()
	if len(got) == 0 {
		t.Fatal("expected transitions from working")
	}
	got[0] = TaskState("mutated")
	again := TaskStateWorking.ValidTransitions()
	if again[0] == TaskState("mutated") {
		t.Error("ValidTransitions leaked internal slice")
	}
}
