// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package agenthub provides the core types for exposing command-line AI
// tools as network-accessible agents speaking the Agent-to-Agent (A2A)
// protocol. It defines the task lifecycle state machine, messages,
// artifacts, agent cards and the error taxonomy shared by the server,
// router and adapter packages.
package agenthub

import (
	"fmt"
	"slices"
)

// ProtocolVersion is the A2A protocol revision implemented by this module.
const ProtocolVersion = "0.3.0"

// TaskState represents the lifecycle state of a task.
type TaskState string

// Task lifecycle states.
const (
	TaskStateSubmitted     TaskState = "submitted"
	TaskStateWorking       TaskState = "working"
	TaskStateInputRequired TaskState = "input-required"
	TaskStateCompleted     TaskState = "completed"
	TaskStateFailed        TaskState = "failed"
	TaskStateCanceled      TaskState = "canceled"
)

// validTransitions is the full transition table of the task lifecycle.
// Terminal states have no outgoing edges.
var validTransitions = map[TaskState][]TaskState{
	TaskStateSubmitted: {
		TaskStateWorking,
		TaskStateFailed,
		TaskStateCanceled,
	},
	TaskStateWorking: {
		TaskStateInputRequired,
		TaskStateCompleted,
		TaskStateFailed,
		TaskStateCanceled,
	},
	TaskStateInputRequired: {
		TaskStateWorking,
		TaskStateCanceled,
		TaskStateFailed,
	},
	TaskStateCompleted: {},
	TaskStateFailed:    {},
	TaskStateCanceled:  {},
}

// Validate ensures the TaskState is one of the defined lifecycle states.
func (s TaskState) Validate() error {
	if _, ok := validTransitions[s]; !ok {
		return fmt.Errorf("invalid task state: %s", s)
	}
	return nil
}

// IsTerminal reports whether the state admits no further transitions.
func (s TaskState) IsTerminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateFailed, TaskStateCanceled:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the lifecycle permits moving from s to target.
func (s TaskState) CanTransitionTo(target TaskState) bool {
	return slices.Contains(validTransitions[s], target)
}

// ValidTransitions returns the set of states reachable from s in one step.
// The returned slice is a copy and may be modified by the caller.
func (s TaskState) ValidTransitions() []TaskState {
	return slices.Clone(validTransitions[s])
}

// String returns the string representation of the state.
func (s TaskState) String() string {
	return string(s)
}

// AgentProvider identifies the organization operating an agent.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitzero"`
}

// Validate ensures the AgentProvider is valid.
func (p AgentProvider) Validate() error {
	if p.Organization == "" {
		return fmt.Errorf("agent provider organization cannot be empty")
	}
	return nil
}

// AgentCapabilities declares the optional protocol features an agent supports.
type AgentCapabilities struct {
	Streaming              bool `json:"streaming"`
	PushNotifications      bool `json:"pushNotifications"`
	StateTransitionHistory bool `json:"stateTransitionHistory"`
}

// AgentSkill describes a unit of capability an agent can perform.
// Tags are the routing vocabulary: a task that requires a set of tags is
// eligible for any agent whose skills collectively cover that set.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitzero"`
	Tags        []string `json:"tags,omitzero"`
	Examples    []string `json:"examples,omitzero"`
	InputModes  []string `json:"inputModes,omitzero"`
	OutputModes []string `json:"outputModes,omitzero"`
}

// Validate ensures the AgentSkill is valid.
func (s AgentSkill) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("agent skill ID cannot be empty")
	}
	if s.Name == "" {
		return fmt.Errorf("agent skill name cannot be empty")
	}
	return nil
}

// AgentCard is the discovery document describing an agent endpoint. It is
// served at the well-known path so clients can learn the agent's skills and
// capabilities before sending messages.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description,omitzero"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	ProtocolVersion    string            `json:"protocolVersion"`
	Provider           *AgentProvider    `json:"provider,omitzero"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	Skills             []AgentSkill      `json:"skills"`
	DefaultInputModes  []string          `json:"defaultInputModes,omitzero"`
	DefaultOutputModes []string          `json:"defaultOutputModes,omitzero"`
}

// Validate ensures the AgentCard is valid.
func (c AgentCard) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("agent card name cannot be empty")
	}
	if c.URL == "" {
		return fmt.Errorf("agent card URL cannot be empty")
	}
	if c.Version == "" {
		return fmt.Errorf("agent card version cannot be empty")
	}
	for i, skill := range c.Skills {
		if err := skill.Validate(); err != nil {
			return fmt.Errorf("agent card skill at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// SkillTags returns the deduplicated union of all skill tags on the card,
// preserving first-seen order.
func (c AgentCard) SkillTags() []string {
	var tags []string
	seen := make(map[string]bool)
	for _, skill := range c.Skills {
		for _, tag := range skill.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	return tags
}
