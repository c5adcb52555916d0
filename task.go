// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/google/uuid"
)

// TaskStatus captures the current lifecycle state of a task together with
// the moment it was entered and an optional accompanying message.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitzero"`
	Timestamp string    `json:"timestamp,omitzero"`
}

// Validate ensures the TaskStatus is valid.
func (s TaskStatus) Validate() error {
	if err := s.State.Validate(); err != nil {
		return err
	}
	if s.Message != nil {
		if err := s.Message.Validate(); err != nil {
			return fmt.Errorf("status message is invalid: %w", err)
		}
	}
	return nil
}

// ErrorDetail is the normalized failure payload recorded on a task that
// reached the failed state. Kind is a stable machine-readable identifier
// such as "execution_error" or "deadline_exceeded".
type ErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Task is the unit of work tracked by the task manager. It records which
// agent the task was routed to, the full message history, the artifacts
// produced so far and the current lifecycle status.
type Task struct {
	ID        string         `json:"id"`
	ContextID string         `json:"contextId"`
	AgentID   string         `json:"agentId,omitzero"`
	Status    TaskStatus     `json:"status"`
	History   []*Message     `json:"history,omitzero"`
	Artifacts []*Artifact    `json:"artifacts,omitzero"`
	Error     *ErrorDetail   `json:"error,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Task is valid.
func (t Task) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	if t.ContextID == "" {
		return fmt.Errorf("task context ID cannot be empty")
	}
	return t.Status.Validate()
}

// NewTask creates a task in the submitted state from the originating user
// message. Task and context IDs are taken from the message when present and
// generated otherwise; the message is recorded as the first history entry.
func NewTask(message *Message) (*Task, error) {
	if message == nil {
		return nil, fmt.Errorf("message cannot be nil")
	}
	if err := message.Validate(); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	taskID := message.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := message.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}
	message.TaskID = taskID
	message.ContextID = contextID

	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Status: TaskStatus{
			State:     TaskStateSubmitted,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
		History: []*Message{message},
	}, nil
}

// TransitionTo moves the task to the target state, enforcing the lifecycle
// transition table. Transitions out of a terminal state leave the task
// unchanged and return an InvalidTransitionError; state is only mutated
// when the transition is permitted.
func (t *Task) TransitionTo(target TaskState) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !t.Status.State.CanTransitionTo(target) {
		return &InvalidTransitionError{
			TaskID: t.ID,
			From:   t.Status.State,
			To:     target,
		}
	}
	t.Status = TaskStatus{
		State:     target,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	return nil
}

// LastUserMessage returns the most recent user-role message in the history,
// or nil if there is none.
func (t *Task) LastUserMessage() *Message {
	for i := len(t.History) - 1; i >= 0; i-- {
		if t.History[i].Role == RoleUser {
			return t.History[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the task. Snapshots handed out by the task
// manager are clones so callers can never mutate managed state.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.History != nil {
		clone.History = make([]*Message, len(t.History))
		for i, msg := range t.History {
			m := *msg
			m.Parts = slices.Clone(msg.Parts)
			m.Metadata = maps.Clone(msg.Metadata)
			clone.History[i] = &m
		}
	}
	if t.Artifacts != nil {
		clone.Artifacts = make([]*Artifact, len(t.Artifacts))
		for i, artifact := range t.Artifacts {
			a := *artifact
			a.Parts = slices.Clone(artifact.Parts)
			a.Metadata = maps.Clone(artifact.Metadata)
			clone.Artifacts[i] = &a
		}
	}
	if t.Error != nil {
		e := *t.Error
		clone.Error = &e
	}
	clone.Metadata = maps.Clone(t.Metadata)
	if t.Status.Message != nil {
		m := *t.Status.Message
		m.Parts = slices.Clone(t.Status.Message.Parts)
		clone.Status.Message = &m
	}
	return &clone
}
