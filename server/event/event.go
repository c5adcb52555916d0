// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package event carries task lifecycle notifications from the task manager
// to subscribers. Each task owns an append-only event log; subscribers read
// it through independent cursors, so every subscriber sees the same ordered,
// lossless sequence from the moment it subscribed.
package event

import (
	"fmt"

	"github.com/go-a2a/agenthub"
)

// Event kind discriminators used on the wire.
const (
	KindStatusUpdate   = "status-update"
	KindArtifactUpdate = "artifact-update"
)

// Event is a single task lifecycle notification.
type Event interface {
	// EventKind returns the wire discriminator of the event.
	EventKind() string

	// EventTaskID returns the ID of the task the event belongs to.
	EventTaskID() string

	// Validate ensures the event is in a valid state.
	Validate() error

	// String returns a string representation of the event.
	String() string
}

// StatusUpdateEvent announces a task state transition. Exactly one is
// published per transition; Final marks entry into a terminal state.
type StatusUpdateEvent struct {
	Kind      string              `json:"kind"`
	TaskID    string              `json:"taskId"`
	ContextID string              `json:"contextId,omitzero"`
	Status    agenthub.TaskStatus `json:"status"`
	Final     bool                `json:"final"`
	Metadata  map[string]any      `json:"metadata,omitzero"`
}

var _ Event = (*StatusUpdateEvent)(nil)

// NewStatusUpdate creates a status update event for a task.
func NewStatusUpdate(task *agenthub.Task) *StatusUpdateEvent {
	return &StatusUpdateEvent{
		Kind:      KindStatusUpdate,
		TaskID:    task.ID,
		ContextID: task.ContextID,
		Status:    task.Status,
		Final:     task.Status.State.IsTerminal(),
	}
}

// EventKind implements Event.
func (e *StatusUpdateEvent) EventKind() string {
	return KindStatusUpdate
}

// EventTaskID implements Event.
func (e *StatusUpdateEvent) EventTaskID() string {
	return e.TaskID
}

// Validate implements Event.
func (e *StatusUpdateEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("status update task ID cannot be empty")
	}
	return e.Status.Validate()
}

// String implements Event.
func (e *StatusUpdateEvent) String() string {
	return fmt.Sprintf("StatusUpdateEvent{TaskID: %s, State: %s, Final: %t}",
		e.TaskID, e.Status.State, e.Final)
}

// ArtifactUpdateEvent announces new artifact content. Append distinguishes
// a chunk extending an existing artifact from a fresh artifact; LastChunk
// marks the end of a streamed artifact.
type ArtifactUpdateEvent struct {
	Kind      string             `json:"kind"`
	TaskID    string             `json:"taskId"`
	ContextID string             `json:"contextId,omitzero"`
	Artifact  *agenthub.Artifact `json:"artifact"`
	Append    bool               `json:"append"`
	LastChunk bool               `json:"lastChunk"`
}

var _ Event = (*ArtifactUpdateEvent)(nil)

// NewArtifactUpdate creates an artifact update event for a task.
func NewArtifactUpdate(task *agenthub.Task, artifact *agenthub.Artifact, appendParts, lastChunk bool) *ArtifactUpdateEvent {
	return &ArtifactUpdateEvent{
		Kind:      KindArtifactUpdate,
		TaskID:    task.ID,
		ContextID: task.ContextID,
		Artifact:  artifact,
		Append:    appendParts,
		LastChunk: lastChunk,
	}
}

// EventKind implements Event.
func (e *ArtifactUpdateEvent) EventKind() string {
	return KindArtifactUpdate
}

// EventTaskID implements Event.
func (e *ArtifactUpdateEvent) EventTaskID() string {
	return e.TaskID
}

// Validate implements Event.
func (e *ArtifactUpdateEvent) Validate() error {
	if e.TaskID == "" {
		return fmt.Errorf("artifact update task ID cannot be empty")
	}
	if e.Artifact == nil {
		return fmt.Errorf("artifact update artifact cannot be nil")
	}
	return e.Artifact.Validate()
}

// String implements Event.
func (e *ArtifactUpdateEvent) String() string {
	artifactID := "<nil>"
	if e.Artifact != nil {
		artifactID = e.Artifact.ArtifactID
	}
	return fmt.Sprintf("ArtifactUpdateEvent{TaskID: %s, ArtifactID: %s, Append: %t, LastChunk: %t}",
		e.TaskID, artifactID, e.Append, e.LastChunk)
}
