// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Artifact represents a unit of output produced by a task. Streaming
// executions grow a single artifact chunk by chunk; the concatenation of its
// text parts is the full streamed output.
type Artifact struct {
	ArtifactID  string         `json:"artifactId"`
	Name        string         `json:"name,omitzero"`
	Description string         `json:"description,omitzero"`
	Parts       []Part         `json:"parts"`
	Metadata    map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Artifact is valid.
func (a Artifact) Validate() error {
	if a.ArtifactID == "" {
		return fmt.Errorf("artifact ID cannot be empty")
	}
	if len(a.Parts) == 0 {
		return fmt.Errorf("artifact must contain at least one part")
	}
	for i, part := range a.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("artifact part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// Text returns the concatenated text content of the artifact's text parts.
// Chunked text parts are joined without a separator so that streamed output
// reassembles exactly as produced.
func (a Artifact) Text() string {
	var sb strings.Builder
	for _, part := range a.Parts {
		if part.Kind == PartKindText {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// NewTextArtifact creates an artifact containing a single text part with a
// generated artifact ID.
func NewTextArtifact(name, text string) *Artifact {
	return &Artifact{
		ArtifactID: uuid.NewString(),
		Name:       name,
		Parts:      []Part{NewTextPart(text)},
	}
}
