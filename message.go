// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role represents the role of a message sender.
type Role string

// Role constants for message senders.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Part kind discriminators.
const (
	PartKindText = "text"
	PartKindFile = "file"
	PartKindData = "data"
)

// FileContent carries file data either inline or by reference. Exactly one
// of Bytes and URI is set; Bytes holds base64-encoded content on the wire.
type FileContent struct {
	Name     string `json:"name,omitzero"`
	MimeType string `json:"mimeType,omitzero"`
	Bytes    string `json:"bytes,omitzero"`
	URI      string `json:"uri,omitzero"`
}

// Validate ensures the FileContent is valid.
func (f FileContent) Validate() error {
	if f.Bytes == "" && f.URI == "" {
		return fmt.Errorf("file content must have either bytes or uri")
	}
	if f.Bytes != "" && f.URI != "" {
		return fmt.Errorf("file content cannot have both bytes and uri")
	}
	return nil
}

// Part is one segment of message or artifact content. The Kind field
// discriminates which of the payload fields is populated: Text for "text"
// parts, File for "file" parts and Data for "data" parts.
type Part struct {
	Kind     string         `json:"kind"`
	Text     string         `json:"text,omitzero"`
	File     *FileContent   `json:"file,omitzero"`
	Data     map[string]any `json:"data,omitzero"`
	Metadata map[string]any `json:"metadata,omitzero"`
}

// NewTextPart creates a text part.
func NewTextPart(text string) Part {
	return Part{Kind: PartKindText, Text: text}
}

// NewFilePart creates a file part.
func NewFilePart(file FileContent) Part {
	return Part{Kind: PartKindFile, File: &file}
}

// NewDataPart creates a structured data part.
func NewDataPart(data map[string]any) Part {
	return Part{Kind: PartKindData, Data: data}
}

// Validate ensures the Part is valid for its declared kind.
func (p Part) Validate() error {
	switch p.Kind {
	case PartKindText:
		return nil
	case PartKindFile:
		if p.File == nil {
			return fmt.Errorf("file part must have file content")
		}
		return p.File.Validate()
	case PartKindData:
		if p.Data == nil {
			return fmt.Errorf("data part must have data")
		}
		return nil
	default:
		return fmt.Errorf("invalid part kind: %s", p.Kind)
	}
}

// Message represents a single conversational exchange between a user and an
// agent. Messages accumulate in a task's history; the text of the latest
// user message is what gets handed to the executing adapter.
type Message struct {
	MessageID string         `json:"messageId"`
	Role      Role           `json:"role"`
	Parts     []Part         `json:"parts"`
	TaskID    string         `json:"taskId,omitzero"`
	ContextID string         `json:"contextId,omitzero"`
	Metadata  map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the Message is valid.
func (m Message) Validate() error {
	if m.MessageID == "" {
		return fmt.Errorf("message ID cannot be empty")
	}
	if m.Role != RoleUser && m.Role != RoleAgent {
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("message must contain at least one part")
	}
	for i, part := range m.Parts {
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// Text returns the concatenated text content of the message's text parts,
// joined with newlines. Non-text parts are skipped.
func (m Message) Text() string {
	var texts []string
	for _, part := range m.Parts {
		if part.Kind == PartKindText {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// NewUserTextMessage creates a user message containing a single text part
// with a generated message ID.
func NewUserTextMessage(text string) *Message {
	return &Message{
		MessageID: uuid.NewString(),
		Role:      RoleUser,
		Parts:     []Part{NewTextPart(text)},
	}
}

// NewAgentTextMessage creates an agent message containing a single text part,
// bound to the given task and context.
func NewAgentTextMessage(text, taskID, contextID string) *Message {
	return &Message{
		MessageID: uuid.NewString(),
		Role:      RoleAgent,
		Parts:     []Part{NewTextPart(text)},
		TaskID:    taskID,
		ContextID: contextID,
	}
}
