// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"fmt"

	"github.com/go-json-experiment/json/jsontext"
)

// JSONRPCVersion is the protocol version string required in every envelope.
const JSONRPCVersion = "2.0"

// A2A RPC method names.
const (
	// MethodMessageSend submits a message and blocks until the resulting
	// task reaches a resting state.
	MethodMessageSend = "message/send"
	// MethodMessageStream submits a message and streams task events over SSE.
	MethodMessageStream = "message/stream"
	// MethodTasksGet retrieves a snapshot of a task.
	MethodTasksGet = "tasks/get"
	// MethodTasksCancel requests cancellation of a task.
	MethodTasksCancel = "tasks/cancel"
)

// JSONRPCRequest is a JSON-RPC 2.0 request envelope. Params are kept raw
// until the method handler knows which parameter type to decode into.
type JSONRPCRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      jsontext.Value `json:"id,omitzero"`
	Method  string         `json:"method"`
	Params  jsontext.Value `json:"params,omitzero"`
}

// Validate ensures the request envelope is well formed.
func (r JSONRPCRequest) Validate() error {
	if r.JSONRPC != JSONRPCVersion {
		return fmt.Errorf("invalid jsonrpc version: %q", r.JSONRPC)
	}
	if r.Method == "" {
		return fmt.Errorf("method cannot be empty")
	}
	return nil
}

// JSONRPCError is the error member of a JSON-RPC 2.0 response.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitzero"`
}

// Error implements the error interface.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// JSONRPCResponse is a JSON-RPC 2.0 response envelope. Exactly one of
// Result and Error is set.
type JSONRPCResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      jsontext.Value `json:"id,omitzero"`
	Result  any            `json:"result,omitzero"`
	Error   *JSONRPCError  `json:"error,omitzero"`
}

// NewSuccessResponse builds a response carrying a result.
func NewSuccessResponse(id jsontext.Value, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse builds a response carrying an error.
func NewErrorResponse(id jsontext.Value, code int, message string) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
}

// MessageSendConfiguration tunes how a submitted message is executed.
type MessageSendConfiguration struct {
	// Blocking selects the blocking send semantics even for agents that
	// support streaming.
	Blocking bool `json:"blocking,omitzero"`
	// RequiredSkills lists skill tags the selected agent must cover.
	RequiredSkills []string `json:"requiredSkills,omitzero"`
	// AgentID pins execution to a specific agent, bypassing policy
	// tie-breaking. The pinned agent must still cover the required skills.
	AgentID string `json:"agentId,omitzero"`
	// TimeoutSeconds bounds execution; tasks still running when it elapses
	// fail with a deadline_exceeded error detail. Zero means no deadline.
	TimeoutSeconds int `json:"timeoutSeconds,omitzero"`
}

// MessageSendParams are the parameters of message/send and message/stream.
// A message carrying the ID of a task in the input-required state continues
// that task instead of creating a new one.
type MessageSendParams struct {
	Message       *Message                  `json:"message"`
	Configuration *MessageSendConfiguration `json:"configuration,omitzero"`
	Metadata      map[string]any            `json:"metadata,omitzero"`
}

// Validate ensures the MessageSendParams are valid.
func (p MessageSendParams) Validate() error {
	if p.Message == nil {
		return fmt.Errorf("message cannot be nil")
	}
	return p.Message.Validate()
}

// TaskQueryParams are the parameters of tasks/get.
type TaskQueryParams struct {
	ID            string `json:"id"`
	HistoryLength int    `json:"historyLength,omitzero"`
}

// Validate ensures the TaskQueryParams are valid.
func (p TaskQueryParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	return nil
}

// TaskIDParams are the parameters of tasks/cancel.
type TaskIDParams struct {
	ID string `json:"id"`
}

// Validate ensures the TaskIDParams are valid.
func (p TaskIDParams) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	return nil
}
