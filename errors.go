// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import "fmt"

// JSON-RPC 2.0 standard error codes.
const (
	ErrorCodeParse          = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternal       = -32603
)

// A2A protocol error codes in the server-defined range.
const (
	ErrorCodeTaskNotFound     = -32001
	ErrorCodeInvalidTaskState = -32002
	ErrorCodeNoCapableAgent   = -32006
	ErrorCodeDuplicateAgent   = -32007
	ErrorCodeUnknownAgent     = -32008
)

// Error detail kinds recorded on failed tasks.
const (
	ErrorKindExecution        = "execution_error"
	ErrorKindDeadlineExceeded = "deadline_exceeded"
	ErrorKindNoCapableAgent   = "no_capable_agent"
)

// CodedError is implemented by errors that map to a JSON-RPC error code.
type CodedError interface {
	error
	Code() int
}

// DuplicateAgentError indicates a catalog registration under an ID that is
// already taken.
type DuplicateAgentError struct {
	AgentID string
}

// Error implements the error interface.
func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent already registered: %s", e.AgentID)
}

// Code returns the JSON-RPC error code.
func (e *DuplicateAgentError) Code() int {
	return ErrorCodeDuplicateAgent
}

// UnknownAgentError indicates a lookup for an agent ID that is not in the
// catalog.
type UnknownAgentError struct {
	AgentID string
}

// Error implements the error interface.
func (e *UnknownAgentError) Error() string {
	return fmt.Sprintf("unknown agent: %s", e.AgentID)
}

// Code returns the JSON-RPC error code.
func (e *UnknownAgentError) Code() int {
	return ErrorCodeUnknownAgent
}

// NoCapableAgentError indicates that no registered agent satisfies the
// requested skill requirements.
type NoCapableAgentError struct {
	Tags []string
}

// Error implements the error interface.
func (e *NoCapableAgentError) Error() string {
	if len(e.Tags) == 0 {
		return "no capable agent available"
	}
	return fmt.Sprintf("no capable agent for skills %v", e.Tags)
}

// Code returns the JSON-RPC error code.
func (e *NoCapableAgentError) Code() int {
	return ErrorCodeNoCapableAgent
}

// TaskNotFoundError indicates an operation referencing a task ID the manager
// does not know, either because it never existed or because it was evicted.
type TaskNotFoundError struct {
	TaskID string
}

// Error implements the error interface.
func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// Code returns the JSON-RPC error code.
func (e *TaskNotFoundError) Code() int {
	return ErrorCodeTaskNotFound
}

// InvalidTaskStateError indicates an operation that requires the task to be
// in a specific state, attempted while it is in another.
type InvalidTaskStateError struct {
	TaskID string
	State  TaskState
	Want   TaskState
}

// Error implements the error interface.
func (e *InvalidTaskStateError) Error() string {
	return fmt.Sprintf("task %s is in state %s, want %s", e.TaskID, e.State, e.Want)
}

// Code returns the JSON-RPC error code.
func (e *InvalidTaskStateError) Code() int {
	return ErrorCodeInvalidTaskState
}

// InvalidTransitionError indicates a lifecycle transition not permitted by
// the state machine. The task it refers to is left unchanged.
type InvalidTransitionError struct {
	TaskID string
	From   TaskState
	To     TaskState
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for task %s: %s -> %s", e.TaskID, e.From, e.To)
}

// Code returns the JSON-RPC error code.
func (e *InvalidTransitionError) Code() int {
	return ErrorCodeInvalidTaskState
}

// ExecutionError indicates an adapter invocation that failed: a non-zero
// exit, unparseable output or a transport failure.
type ExecutionError struct {
	AgentID string
	Err     error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution failed for agent %s: %v", e.AgentID, e.Err)
}

// Unwrap returns the underlying error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Code returns the JSON-RPC error code.
func (e *ExecutionError) Code() int {
	return ErrorCodeInternal
}

// DeadlineExceededError indicates a task canceled internally because its
// execution deadline elapsed. Tasks failed this way carry a
// deadline_exceeded error detail.
type DeadlineExceededError struct {
	TaskID string
}

// Error implements the error interface.
func (e *DeadlineExceededError) Error() string {
	return fmt.Sprintf("deadline exceeded for task %s", e.TaskID)
}

// Code returns the JSON-RPC error code.
func (e *DeadlineExceededError) Code() int {
	return ErrorCodeInternal
}
