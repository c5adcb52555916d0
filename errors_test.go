// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package agenthub

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		err  CodedError
		code int
	}{
		{&DuplicateAgentError{AgentID: "a"}, ErrorCodeDuplicateAgent},
		{&UnknownAgentError{AgentID: "a"}, ErrorCodeUnknownAgent},
		{&NoCapableAgentError{Tags: []string{"code"}}, ErrorCodeNoCapableAgent},
		{&TaskNotFoundError{TaskID: "t1"}, ErrorCodeTaskNotFound},
		{&InvalidTaskStateError{TaskID: "t1", State: TaskStateWorking, Want: TaskStateInputRequired}, ErrorCodeInvalidTaskState},
		{&InvalidTransitionError{TaskID: "t1", From: TaskStateCompleted, To: TaskStateWorking}, ErrorCodeInvalidTaskState},
		{&ExecutionError{AgentID: "a", Err: errors.New("exit 1")}, ErrorCodeInternal},
		{&DeadlineExceededError{TaskID: "t1"}, ErrorCodeInternal},
	}

	for _, tt := range tests {
		if got := tt.err.Code(); got != tt.code {
			t.Errorf("%T.Code() = %d, want %d", tt.err, got, tt.code)
		}
		if tt.err.Error() == "" {
			t.Errorf("%T.Error() is empty", tt.err)
		}
	}
}

func TestExecutionErrorUnwrap(t *testing.T) {
	cause := errors.New("command not found")
	err := fmt.Errorf("running adapter: %w", &ExecutionError{AgentID: "claude", Err: cause})

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatal("expected ExecutionError in chain")
	}
	if !errors.Is(err, cause) {
		t.Error("expected underlying cause in chain")
	}
}

func TestNoCapableAgentErrorMessage(t *testing.T) {
	err := &NoCapableAgentError{Tags: []string{"translate"}}
	if got := err.Error(); got != "no capable agent for skills [translate]" {
		t.Errorf("unexpected message: %q", got)
	}

	empty := &NoCapableAgentError{}
	if got := empty.Error(); got != "no capable agent available" {
		t.Errorf("unexpected message: %q", got)
	}
}
