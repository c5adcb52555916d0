// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import "fmt"

// StoreError wraps a storage-layer failure with the operation and task it
// occurred on.
type StoreError struct {
	Op     string
	TaskID string
	Err    error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("task store %s failed for task %s: %v", e.Op, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(op, taskID string, err error) *StoreError {
	return &StoreError{Op: op, TaskID: taskID, Err: err}
}
