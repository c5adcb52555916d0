// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides task persistence for the hub. The default store is
// in-memory; a GORM-backed store is available for deployments that want
// tasks to survive process restarts.
package task

import (
	"context"

	"github.com/go-a2a/agenthub"
)

// Store persists tasks. Implementations must be safe for concurrent use
// and must never hand out pointers into their own state: Get returns a
// copy the caller may mutate freely.
type Store interface {
	// Save persists a task, overwriting any previous version.
	Save(ctx context.Context, task *agenthub.Task) error

	// Get retrieves a task by ID. It returns a TaskNotFoundError when the
	// task does not exist.
	Get(ctx context.Context, taskID string) (*agenthub.Task, error)

	// Delete removes a task. It returns a TaskNotFoundError when the task
	// does not exist.
	Delete(ctx context.Context, taskID string) error

	// List returns all stored tasks in unspecified order.
	List(ctx context.Context) ([]*agenthub.Task, error)

	// Count returns the number of stored tasks.
	Count(ctx context.Context) (int, error)
}
