// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-a2a/agenthub"
)

// InMemoryStore is an in-memory implementation of Store. Task data is lost
// when the process stops. All operations are safe for concurrent use.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*agenthub.Task
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks: make(map[string]*agenthub.Task),
	}
}

// Save implements Store. The stored value is a deep copy so later mutation
// of the argument cannot corrupt stored state.
func (s *InMemoryStore) Save(ctx context.Context, task *agenthub.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return NewStoreError("save", task.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks[task.ID] = task.Clone()
	return nil
}

// Get implements Store, returning a deep copy.
func (s *InMemoryStore) Get(ctx context.Context, taskID string) (*agenthub.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	task, exists := s.tasks[taskID]
	if !exists {
		return nil, &agenthub.TaskNotFoundError{TaskID: taskID}
	}
	return task.Clone(), nil
}

// Delete implements Store.
func (s *InMemoryStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[taskID]; !exists {
		return &agenthub.TaskNotFoundError{TaskID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}

// List implements Store, returning deep copies.
func (s *InMemoryStore) List(ctx context.Context) ([]*agenthub.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tasks := make([]*agenthub.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		tasks = append(tasks, task.Clone())
	}
	return tasks, nil
}

// Count implements Store.
func (s *InMemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks), nil
}
