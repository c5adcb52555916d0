// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-json-experiment/json"
	"gorm.io/gorm"

	"github.com/go-a2a/agenthub"
)

// TaskModel is the GORM row shape for persisted tasks. The task body is
// stored as a JSON document; indexed columns carry what queries need.
type TaskModel struct {
	ID        string `gorm:"primaryKey;size:64"`
	ContextID string `gorm:"index;size:64"`
	AgentID   string `gorm:"index;size:128"`
	State     string `gorm:"index;size:32"`
	Data      []byte `gorm:"type:bytes"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName implements the GORM table naming convention.
func (TaskModel) TableName() string {
	return "tasks"
}

// DatabaseStore is a GORM-backed implementation of Store. The dialector is
// the caller's choice; any database GORM supports works.
type DatabaseStore struct {
	db *gorm.DB
}

var _ Store = (*DatabaseStore)(nil)

// NewDatabaseStore creates a DatabaseStore and migrates its schema.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	if err := db.AutoMigrate(&TaskModel{}); err != nil {
		return nil, fmt.Errorf("migrating task schema: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

func modelFromTask(task *agenthub.Task) (*TaskModel, error) {
	data, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return &TaskModel{
		ID:        task.ID,
		ContextID: task.ContextID,
		AgentID:   task.AgentID,
		State:     string(task.Status.State),
		Data:      data,
	}, nil
}

func taskFromModel(model *TaskModel) (*agenthub.Task, error) {
	var task agenthub.Task
	if err := json.Unmarshal(model.Data, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// Save implements Store.
func (s *DatabaseStore) Save(ctx context.Context, task *agenthub.Task) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return NewStoreError("save", task.ID, err)
	}

	model, err := modelFromTask(task)
	if err != nil {
		return NewStoreError("save", task.ID, err)
	}
	if err := s.db.WithContext(ctx).Save(model).Error; err != nil {
		return NewStoreError("save", task.ID, err)
	}
	return nil
}

// Get implements Store.
func (s *DatabaseStore) Get(ctx context.Context, taskID string) (*agenthub.Task, error) {
	if taskID == "" {
		return nil, fmt.Errorf("task ID cannot be empty")
	}

	var model TaskModel
	err := s.db.WithContext(ctx).First(&model, "id = ?", taskID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &agenthub.TaskNotFoundError{TaskID: taskID}
	}
	if err != nil {
		return nil, NewStoreError("get", taskID, err)
	}

	task, err := taskFromModel(&model)
	if err != nil {
		return nil, NewStoreError("get", taskID, err)
	}
	return task, nil
}

// Delete implements Store.
func (s *DatabaseStore) Delete(ctx context.Context, taskID string) error {
	if taskID == "" {
		return fmt.Errorf("task ID cannot be empty")
	}

	result := s.db.WithContext(ctx).Delete(&TaskModel{}, "id = ?", taskID)
	if result.Error != nil {
		return NewStoreError("delete", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &agenthub.TaskNotFoundError{TaskID: taskID}
	}
	return nil
}

// List implements Store.
func (s *DatabaseStore) List(ctx context.Context) ([]*agenthub.Task, error) {
	var models []TaskModel
	if err := s.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, NewStoreError("list", "", err)
	}

	tasks := make([]*agenthub.Task, 0, len(models))
	for i := range models {
		task, err := taskFromModel(&models[i])
		if err != nil {
			return nil, NewStoreError("list", models[i].ID, err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Count implements Store.
func (s *DatabaseStore) Count(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&TaskModel{}).Count(&count).Error; err != nil {
		return 0, NewStoreError("count", "", err)
	}
	return int(count), nil
}
