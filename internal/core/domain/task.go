package domain

import (
	"errors"
	"time"
)

// TaskType represents the board column a task sits in.
type TaskType string

const (
	TaskTodo       TaskType = "todo"
	TaskInProgress TaskType = "in progress"
	TaskDone       TaskType = "done"
)

var ErrTaskNotFound = errors.New("task not found")

// IsValid reports whether t is a known task type.
func (t TaskType) IsValid() bool {
	switch t {
	case TaskTodo, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is a user-owned work item. Deletion is soft: IsDeleted is flipped and
// the document stays in storage.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        TaskType  `json:"type"`
	UserID      string    `json:"user_id"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}
