package ports

import (
	"context"

	"github.com/taskhive/task-api/internal/core/domain"
)

// CreateTaskInput carries the task creation payload.
type CreateTaskInput struct {
	Title       string
	Description string
	Type        domain.TaskType
	UserID      string
}

type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error)
	ListTasks(ctx context.Context, userID string) ([]domain.Task, error)
	UpdateTask(ctx context.Context, id, userID string, fields TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, id, userID string) (*domain.Task, error)
}
