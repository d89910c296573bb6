package ports

import (
	"context"

	"github.com/taskhive/task-api/internal/core/domain"
)

// TaskUpdate lists the mutable task fields. Nil fields are left untouched.
type TaskUpdate struct {
	Title       *string
	Description *string
	Type        *domain.TaskType
}

// TaskRepository defines the persistence contract for tasks. Update and
// SoftDelete are scoped to the owning user and return domain.ErrTaskNotFound
// when no matching document belongs to them.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	FindByUser(ctx context.Context, userID string) ([]domain.Task, error)
	Update(ctx context.Context, id, userID string, fields TaskUpdate) (*domain.Task, error)
	SoftDelete(ctx context.Context, id, userID string) (*domain.Task, error)
}
