package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

// TaskService implements the task CRUD operations. Tasks are always scoped
// to the authenticated caller; no cross-user access exists.
type TaskService struct {
	repo   ports.TaskRepository
	logger zerolog.Logger
}

func NewTaskService(repo ports.TaskRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{repo: repo, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, input ports.CreateTaskInput) (*domain.Task, error) {
	taskType := input.Type
	if taskType == "" {
		taskType = domain.TaskTodo
	}
	if !taskType.IsValid() {
		return nil, domain.NewValidationError("invalid task type: %s", taskType)
	}

	task := &domain.Task{
		Title:       input.Title,
		Description: input.Description,
		Type:        taskType,
		UserID:      input.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", created.ID).Str("user_id", created.UserID).Msg("task created")
	return created, nil
}

// ListTasks returns the caller's tasks, excluding soft-deleted ones.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *TaskService) UpdateTask(ctx context.Context, id, userID string, fields ports.TaskUpdate) (*domain.Task, error) {
	if fields.Type != nil && !fields.Type.IsValid() {
		return nil, domain.NewValidationError("invalid task type: %s", *fields.Type)
	}
	return s.repo.Update(ctx, id, userID, fields)
}

// DeleteTask soft-deletes a task owned by userID.
func (s *TaskService) DeleteTask(ctx context.Context, id, userID string) (*domain.Task, error) {
	return s.repo.SoftDelete(ctx, id, userID)
}
