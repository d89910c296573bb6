package handler

import "github.com/taskhive/task-api/internal/core/domain"

type createTaskRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type"`
}

// updateTaskRequest uses pointers so absent fields are left untouched.
type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
}

func (r updateTaskRequest) fields() (title, description *string, taskType *domain.TaskType) {
	if r.Type != nil {
		t := domain.TaskType(*r.Type)
		taskType = &t
	}
	return r.Title, r.Description, taskType
}
