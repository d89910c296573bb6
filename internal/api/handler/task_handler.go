package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-api/internal/api/metrics"
	"github.com/taskhive/task-api/internal/api/response"
	"github.com/taskhive/task-api/internal/core/domain"
	"github.com/taskhive/task-api/internal/core/ports"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// CreateTask creates a task owned by the authenticated user.
//
// @Summary      Create a task
// @Tags         task
// @Accept       json
// @Produce      json
// @Param        body  body      createTaskRequest  true  "Task details"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Failure      500   {object}  response.Envelope
// @Router       /task [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid data", "Request body could not be parsed")
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid data", "Title and description are required")
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), ports.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        domain.TaskType(req.Type),
		UserID:      userID,
	})
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return response.Error(c, http.StatusBadRequest, "Invalid data", ve.Msg)
		}
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Type)).Inc()
	return response.JSON(c, http.StatusCreated, "success",
		"Task created successfully", "Task created successfully and saved into db", task)
}

// ListTasks returns the authenticated user's tasks.
//
// @Summary      List tasks
// @Tags         task
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /task [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListTasks(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, "success",
		"Tasks retrieved successfully", "", tasks)
}

// UpdateTask updates a task owned by the authenticated user.
//
// @Summary      Update a task
// @Tags         task
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to update"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /task/{id} [put]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	taskID := c.Param("id")

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, "Invalid data", "Request body could not be parsed")
	}

	title, description, taskType := req.fields()
	task, err := h.taskService.UpdateTask(c.Request().Context(), taskID, userID, ports.TaskUpdate{
		Title:       title,
		Description: description,
		Type:        taskType,
	})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			return response.Error(c, http.StatusBadRequest, "Invalid data", ve.Msg)
		case errors.Is(err, domain.ErrTaskNotFound):
			return response.Error(c, http.StatusNotFound, "Task not found", "No task found with id "+taskID)
		}
		return err
	}

	return response.JSON(c, http.StatusOK, "success",
		"Task updated successfully", "", task)
}

// DeleteTask soft-deletes a task owned by the authenticated user.
//
// @Summary      Delete a task
// @Tags         task
// @Produce      json
// @Param        id  path  string  true  "Task id"
// @Success      200  {object}  response.Envelope
// @Failure      404  {object}  response.Envelope
// @Failure      500  {object}  response.Envelope
// @Router       /task/{id} [delete]
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}
	taskID := c.Param("id")

	task, err := h.taskService.DeleteTask(c.Request().Context(), taskID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return response.Error(c, http.StatusNotFound, "Task not found", "No task found with id "+taskID)
		}
		return err
	}

	return response.JSON(c, http.StatusOK, "success",
		"Task deleted successfully", "", task)
}
