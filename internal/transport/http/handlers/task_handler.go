package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/tasktrail/backend/internal/core/ports"
	"github.com/tasktrail/backend/internal/core/services"
	"github.com/tasktrail/backend/internal/infrastructure/logger"
	"github.com/tasktrail/backend/internal/transport/http/dto"
	httpmw "github.com/tasktrail/backend/internal/transport/http/middleware"
)

type TaskHandler struct {
	service ports.TaskService
	logger  *logger.Logger
}

func NewTaskHandler(service ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{service: service, logger: logger}
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Warnw("task_create_body_parse_failed", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	session := httpmw.SessionFrom(c)
	task, err := h.service.AddTask(c.Context(), session, req.Text)
	if err != nil {
		return h.mapError(c, "task_create_failed", err)
	}

	h.logger.Infow("task_create_success", "id", task.ID, "owner_id", session.UserID)
	return c.Status(fiber.StatusCreated).JSON(dto.TaskToResponse(task))
}

// GetTasks returns both partitions in one response, mirroring the two
// standing queries a client would otherwise hold.
func (h *TaskHandler) GetTasks(c *fiber.Ctx) error {
	session := httpmw.SessionFrom(c)

	ongoing, err := h.service.GetTasksByState(c.Context(), session, false)
	if err != nil {
		return h.mapError(c, "task_list_failed", err)
	}
	completed, err := h.service.GetTasksByState(c.Context(), session, true)
	if err != nil {
		return h.mapError(c, "task_list_failed", err)
	}

	return c.JSON(dto.TaskListResponse{
		Ongoing:   dto.TasksToResponse(ongoing),
		Completed: dto.TasksToResponse(completed),
	})
}

func (h *TaskHandler) ToggleComplete(c *fiber.Ctx) error {
	id, ok := h.taskID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	task, err := h.service.ToggleComplete(c.Context(), httpmw.SessionFrom(c), id)
	if err != nil {
		return h.mapError(c, "task_toggle_failed", err)
	}

	return c.JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) UpdateProgress(c *fiber.Ctx) error {
	id, ok := h.taskID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	var req dto.UpdateProgressRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.UpdateProgress(c.Context(), httpmw.SessionFrom(c), id, *req.Progress)
	if err != nil {
		return h.mapError(c, "task_progress_failed", err)
	}

	return c.JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) EditText(c *fiber.Ctx) error {
	id, ok := h.taskID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	var req dto.EditTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
		})
	}

	if errs := req.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: errs,
		})
	}

	task, err := h.service.EditText(c.Context(), httpmw.SessionFrom(c), id, req.Text)
	if err != nil {
		return h.mapError(c, "task_edit_failed", err)
	}

	return c.JSON(dto.TaskToResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	id, ok := h.taskID(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid task id",
		})
	}

	if err := h.service.DeleteTask(c.Context(), httpmw.SessionFrom(c), id); err != nil {
		return h.mapError(c, "task_delete_failed", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *TaskHandler) ResetAll(c *fiber.Ctx) error {
	session := httpmw.SessionFrom(c)

	h.logger.Infow("task_reset_request", "owner_id", session.UserID)
	deleted, err := h.service.ResetAll(c.Context(), session)
	if err != nil {
		return h.mapError(c, "task_reset_failed", err)
	}

	return c.JSON(dto.BulkResponse{Deleted: deleted})
}

func (h *TaskHandler) ClearAll(c *fiber.Ctx) error {
	session := httpmw.SessionFrom(c)

	h.logger.Infow("task_clear_request", "owner_id", session.UserID)
	deleted, err := h.service.ClearAll(c.Context(), session)
	if err != nil {
		return h.mapError(c, "task_clear_failed", err)
	}

	return c.JSON(dto.BulkResponse{Deleted: deleted})
}

func (h *TaskHandler) taskID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		h.logger.Warnw("task_invalid_id", "id", c.Params("id"))
		return 0, false
	}
	return uint(id), true
}

func (h *TaskHandler) mapError(c *fiber.Ctx, event string, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	case errors.Is(err, services.ErrTaskEmptyText), errors.Is(err, services.ErrTaskInvalidValue):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: err.Error(),
		})
	case errors.Is(err, services.ErrAuthNoSession):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: "unauthorized",
		})
	}
	h.logger.Errorw(event, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: err.Error(),
	})
}
