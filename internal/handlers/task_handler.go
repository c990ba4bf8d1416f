package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskflow/internal/dto"
	"taskflow/internal/middleware"
	"taskflow/internal/notify"
	"taskflow/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	notifier    *notify.Notifier
}

func NewTaskHandler(taskService *services.TaskService, notifier *notify.Notifier) *TaskHandler {
	return &TaskHandler{taskService: taskService, notifier: notifier}
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	skip, _ := strconv.Atoi(c.Query("skip", "0"))

	tasks, err := h.taskService.List(userID, services.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
		Limit:    limit,
		Skip:     skip,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while fetching tasks"))
	}

	return c.JSON(dto.NewTaskListResponse(tasks))
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
	}

	task, err := h.taskService.Get(userID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while fetching task"))
	}

	return c.JSON(dto.OK("", fiber.Map{"task": task}))
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}

	task, err := h.taskService.Create(userID, &req)
	if err != nil {
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Error(validationMessage(err)))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while creating task"))
	}

	h.notifier.TaskCreated(task)

	return c.Status(fiber.StatusCreated).JSON(dto.OK("Task created successfully", fiber.Map{"task": task}))
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}

	task, prev, err := h.taskService.Update(userID, taskID, &req)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
		}
		if isValidationError(err) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Error(validationMessage(err)))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while updating task"))
	}

	h.notifier.TaskUpdated(prev, task)

	return c.JSON(dto.OK("Task updated successfully", fiber.Map{"task": task}))
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
	}

	task, err := h.taskService.Delete(userID, taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("Task not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while deleting task"))
	}

	h.notifier.TaskDeleted(task)

	return c.JSON(dto.OK("Task deleted successfully", fiber.Map{"task": task}))
}

func (h *TaskHandler) Stats(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	stats, err := h.taskService.Counts(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Server error while fetching stats"))
	}

	return c.JSON(dto.OK("", fiber.Map{"stats": stats}))
}

func isValidationError(err error) bool {
	return errors.Is(err, services.ErrTitleRequired) ||
		errors.Is(err, services.ErrTitleTooLong) ||
		errors.Is(err, services.ErrInvalidStatus) ||
		errors.Is(err, services.ErrInvalidPriority) ||
		errors.Is(err, services.ErrInvalidDueDate)
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrTitleRequired):
		return "Title is required"
	case errors.Is(err, services.ErrTitleTooLong):
		return "Title must be less than 255 characters"
	case errors.Is(err, services.ErrInvalidStatus):
		return "Status must be pending, in-progress, or completed"
	case errors.Is(err, services.ErrInvalidPriority):
		return "Priority must be low, medium, high, or critical"
	case errors.Is(err, services.ErrInvalidDueDate):
		return "Due date must be a valid date"
	}
	return "Invalid request body"
}
