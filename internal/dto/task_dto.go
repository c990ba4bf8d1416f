package dto

import "taskflow/internal/models"

type CreateTaskRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

// UpdateTaskRequest is a partial update: only non-nil fields are applied.
// An empty due_date string clears the due date.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
}

type TaskListResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    struct {
		Tasks []models.Task `json:"tasks"`
	} `json:"data"`
}

func NewTaskListResponse(tasks []models.Task) TaskListResponse {
	resp := TaskListResponse{Success: true, Count: len(tasks)}
	resp.Data.Tasks = tasks
	return resp
}

// TaskStats summarizes a user's tasks for the dashboard.
type TaskStats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}
