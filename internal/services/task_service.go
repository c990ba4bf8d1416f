package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/dto"
	"taskflow/internal/models"
)

var (
	ErrTitleRequired = errors.New("title is required")
	ErrTitleTooLong  = errors.New("title must be less than 255 characters")
	ErrInvalidStatus = errors.New("status must be pending, in-progress, or completed")
	// ErrInvalidPriority rejects any value outside low/medium/high/critical.
	ErrInvalidPriority = errors.New("priority must be low, medium, high, or critical")
	ErrInvalidDueDate  = errors.New("due date must be a valid date")
	// ErrTaskNotFound covers both absent tasks and tasks owned by another
	// user; the two cases are indistinguishable to the caller.
	ErrTaskNotFound = errors.New("task not found")
)

// TaskFilter narrows a task listing. Zero values mean "no filter";
// Limit defaults to 100.
type TaskFilter struct {
	Status   string
	Priority string
	Search   string
	Limit    int
	Skip     int
}

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) Create(userID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > 255 {
		return nil, ErrTitleTooLong
	}

	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if !models.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return nil, ErrInvalidPriority
	}

	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	}

	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &task, nil
}

// List returns the user's tasks, newest first. Status, priority and search
// filters compose with AND; search matches title or description
// case-insensitively.
func (s *TaskService) List(userID uuid.UUID, f TaskFilter) ([]models.Task, error) {
	query := s.db.Scopes(models.OwnedBy(userID))

	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		query = query.Where("priority = ?", f.Priority)
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	skip := f.Skip
	if skip < 0 {
		skip = 0
	}

	var tasks []models.Task
	err := query.Order("created_at DESC").Limit(limit).Offset(skip).Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Get(userID, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := s.db.Scopes(models.OwnedBy(userID)).First(&task, "id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

// Update applies a partial update and returns the new state together with
// the prior state, which the notifier needs for change detection.
func (s *TaskService) Update(userID, taskID uuid.UUID, req *dto.UpdateTaskRequest) (updated, prev *models.Task, err error) {
	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, nil, err
	}
	before := *task

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, nil, ErrTitleRequired
		}
		if len(title) > 255 {
			return nil, nil, ErrTitleTooLong
		}
		task.Title = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		if !models.IsValidStatus(*req.Status) {
			return nil, nil, ErrInvalidStatus
		}
		task.Status = *req.Status
	}
	if req.Priority != nil {
		if !models.IsValidPriority(*req.Priority) {
			return nil, nil, ErrInvalidPriority
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return nil, nil, err
		}
		task.DueDate = dueDate
	}

	if err := s.db.Model(task).Select("title", "description", "status", "priority", "due_date").
		Updates(map[string]interface{}{
			"title":       task.Title,
			"description": task.Description,
			"status":      task.Status,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
		}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, &before, nil
}

// Delete removes the task and returns the deleted record so callers can
// clean up any linked calendar event.
func (s *TaskService) Delete(userID, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.Get(userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Delete(task).Error; err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	return task, nil
}

// SetCalendarEventID records the remote event id after a successful sync.
// This runs after the create response has been sent; the task stays valid
// without it, so a lost write here is acceptable.
func (s *TaskService) SetCalendarEventID(taskID uuid.UUID, eventID string) error {
	return s.db.Model(&models.Task{}).Where("id = ?", taskID).
		Update("calendar_event_id", eventID).Error
}

// OpenTasks returns the user's pending and in-progress tasks in default
// listing order, for the daily reminder digest.
func (s *TaskService) OpenTasks(userID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Scopes(models.OwnedBy(userID)).
		Where("status IN ?", []string{models.StatusPending, models.StatusInProgress}).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load open tasks: %w", err)
	}
	return tasks, nil
}

// Counts summarizes the user's tasks by status for the dashboard.
func (s *TaskService) Counts(userID uuid.UUID) (*dto.TaskStats, error) {
	var stats dto.TaskStats
	base := s.db.Model(&models.Task{}).Scopes(models.OwnedBy(userID)).Session(&gorm.Session{})

	if err := base.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := base.Where("status = ?", models.StatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := base.Where("status = ?", models.StatusInProgress).Count(&stats.InProgress).Error; err != nil {
		return nil, err
	}
	if err := base.Where("status = ?", models.StatusCompleted).Count(&stats.Completed).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// parseDueDate accepts RFC3339 timestamps or plain dates and normalizes to
// midnight UTC so the stored calendar date never shifts with the server
// timezone. An empty string clears the due date.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var parsed time.Time
	var err error
	if parsed, err = time.Parse(time.RFC3339, raw); err != nil {
		if parsed, err = time.Parse("2006-01-02", raw); err != nil {
			return nil, ErrInvalidDueDate
		}
	}

	day := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}
