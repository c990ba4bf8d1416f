package services

import (
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskflow/internal/metrics"
	"taskflow/internal/models"
)

// DigestSender delivers one reminder digest to one user.
type DigestSender interface {
	SendDailyReminder(user *models.User, tasks []models.Task) error
}

// OpenTaskLister provides the open tasks feeding a user's digest.
type OpenTaskLister interface {
	OpenTasks(userID uuid.UUID) ([]models.Task, error)
}

// ReminderSummary reports the outcome of one sweep. Run never fails as a
// whole; per-user problems are counted here instead.
type ReminderSummary struct {
	UsersNotified int `json:"users_notified"`
	UsersFailed   int `json:"users_failed"`
	UsersSkipped  int `json:"users_skipped"`
}

// ReminderService sweeps all users and emails a digest of their open tasks.
// The same Run implementation backs the cron schedule and the on-demand
// trigger endpoint.
type ReminderService struct {
	db    *gorm.DB
	tasks OpenTaskLister
	email DigestSender
}

func NewReminderService(db *gorm.DB, tasks OpenTaskLister, email DigestSender) *ReminderService {
	return &ReminderService{db: db, tasks: tasks, email: email}
}

func (s *ReminderService) Run() ReminderSummary {
	slog.Info("reminder sweep started")
	var summary ReminderSummary

	// The digest only needs identity and address; avatar blobs stay in the DB.
	var users []models.User
	if err := s.db.Select("id, name, email").Find(&users).Error; err != nil {
		slog.Error("reminder sweep could not list users", "error", err)
		return summary
	}

	for i := range users {
		user := &users[i]

		tasks, err := s.tasks.OpenTasks(user.ID)
		if err != nil {
			slog.Error("reminder sweep failed to load tasks", "user_id", user.ID, "error", err)
			summary.UsersFailed++
			continue
		}
		if len(tasks) == 0 {
			summary.UsersSkipped++
			continue
		}

		if err := s.email.SendDailyReminder(user, tasks); err != nil {
			slog.Error("reminder email failed", "user_id", user.ID, "error", err)
			metrics.ReminderDigests.WithLabelValues("error").Inc()
			summary.UsersFailed++
			continue
		}

		slog.Info("reminder sent", "user_id", user.ID, "open_tasks", len(tasks))
		metrics.ReminderDigests.WithLabelValues("ok").Inc()
		summary.UsersNotified++
	}

	slog.Info("reminder sweep completed",
		"notified", summary.UsersNotified,
		"failed", summary.UsersFailed,
		"skipped", summary.UsersSkipped)
	return summary
}
