package services

import (
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"taskflow/internal/config"
	"taskflow/internal/models"
)

// EmailService sends transactional notification emails over SMTP. When no
// SMTP host is configured it logs the message instead of sending, so local
// development works without a mail provider.
type EmailService struct {
	cfg    *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	s := &EmailService{cfg: cfg}
	if cfg.SMTPHost != "" {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	}
	return s
}

func (s *EmailService) send(to, subject, body string) error {
	if s.dialer == nil {
		slog.Info("smtp not configured, skipping email", "to", to, "subject", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

func (s *EmailService) SendWelcome(user *models.User) error {
	body := fmt.Sprintf("Hi %s,\n\nWelcome to the Task Manager App. We are glad to have you on board!\n\nBest,\nTask Manager Team", user.Name)
	return s.send(user.Email, "Welcome to Task Manager!", body)
}

func (s *EmailService) SendTaskCreated(user *models.User, task *models.Task) error {
	description := task.Description
	if description == "" {
		description = "No description"
	}
	dueDate := "Not set"
	if task.DueDate != nil {
		dueDate = task.DueDate.Format("2006-01-02")
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour new task has been created successfully!\n\nTask: %s\nDescription: %s\nPriority: %s\nDue Date: %s\n\nStay productive!\n\nBest,\nTask Manager Team",
		user.Name, task.Title, description, strings.ToUpper(task.Priority), dueDate,
	)
	return s.send(user.Email, "New Task Created!", body)
}

func (s *EmailService) SendTaskStatusChanged(user *models.User, task *models.Task, oldStatus string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour task status has been updated!\n\nTask: %s\nOld Status: %s\nNew Status: %s\n\nKeep up the great work!\n\nBest,\nTask Manager Team",
		user.Name, task.Title, oldStatus, task.Status,
	)
	return s.send(user.Email, "Task Status Updated!", body)
}

func (s *EmailService) SendTaskPriorityChanged(user *models.User, task *models.Task, oldPriority string) error {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour task priority has been changed!\n\nTask: %s\nOld Priority: %s\nNew Priority: %s\n\nStay organized!\n\nBest,\nTask Manager Team",
		user.Name, task.Title, strings.ToUpper(oldPriority), strings.ToUpper(task.Priority),
	)
	return s.send(user.Email, "Task Priority Updated!", body)
}

// SendDailyReminder sends one digest listing the user's open tasks.
func (s *EmailService) SendDailyReminder(user *models.User, tasks []models.Task) error {
	return s.send(user.Email, "Daily Task Reminder", FormatReminderBody(user.Name, tasks))
}

// FormatReminderBody builds the numbered digest body: title, priority and
// due date (or "No deadline") per open task.
func FormatReminderBody(name string, tasks []models.Task) string {
	lines := make([]string, 0, len(tasks))
	for i, task := range tasks {
		due := "No deadline"
		if task.DueDate != nil {
			due = task.DueDate.Format("2006-01-02")
		}
		lines = append(lines, fmt.Sprintf("%d. %s (%s) - Due: %s", i+1, task.Title, strings.ToUpper(task.Priority), due))
	}

	return fmt.Sprintf(
		"Hi %s,\n\nYou have %d pending task(s) for today:\n\n%s\n\nStay on track and make today productive!\n\nBest,\nTask Manager Team",
		name, len(tasks), strings.Join(lines, "\n"),
	)
}
