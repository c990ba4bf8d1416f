package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"taskflow/internal/models"
	"taskflow/internal/services"
)

func TestFormatReminderBody(t *testing.T) {
	due := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	tasks := []models.Task{
		{Title: "Write docs", Priority: models.PriorityHigh, DueDate: &due},
		{Title: "Review PR", Priority: models.PriorityLow},
	}

	body := services.FormatReminderBody("Alice", tasks)

	assert.Contains(t, body, "Hi Alice,")
	assert.Contains(t, body, "You have 2 pending task(s) for today:")
	assert.Contains(t, body, "1. Write docs (HIGH) - Due: 2025-03-15")
	assert.Contains(t, body, "2. Review PR (LOW) - Due: No deadline")
}

func TestEmailService_LogOnlyWithoutSMTP(t *testing.T) {
	svc := services.NewEmailService(testConfig())

	user := &models.User{Name: "Alice", Email: "alice@example.com"}
	task := &models.Task{Title: "Write docs", Status: models.StatusPending, Priority: models.PriorityMedium}

	// With no SMTP host configured every send degrades to a log line.
	assert.NoError(t, svc.SendWelcome(user))
	assert.NoError(t, svc.SendTaskCreated(user, task))
	assert.NoError(t, svc.SendTaskStatusChanged(user, task, models.StatusInProgress))
	assert.NoError(t, svc.SendTaskPriorityChanged(user, task, models.PriorityLow))
	assert.NoError(t, svc.SendDailyReminder(user, []models.Task{*task}))
}
