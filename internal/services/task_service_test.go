package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/dto"
	"taskflow/internal/models"
	"taskflow/internal/services"
)

func strPtr(s string) *string { return &s }

func TestTaskService_Create_Defaults(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	task, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "  Write docs  "})
	require.NoError(t, err)

	assert.Equal(t, owner, task.UserID)
	assert.Equal(t, "Write docs", task.Title, "title should be trimmed")
	assert.Equal(t, models.StatusPending, task.Status)
	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.Nil(t, task.DueDate)
	assert.Empty(t, task.CalendarEventID)
}

func TestTaskService_Create_Validation(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	longTitle := make([]byte, 256)
	for i := range longTitle {
		longTitle[i] = 'x'
	}

	cases := []struct {
		name string
		req  dto.CreateTaskRequest
		want error
	}{
		{"empty title", dto.CreateTaskRequest{Title: "   "}, services.ErrTitleRequired},
		{"long title", dto.CreateTaskRequest{Title: string(longTitle)}, services.ErrTitleTooLong},
		{"bad status", dto.CreateTaskRequest{Title: "t", Status: "done"}, services.ErrInvalidStatus},
		{"bad priority", dto.CreateTaskRequest{Title: "t", Priority: "urgent"}, services.ErrInvalidPriority},
		{"bad due date", dto.CreateTaskRequest{Title: "t", DueDate: "next tuesday"}, services.ErrInvalidDueDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(owner, &tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTaskService_OwnershipIsolation(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	userA := uuid.New()
	userB := uuid.New()

	task, err := svc.Create(userA, &dto.CreateTaskRequest{Title: "Write docs", Priority: models.PriorityCritical})
	require.NoError(t, err)

	// B's listing never includes A's task.
	tasksB, err := svc.List(userB, services.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, tasksB)

	// Foreign ownership is indistinguishable from absence.
	_, err = svc.Get(userB, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	_, _, err = svc.Update(userB, task.ID, &dto.UpdateTaskRequest{Title: strPtr("hijacked")})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	_, err = svc.Delete(userB, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	// The owner still sees the untouched task.
	got, err := svc.Get(userA, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write docs", got.Title)
}

func TestTaskService_List_Filters(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	mk := func(title, description, status, priority string) {
		_, err := svc.Create(owner, &dto.CreateTaskRequest{
			Title: title, Description: description, Status: status, Priority: priority,
		})
		require.NoError(t, err)
	}

	mk("Review PR", "", models.StatusPending, models.PriorityHigh)
	mk("Write tests", "needs review before merge", models.StatusPending, models.PriorityLow)
	mk("Review budget", "", models.StatusCompleted, models.PriorityHigh)
	mk("Ship release", "", models.StatusInProgress, models.PriorityCritical)

	// Search matches title OR description, case-insensitively.
	found, err := svc.List(owner, services.TaskFilter{Search: "REVIEW"})
	require.NoError(t, err)
	assert.Len(t, found, 3)

	// Filter dimensions compose with AND.
	found, err = svc.List(owner, services.TaskFilter{Search: "review", Status: models.StatusPending})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	found, err = svc.List(owner, services.TaskFilter{Search: "review", Status: models.StatusPending, Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Review PR", found[0].Title)

	found, err = svc.List(owner, services.TaskFilter{Priority: models.PriorityCritical})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ship release", found[0].Title)
}

func TestTaskService_List_Pagination(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.Create(owner, &dto.CreateTaskRequest{Title: title})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond) // distinct created_at for ordering
	}

	all, err := svc.List(owner, services.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title, "newest first")

	page, err := svc.List(owner, services.TaskFilter{Limit: 2, Skip: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "second", page[0].Title)
	assert.Equal(t, "first", page[1].Title)
}

func TestTaskService_Update_PartialAndPriorState(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	task, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "Write docs", Description: "draft"})
	require.NoError(t, err)

	updated, prev, err := svc.Update(owner, task.ID, &dto.UpdateTaskRequest{
		Status:   strPtr(models.StatusCompleted),
		Priority: strPtr(models.PriorityHigh),
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, prev.Status)
	assert.Equal(t, models.PriorityMedium, prev.Priority)
	assert.Equal(t, models.StatusCompleted, updated.Status)
	assert.Equal(t, models.PriorityHigh, updated.Priority)

	// Untouched fields keep their values.
	assert.Equal(t, "Write docs", updated.Title)
	assert.Equal(t, "draft", updated.Description)

	// Enum validation applies to updates regardless of other fields.
	_, _, err = svc.Update(owner, task.ID, &dto.UpdateTaskRequest{Status: strPtr("archived")})
	assert.ErrorIs(t, err, services.ErrInvalidStatus)
}

func TestTaskService_DueDate_RoundTrip(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	task, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "Write docs", DueDate: "2025-03-15"})
	require.NoError(t, err)

	got, err := svc.Get(owner, task.ID)
	require.NoError(t, err)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2025-03-15", got.DueDate.Format("2006-01-02"))

	// RFC3339 input keeps the stated calendar date too.
	task2, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "Review", DueDate: "2025-12-31T10:30:00Z"})
	require.NoError(t, err)
	got2, err := svc.Get(owner, task2.ID)
	require.NoError(t, err)
	require.NotNil(t, got2.DueDate)
	assert.Equal(t, "2025-12-31", got2.DueDate.Format("2006-01-02"))

	// An empty due_date on update clears it.
	updated, _, err := svc.Update(owner, task.ID, &dto.UpdateTaskRequest{DueDate: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.DueDate)
}

func TestTaskService_Delete_ReturnsRecord(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	task, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "Write docs"})
	require.NoError(t, err)
	require.NoError(t, svc.SetCalendarEventID(task.ID, "evt-123"))

	deleted, err := svc.Delete(owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID)
	assert.Equal(t, "evt-123", deleted.CalendarEventID, "deleted record carries the event id for cleanup")

	_, err = svc.Get(owner, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
}

func TestTaskService_OpenTasks(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	_, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "pending one"})
	require.NoError(t, err)
	_, err = svc.Create(owner, &dto.CreateTaskRequest{Title: "in flight", Status: models.StatusInProgress})
	require.NoError(t, err)
	_, err = svc.Create(owner, &dto.CreateTaskRequest{Title: "done", Status: models.StatusCompleted})
	require.NoError(t, err)

	open, err := svc.OpenTasks(owner)
	require.NoError(t, err)
	assert.Len(t, open, 2)
	for _, task := range open {
		assert.NotEqual(t, models.StatusCompleted, task.Status)
	}
}

func TestTaskService_Counts(t *testing.T) {
	svc := services.NewTaskService(setupDB(t))
	owner := uuid.New()

	for _, status := range []string{
		models.StatusPending, models.StatusPending,
		models.StatusInProgress,
		models.StatusCompleted, models.StatusCompleted, models.StatusCompleted,
	} {
		_, err := svc.Create(owner, &dto.CreateTaskRequest{Title: "t", Status: status})
		require.NoError(t, err)
	}
	// Another user's tasks never leak into the stats.
	_, err := svc.Create(uuid.New(), &dto.CreateTaskRequest{Title: "other"})
	require.NoError(t, err)

	stats, err := svc.Counts(owner)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.InProgress)
	assert.Equal(t, int64(3), stats.Completed)
}
