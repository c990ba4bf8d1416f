// Package notify drives the side effects of a task mutation: a synchronous
// realtime push to the owner's room, plus detached best-effort email and
// calendar dispatches that never block or fail the primary request.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/metrics"
	"taskflow/internal/models"
	"taskflow/internal/realtime"
)

const (
	channelRealtime = "realtime"
	channelEmail    = "email"
	channelCalendar = "calendar"

	sideEffectTimeout = 30 * time.Second
)

// Publisher pushes an event to one user's private room.
type Publisher interface {
	Publish(userID uuid.UUID, event string, data interface{})
}

type EmailSender interface {
	SendWelcome(user *models.User) error
	SendTaskCreated(user *models.User, task *models.Task) error
	SendTaskStatusChanged(user *models.User, task *models.Task, oldStatus string) error
	SendTaskPriorityChanged(user *models.User, task *models.Task, oldPriority string) error
}

type CalendarClient interface {
	CreateEvent(ctx context.Context, user *models.User, task *models.Task) (string, error)
	UpdateEvent(ctx context.Context, user *models.User, task *models.Task) error
	DeleteEvent(ctx context.Context, user *models.User, eventID string) error
}

// UserSource loads the owning user, including Google credentials.
type UserSource interface {
	GetUserWithSecrets(userID uuid.UUID) (*models.User, error)
}

// EventRecorder persists the remote event id after a successful sync.
type EventRecorder interface {
	SetCalendarEventID(taskID uuid.UUID, eventID string) error
}

type Notifier struct {
	hub      Publisher
	users    UserSource
	tasks    EventRecorder
	email    EmailSender
	calendar CalendarClient

	wg sync.WaitGroup
}

func New(hub Publisher, users UserSource, tasks EventRecorder, email EmailSender, calendar CalendarClient) *Notifier {
	return &Notifier{hub: hub, users: users, tasks: tasks, email: email, calendar: calendar}
}

// UserRegistered detaches the welcome email for a fresh registration.
func (n *Notifier) UserRegistered(user *models.User) {
	welcomed := *user
	n.dispatch(channelEmail, welcomed.ID, func(ctx context.Context) error {
		return n.email.SendWelcome(&welcomed)
	})
}

// TaskCreated emits the realtime event, then detaches the created email and
// the calendar insert with its post-commit event-id write-back.
func (n *Notifier) TaskCreated(task *models.Task) {
	n.hub.Publish(task.UserID, realtime.EventTaskCreated, task)
	metrics.NotificationOK(channelRealtime)

	created := *task

	n.dispatch(channelEmail, created.UserID, func(ctx context.Context) error {
		user, err := n.users.GetUserWithSecrets(created.UserID)
		if err != nil {
			return err
		}
		return n.email.SendTaskCreated(user, &created)
	})

	n.dispatch(channelCalendar, created.UserID, func(ctx context.Context) error {
		user, err := n.users.GetUserWithSecrets(created.UserID)
		if err != nil {
			return err
		}
		if !user.CalendarSyncEnabled || user.GoogleAccessToken == "" {
			return nil
		}
		eventID, err := n.calendar.CreateEvent(ctx, user, &created)
		if err != nil {
			return err
		}
		return n.tasks.SetCalendarEventID(created.ID, eventID)
	})
}

// TaskUpdated emits the realtime event and fires the status and priority
// emails independently; one update can trigger both. The remote event is
// only touched when something the calendar shows actually changed.
func (n *Notifier) TaskUpdated(prev, task *models.Task) {
	n.hub.Publish(task.UserID, realtime.EventTaskUpdated, task)
	metrics.NotificationOK(channelRealtime)

	updated := *task
	statusChanged := prev.Status != task.Status
	priorityChanged := prev.Priority != task.Priority
	oldStatus := prev.Status
	oldPriority := prev.Priority

	if statusChanged {
		n.dispatch(channelEmail, updated.UserID, func(ctx context.Context) error {
			user, err := n.users.GetUserWithSecrets(updated.UserID)
			if err != nil {
				return err
			}
			return n.email.SendTaskStatusChanged(user, &updated, oldStatus)
		})
	}

	if priorityChanged {
		n.dispatch(channelEmail, updated.UserID, func(ctx context.Context) error {
			user, err := n.users.GetUserWithSecrets(updated.UserID)
			if err != nil {
				return err
			}
			return n.email.SendTaskPriorityChanged(user, &updated, oldPriority)
		})
	}

	if (statusChanged || priorityChanged) && updated.CalendarEventID != "" {
		n.dispatch(channelCalendar, updated.UserID, func(ctx context.Context) error {
			user, err := n.users.GetUserWithSecrets(updated.UserID)
			if err != nil {
				return err
			}
			if !user.CalendarSyncEnabled || user.GoogleAccessToken == "" {
				return nil
			}
			return n.calendar.UpdateEvent(ctx, user, &updated)
		})
	}
}

// TaskDeleted emits the realtime event (id only) and removes the remote
// calendar event when one was ever linked.
func (n *Notifier) TaskDeleted(task *models.Task) {
	n.hub.Publish(task.UserID, realtime.EventTaskDeleted, map[string]interface{}{"id": task.ID})
	metrics.NotificationOK(channelRealtime)

	if task.CalendarEventID == "" {
		return
	}

	deleted := *task
	n.dispatch(channelCalendar, deleted.UserID, func(ctx context.Context) error {
		user, err := n.users.GetUserWithSecrets(deleted.UserID)
		if err != nil {
			return err
		}
		if user.GoogleAccessToken == "" {
			return nil
		}
		return n.calendar.DeleteEvent(ctx, user, deleted.CalendarEventID)
	})
}

// Wait blocks until all in-flight side effects finish. Called on shutdown
// so detached dispatches run to completion or failure, never cancellation.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// dispatch runs one side effect on its own goroutine, detached from the
// request lifecycle. Failures and panics are logged and counted, never
// propagated.
func (n *Notifier) dispatch(channel string, userID uuid.UUID, fn func(ctx context.Context) error) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("notification dispatch panicked", "channel", channel, "user_id", userID, "panic", r)
				metrics.NotificationFailed(channel)
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), sideEffectTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			slog.Error("notification dispatch failed", "channel", channel, "user_id", userID, "error", err)
			metrics.NotificationFailed(channel)
			return
		}
		metrics.NotificationOK(channel)
	}()
}
