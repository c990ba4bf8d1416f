package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"taskflow/internal/config"
	"taskflow/internal/models"
)

var ErrCalendarNotConfigured = errors.New("google calendar integration is not configured")

// CalendarService performs one-way sync of tasks into the user's primary
// Google calendar. All calls are best-effort; callers log and move on.
type CalendarService struct {
	oauth *oauth2.Config
}

func NewCalendarService(cfg *config.Config) *CalendarService {
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		return &CalendarService{}
	}
	return &CalendarService{
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURI,
			Scopes:       []string{calendar.CalendarEventsScope},
			Endpoint:     google.Endpoint,
		},
	}
}

func (s *CalendarService) Enabled() bool {
	return s.oauth != nil
}

// AuthURL returns the consent URL. Offline access with forced consent so
// Google issues a refresh token.
func (s *CalendarService) AuthURL() (string, error) {
	if s.oauth == nil {
		return "", ErrCalendarNotConfigured
	}
	return s.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// Exchange trades an authorization code for OAuth tokens.
func (s *CalendarService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if s.oauth == nil {
		return nil, ErrCalendarNotConfigured
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

func (s *CalendarService) client(ctx context.Context, user *models.User) (*calendar.Service, error) {
	if s.oauth == nil {
		return nil, ErrCalendarNotConfigured
	}
	source := s.oauth.TokenSource(ctx, &oauth2.Token{
		AccessToken:  user.GoogleAccessToken,
		RefreshToken: user.GoogleRefreshToken,
	})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, fmt.Errorf("failed to build calendar client: %w", err)
	}
	return svc, nil
}

// CreateEvent inserts a remote event for the task and returns its id.
func (s *CalendarService) CreateEvent(ctx context.Context, user *models.User, task *models.Task) (string, error) {
	svc, err := s.client(ctx, user)
	if err != nil {
		return "", err
	}

	event := buildEvent(task)
	created, err := svc.Events.Insert("primary", event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create calendar event: %w", err)
	}
	return created.Id, nil
}

// UpdateEvent pushes the task's current state onto its linked remote event.
// Completed tasks map to a cancelled remote status.
func (s *CalendarService) UpdateEvent(ctx context.Context, user *models.User, task *models.Task) error {
	svc, err := s.client(ctx, user)
	if err != nil {
		return err
	}

	event := buildEvent(task)
	if task.Status == models.StatusCompleted {
		event.Status = "cancelled"
	} else {
		event.Status = "confirmed"
	}

	if _, err := svc.Events.Update("primary", task.CalendarEventID, event).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update calendar event: %w", err)
	}
	return nil
}

func (s *CalendarService) DeleteEvent(ctx context.Context, user *models.User, eventID string) error {
	svc, err := s.client(ctx, user)
	if err != nil {
		return err
	}

	if err := svc.Events.Delete("primary", eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	return nil
}

// buildEvent maps a task onto a one-hour calendar event starting at the due
// date, or tomorrow when no due date is set.
func buildEvent(task *models.Task) *calendar.Event {
	description := task.Description
	if description == "" {
		description = "No description"
	}

	start := time.Now().Add(24 * time.Hour)
	if task.DueDate != nil {
		start = *task.DueDate
	}
	end := start.Add(time.Hour)

	return &calendar.Event{
		Summary:     task.Title,
		Description: description,
		Start:       &calendar.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
		ColorId:     ColorForPriority(task.Priority),
	}
}

// ColorForPriority maps task priority onto Google Calendar color ids.
func ColorForPriority(priority string) string {
	switch priority {
	case models.PriorityCritical:
		return "11"
	case models.PriorityHigh:
		return "6"
	case models.PriorityMedium:
		return "5"
	default:
		return "2"
	}
}
