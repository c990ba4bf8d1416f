package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/models"
	"taskflow/internal/services"
)

func TestCalendarService_Unconfigured(t *testing.T) {
	svc := services.NewCalendarService(testConfig())

	assert.False(t, svc.Enabled())

	_, err := svc.AuthURL()
	assert.ErrorIs(t, err, services.ErrCalendarNotConfigured)

	_, err = svc.Exchange(context.Background(), "code")
	assert.ErrorIs(t, err, services.ErrCalendarNotConfigured)

	_, err = svc.CreateEvent(context.Background(), &models.User{}, &models.Task{Title: "t"})
	assert.ErrorIs(t, err, services.ErrCalendarNotConfigured)
}

func TestCalendarService_AuthURL(t *testing.T) {
	cfg := testConfig()
	cfg.GoogleClientID = "client-id"
	cfg.GoogleClientSecret = "client-secret"
	cfg.GoogleRedirectURI = "http://localhost:8080/api/google/callback"
	svc := services.NewCalendarService(cfg)

	require.True(t, svc.Enabled())

	url, err := svc.AuthURL()
	require.NoError(t, err)
	assert.Contains(t, url, "client_id=client-id")
	assert.Contains(t, url, "access_type=offline")
	assert.Contains(t, url, "calendar.events")
}

func TestColorForPriority(t *testing.T) {
	assert.Equal(t, "11", services.ColorForPriority(models.PriorityCritical))
	assert.Equal(t, "6", services.ColorForPriority(models.PriorityHigh))
	assert.Equal(t, "5", services.ColorForPriority(models.PriorityMedium))
	assert.Equal(t, "2", services.ColorForPriority(models.PriorityLow))
	assert.Equal(t, "2", services.ColorForPriority(""))
}
