package dto

import (
	"github.com/google/uuid"

	"taskflow/internal/models"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponse is the public view of a user; avatar bytes and Google
// credentials are only ever exposed through their dedicated endpoints.
type UserResponse struct {
	ID                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	HasAvatar           bool      `json:"has_avatar"`
	CalendarSyncEnabled bool      `json:"calendar_sync_enabled"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		HasAvatar:           u.HasAvatar(),
		CalendarSyncEnabled: u.CalendarSyncEnabled,
	}
}

type GoogleCallbackRequest struct {
	Code string `json:"code"`
}

type GoogleAuthURLResponse struct {
	URL string `json:"url"`
}
