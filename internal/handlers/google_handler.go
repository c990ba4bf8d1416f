package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/dto"
	"taskflow/internal/middleware"
	"taskflow/internal/services"
)

// GoogleHandler manages the calendar connect/disconnect flow. The calendar
// mutations themselves happen inside the notification fan-out.
type GoogleHandler struct {
	authService     *services.AuthService
	calendarService *services.CalendarService
}

func NewGoogleHandler(authService *services.AuthService, calendarService *services.CalendarService) *GoogleHandler {
	return &GoogleHandler{authService: authService, calendarService: calendarService}
}

func (h *GoogleHandler) AuthURL(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	url, err := h.calendarService.AuthURL()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to generate auth URL"))
	}

	return c.JSON(dto.OK("", dto.GoogleAuthURLResponse{URL: url}))
}

func (h *GoogleHandler) Callback(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	var req dto.GoogleCallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	if strings.TrimSpace(req.Code) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Authorization code is required"))
	}

	token, err := h.calendarService.Exchange(c.Context(), req.Code)
	if err != nil {
		slog.Error("google code exchange failed", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to connect Google Calendar"))
	}

	if err := h.authService.SaveGoogleTokens(userID, token.AccessToken, token.RefreshToken); err != nil {
		slog.Error("failed to persist google tokens", "user_id", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to connect Google Calendar"))
	}

	return c.JSON(dto.OK("Google Calendar connected successfully", nil))
}

func (h *GoogleHandler) Disconnect(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	if err := h.authService.DisconnectGoogle(userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to disconnect"))
	}

	return c.JSON(dto.OK("Google Calendar disconnected", nil))
}
