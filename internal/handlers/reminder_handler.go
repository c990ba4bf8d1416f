package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskflow/internal/dto"
	"taskflow/internal/services"
)

// ReminderHandler exposes the reminder sweep to external schedule-trigger
// services as an alternative to the in-process cron.
type ReminderHandler struct {
	reminderService *services.ReminderService
}

func NewReminderHandler(reminderService *services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

func (h *ReminderHandler) Trigger(c *fiber.Ctx) error {
	summary := h.reminderService.Run()
	return c.JSON(dto.OK("Reminder sweep completed", summary))
}
