package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"taskflow/internal/config"
	"taskflow/internal/dto"
)

// TriggerToken guards endpoints meant for external schedule-trigger
// services, which hold a static token instead of a user JWT. When no token
// is configured the endpoint is disabled outright.
func TriggerToken(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ReminderTriggerToken == "" {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("Route not found"))
		}
		provided := c.Get("X-Trigger-Token")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(cfg.ReminderTriggerToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
		}
		return c.Next()
	}
}
