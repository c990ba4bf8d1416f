package routes

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"taskflow/internal/config"
	"taskflow/internal/handlers"
	"taskflow/internal/middleware"
	"taskflow/internal/realtime"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	hub *realtime.Hub,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	googleHandler *handlers.GoogleHandler,
	reminderHandler *handlers.ReminderHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.JWTProtected(cfg), authHandler.Me)
	auth.Post("/me/avatar", middleware.JWTProtected(cfg), authHandler.UploadAvatar)
	auth.Get("/:id/avatar", authHandler.GetAvatar)

	tasks := api.Group("/tasks", middleware.JWTProtected(cfg))
	tasks.Get("/", taskHandler.List)
	tasks.Get("/stats", taskHandler.Stats)
	tasks.Get("/:id", taskHandler.Get)
	tasks.Post("/", taskHandler.Create)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)

	google := api.Group("/google", middleware.JWTProtected(cfg))
	google.Get("/auth", googleHandler.AuthURL)
	google.Post("/callback", googleHandler.Callback)
	google.Post("/disconnect", googleHandler.Disconnect)

	// External schedule-trigger alternative to the in-process cron.
	api.Post("/reminders/trigger", middleware.TriggerToken(cfg), reminderHandler.Trigger)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Realtime channel. Clients join their private room by announcing
	// their user id after the upgrade.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(hub.Handler()))
}
