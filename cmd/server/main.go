package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"taskflow/internal/config"
	"taskflow/internal/database"
	"taskflow/internal/dto"
	"taskflow/internal/handlers"
	"taskflow/internal/logging"
	"taskflow/internal/middleware"
	"taskflow/internal/notify"
	"taskflow/internal/realtime"
	"taskflow/internal/routes"
	"taskflow/internal/scheduler"
	"taskflow/internal/services"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}
	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(database.DB); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// Database log sink (ERROR+ async batch)
	dbLogHandler := logging.NewDBHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		dbLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	// Services
	authService := services.NewAuthService(database.DB, cfg)
	taskService := services.NewTaskService(database.DB)
	emailService := services.NewEmailService(cfg)
	calendarService := services.NewCalendarService(cfg)
	reminderService := services.NewReminderService(database.DB, taskService, emailService)

	// Realtime hub and fan-out engine
	hub := realtime.NewHub()
	notifier := notify.New(hub, authService, taskService, emailService, calendarService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, notifier)
	taskHandler := handlers.NewTaskHandler(taskService, notifier)
	googleHandler := handlers.NewGoogleHandler(authService, calendarService)
	reminderHandler := handlers.NewReminderHandler(reminderService)
	healthHandler := handlers.NewHealthHandler()

	// Daily reminder schedule
	loc, err := time.LoadLocation(cfg.ReminderTimezone)
	if err != nil {
		slog.Error("invalid reminder timezone", "timezone", cfg.ReminderTimezone, "error", err)
		os.Exit(1)
	}
	sched := scheduler.New(loc)
	if _, err := sched.Schedule(cfg.ReminderCron, func() { reminderService.Run() }); err != nil {
		slog.Error("invalid reminder cron expression", "cron", cfg.ReminderCron, "error", err)
		os.Exit(1)
	}
	sched.Start()
	slog.Info("reminder job scheduled", "cron", cfg.ReminderCron, "timezone", cfg.ReminderTimezone)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    6 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))

	// Routes
	routes.Setup(app, cfg, hub, authHandler, taskHandler, googleHandler, reminderHandler, healthHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	sched.Stop()
	close(cleanupDone)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Let detached side effects run to completion before closing the DB.
	notifier.Wait()
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong!"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Something went wrong!"
	}

	return c.Status(code).JSON(dto.Error(message))
}
