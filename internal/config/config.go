package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// SMTP (log-only mode when host is empty)
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromName     string
	FromEmail    string

	// Google Calendar OAuth
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	// Reminder job
	ReminderCron         string
	ReminderTimezone     string
	ReminderTriggerToken string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_NAME", "taskflow")
	viper.SetDefault("DB_SSLMODE", "disable")

	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("JWT_EXPIRY", "168h")

	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_EMAIL", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("FROM_NAME", "Task Manager")
	viper.SetDefault("FROM_EMAIL", "noreply@taskmanager.com")

	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URI", "")

	viper.SetDefault("REMINDER_CRON", "0 9 * * *")
	viper.SetDefault("REMINDER_TIMEZONE", "UTC")
	viper.SetDefault("REMINDER_TRIGGER_TOKEN", "")

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("CORS_ORIGINS", "*")

	viper.AutomaticEnv()

	return &Config{
		DBHost:     viper.GetString("DB_HOST"),
		DBPort:     viper.GetString("DB_PORT"),
		DBUser:     viper.GetString("DB_USER"),
		DBPassword: viper.GetString("DB_PASSWORD"),
		DBName:     viper.GetString("DB_NAME"),
		DBSSLMode:  viper.GetString("DB_SSLMODE"),

		JWTSecret: viper.GetString("JWT_SECRET"),
		JWTExpiry: parseDuration(viper.GetString("JWT_EXPIRY")),

		SMTPHost:     viper.GetString("SMTP_HOST"),
		SMTPPort:     viper.GetInt("SMTP_PORT"),
		SMTPUser:     viper.GetString("SMTP_EMAIL"),
		SMTPPassword: viper.GetString("SMTP_PASSWORD"),
		FromName:     viper.GetString("FROM_NAME"),
		FromEmail:    viper.GetString("FROM_EMAIL"),

		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURI:  viper.GetString("GOOGLE_REDIRECT_URI"),

		ReminderCron:         viper.GetString("REMINDER_CRON"),
		ReminderTimezone:     viper.GetString("REMINDER_TIMEZONE"),
		ReminderTriggerToken: viper.GetString("REMINDER_TRIGGER_TOKEN"),

		Port:        viper.GetString("PORT"),
		CORSOrigins: viper.GetString("CORS_ORIGINS"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 168 * time.Hour
	}
	return d
}
