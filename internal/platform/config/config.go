package config

import "os"

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string

	// PostgresDSN wins when set; otherwise the sqlite file is used.
	PostgresDSN string
	SQLitePath  string

	// RedisAddr empty means in-memory sessions.
	RedisAddr     string
	RedisPassword string

	// SendGridAPIKey empty means outgoing mail is recorded, not delivered.
	SendGridAPIKey  string
	MailFromName    string
	MailFromAddress string

	// Seed admin account, ensured at startup.
	AdminUsername string
	AdminEmail    string
	AdminPassword string
}

func Load() (Config, error) {
	return Config{
		ServiceName: envOr("SERVICE_NAME", "bookstack"),
		HTTPPort:    envOr("HTTP_PORT", "8080"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		SQLitePath:  envOr("SQLITE_PATH", "library.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		MailFromName:    envOr("MAIL_FROM_NAME", "Digital Library"),
		MailFromAddress: envOr("MAIL_FROM_ADDRESS", "noreply@library.com"),

		AdminUsername: envOr("ADMIN_USERNAME", "admin"),
		AdminEmail:    envOr("ADMIN_EMAIL", "admin@library.com"),
		AdminPassword: envOr("ADMIN_PASSWORD", "admin"),
	}, nil
}

func envOr(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
