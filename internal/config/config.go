// Package config loads service configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/splitparty/backend/internal/notify"
)

// Config holds everything main needs to wire the service.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	SMTP     notify.SMTPConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig captures storage configuration.
type DatabaseConfig struct {
	Path string
}

// AuthConfig captures token issuance settings.
type AuthConfig struct {
	JWTSecret            string
	AccessTokenTTL       time.Duration
	VerificationTokenTTL time.Duration
}

// Load builds a Config from environment variables so main stays lean.
// A .env file in the working directory is applied first when present.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return Config{
		Server: ServerConfig{
			Addr: getEnv("ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/splitparty.db"),
		},
		Auth: AuthConfig{
			// Default exists for development only; override in production.
			JWTSecret:            getEnv("SECRET_KEY", "secret_example_change"),
			AccessTokenTTL:       time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
			VerificationTokenTTL: time.Duration(getEnvInt("VERIFICATION_TOKEN_EXPIRE_MINUTES", 60)) * time.Minute,
		},
		SMTP: notify.SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASS"),
			From:     getEnv("FROM_EMAIL", "noreply@example.com"),
			BaseURL:  getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("invalid integer env value, using fallback", "key", key, "value", value)
		return fallback
	}
	return n
}
