package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer    string   // Issuer claim for tokens (default: freshmart-auth)
	Audience  []string // Audience claim for tokens (default: freshmart)
	SecretKey string   // Required: symmetric JWT signing key

	DatabaseFile     string // Path to SQLite database file (default: ./auth.db)
	PasswordResetURL string // Required: frontend reset page the emailed links point at

	SMTPHost     string // SMTP server host
	SMTPPort     int    // SMTP server port (default: 587)
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string // Sender address for outbound mail

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
	TokenSweepInterval  time.Duration // Expired token sweep cadence (default: 1s)
	CartSweepInterval   time.Duration // Stale cart sweep cadence (default: 1m)
}

// LoadConfig reads configuration from the environment, seeded from a .env
// file when one is present. Nothing else in the codebase reads the
// environment; everything downstream takes its settings from this struct.
func LoadConfig() (Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "freshmart-auth"),
		Audience:  []string{getEnvOrDefault("AUTH_AUDIENCE", "freshmart")},
		SecretKey: os.Getenv("AUTH_SECRET_KEY"),

		DatabaseFile:     getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PasswordResetURL: os.Getenv("AUTH_PASSWORD_RESET_URL"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvIntOrDefault("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     getEnvOrDefault("SMTP_FROM", "no-reply@freshmart.example.com"),

		Env:       getEnvOrDefault("ENV", "dev"),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("PORT", 8080),

		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		TokenSweepInterval:  getEnvDurationOrDefault("TOKEN_SWEEP_INTERVAL", time.Second),
		CartSweepInterval:   getEnvDurationOrDefault("CART_SWEEP_INTERVAL", time.Minute),
	}

	if cfg.SecretKey == "" {
		return Config{}, errors.New("AUTH_SECRET_KEY must be set")
	}
	if cfg.PasswordResetURL == "" {
		return Config{}, errors.New("AUTH_PASSWORD_RESET_URL must be set")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
