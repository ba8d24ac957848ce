package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Portal HTTP server
	PortalPort        string
	PortalHost        string
	PortalEnvironment string

	// Upstream Flipcash core API
	FlipcashAPIURL     string
	FlipcashAPITimeout time.Duration

	// Redis (sessions + directory cache)
	RedisURL string

	// Session JWT
	SessionSecret          string
	SessionExpirationHours int

	// CORS
	CORSAllowedOrigins []string

	// Rate Limiting
	RateLimitRequestsPerMinute int
	RateLimitBurst             int

	// Payment verification polling
	PaymentPollAttempts int
	PaymentPollInterval time.Duration

	// Sentry
	SentryDSN         string
	SentryEnvironment string

	// Logging
	LogLevel  string
	LogFormat string

	// Statement exports
	StorageLocalPath    string
	ExportRetentionDays int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		// Portal
		PortalPort:        getEnv("PORTAL_PORT", "8080"),
		PortalHost:        getEnv("PORTAL_HOST", "0.0.0.0"),
		PortalEnvironment: getEnv("PORTAL_ENVIRONMENT", "development"),

		// Upstream API
		FlipcashAPIURL:     getEnv("FLIPCASH_API_URL", "http://localhost:8000/api/v1"),
		FlipcashAPITimeout: getEnvAsDuration("FLIPCASH_API_TIMEOUT", 10*time.Second),

		// Redis
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		// Session JWT
		SessionSecret:          getEnv("SESSION_SECRET", "change-this-in-production"),
		SessionExpirationHours: getEnvAsInt("SESSION_EXPIRATION_HOURS", 24),

		// CORS
		CORSAllowedOrigins: []string{
			getEnv("FRONTEND_URL", "http://localhost:3000"),
		},

		// Rate Limiting
		RateLimitRequestsPerMinute: getEnvAsInt("RATE_LIMIT_REQUESTS_PER_MINUTE", 60),
		RateLimitBurst:             getEnvAsInt("RATE_LIMIT_BURST", 10),

		// Payment polling: bounded retries with a fixed interval, then the
		// UI falls back to a manual "check status" action
		PaymentPollAttempts: getEnvAsInt("PAYMENT_POLL_ATTEMPTS", 3),
		PaymentPollInterval: getEnvAsDuration("PAYMENT_POLL_INTERVAL", 3*time.Second),

		// Sentry
		SentryDSN:         getEnv("SENTRY_DSN", ""),
		SentryEnvironment: getEnv("SENTRY_ENVIRONMENT", getEnv("PORTAL_ENVIRONMENT", "development")),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Exports
		StorageLocalPath:    getEnv("STORAGE_LOCAL_PATH", "./data/exports"),
		ExportRetentionDays: getEnvAsInt("EXPORT_RETENTION_DAYS", 7),
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
